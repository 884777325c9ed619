/*
Copyright © 2025 Localstack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package template

import "fmt"

// SyntaxError indicates the template body could not be decoded as JSON or YAML
type SyntaxError struct {
	Cause error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("template syntax error: %v", e.Cause)
}

func (e *SyntaxError) Unwrap() error {
	return e.Cause
}

// SchemaError indicates the template decoded but is structurally invalid,
// for example a missing Resources section or a resource without a Type
type SchemaError struct {
	Detail string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("template schema error: %s", e.Detail)
}
