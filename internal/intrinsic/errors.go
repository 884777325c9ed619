/*
Copyright © 2025 Localstack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package intrinsic

import "fmt"

// DanglingReferenceError indicates a Ref or Fn::GetAtt names a logical ID
// that the template does not declare. It is a template validation failure
// and must surface at graph-build time, before any resource is touched.
type DanglingReferenceError struct {
	Referrer string
	Target   string
}

func (e *DanglingReferenceError) Error() string {
	if e.Referrer == "" {
		return fmt.Sprintf("reference to undeclared resource %q", e.Target)
	}
	return fmt.Sprintf("resource %q references undeclared resource %q", e.Referrer, e.Target)
}

// UnresolvedDependencyError indicates a reference to a declared resource
// that has not yet reached a terminal success state. Seeing this during an
// apply means the graph walk scheduled a resource before its dependencies,
// which is an engine defect rather than a template error.
type UnresolvedDependencyError struct {
	Target string
}

func (e *UnresolvedDependencyError) Error() string {
	return fmt.Sprintf("resource %q has not completed; its identifier cannot be resolved yet", e.Target)
}
