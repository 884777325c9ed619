/*
Copyright © 2025 Localstack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package template

// Parameter describes a template parameter declaration
type Parameter struct {
	Type        string
	Default     any
	Description string
}

// ResourceSpec describes a single resource declared in a template
type ResourceSpec struct {
	LogicalID  string
	Type       string
	Properties map[string]any
	DependsOn  []string
}

// Output describes a template output declaration
type Output struct {
	Value       any
	Description string
}

// Template is the parsed, immutable form of a template document
type Template struct {
	Description string
	Parameters  map[string]Parameter
	Resources   map[string]ResourceSpec
	Conditions  map[string]any
	Outputs     map[string]Output

	// ResourceOrder records resource logical IDs in declaration order,
	// used to break ties when several resources become ready at once.
	ResourceOrder []string
}

// Resource returns the spec for a logical ID, if declared
func (t *Template) Resource(logicalID string) (ResourceSpec, bool) {
	spec, ok := t.Resources[logicalID]
	return spec, ok
}

// HasParameter reports whether the template declares the named parameter
func (t *Template) HasParameter(name string) bool {
	_, ok := t.Parameters[name]
	return ok
}
