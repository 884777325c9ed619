/*
Copyright © 2025 Localstack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package template

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse decodes a template body into a Template. JSON and YAML bodies are
// both accepted (JSON is parsed by the YAML decoder), and CloudFormation
// short-form intrinsic tags (!Ref, !GetAtt, !Join, ...) are normalised to
// their long map form so later stages see a single representation.
//
// Parse performs structural validation only; cross-reference checking
// belongs to the graph builder.
func Parse(body string) (*Template, error) {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(body), &root); err != nil {
		return nil, &SyntaxError{Cause: err}
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, &SyntaxError{Cause: fmt.Errorf("empty template body")}
	}

	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, &SchemaError{Detail: "template root must be a mapping"}
	}

	t := &Template{
		Parameters: make(map[string]Parameter),
		Resources:  make(map[string]ResourceSpec),
		Conditions: make(map[string]any),
		Outputs:    make(map[string]Output),
	}

	var resourcesNode *yaml.Node
	for i := 0; i+1 < len(doc.Content); i += 2 {
		key := doc.Content[i].Value
		value := doc.Content[i+1]
		switch key {
		case "Description":
			t.Description = value.Value
		case "Parameters":
			if err := parseParameters(value, t); err != nil {
				return nil, err
			}
		case "Conditions":
			conditions, err := decodeNode(value)
			if err != nil {
				return nil, err
			}
			if m, ok := conditions.(map[string]any); ok {
				t.Conditions = m
			}
		case "Outputs":
			if err := parseOutputs(value, t); err != nil {
				return nil, err
			}
		case "Resources":
			resourcesNode = value
		}
	}

	if resourcesNode == nil {
		return nil, &SchemaError{Detail: "missing Resources section"}
	}
	if err := parseResources(resourcesNode, t); err != nil {
		return nil, err
	}
	if len(t.Resources) == 0 {
		return nil, &SchemaError{Detail: "Resources section is empty"}
	}

	return t, nil
}

func parseParameters(node *yaml.Node, t *Template) error {
	if node.Kind != yaml.MappingNode {
		return &SchemaError{Detail: "Parameters section must be a mapping"}
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		raw, err := decodeNode(node.Content[i+1])
		if err != nil {
			return err
		}
		spec, _ := raw.(map[string]any)
		param := Parameter{}
		if v, ok := spec["Type"].(string); ok {
			param.Type = v
		}
		if v, ok := spec["Description"].(string); ok {
			param.Description = v
		}
		param.Default = spec["Default"]
		t.Parameters[name] = param
	}
	return nil
}

func parseOutputs(node *yaml.Node, t *Template) error {
	if node.Kind != yaml.MappingNode {
		return &SchemaError{Detail: "Outputs section must be a mapping"}
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		raw, err := decodeNode(node.Content[i+1])
		if err != nil {
			return err
		}
		spec, _ := raw.(map[string]any)
		out := Output{Value: spec["Value"]}
		if v, ok := spec["Description"].(string); ok {
			out.Description = v
		}
		t.Outputs[name] = out
	}
	return nil
}

func parseResources(node *yaml.Node, t *Template) error {
	if node.Kind != yaml.MappingNode {
		return &SchemaError{Detail: "Resources section must be a mapping"}
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		logicalID := node.Content[i].Value
		raw, err := decodeNode(node.Content[i+1])
		if err != nil {
			return err
		}
		entry, ok := raw.(map[string]any)
		if !ok {
			return &SchemaError{Detail: fmt.Sprintf("resource %s must be a mapping", logicalID)}
		}
		resourceType, ok := entry["Type"].(string)
		if !ok || resourceType == "" {
			return &SchemaError{Detail: fmt.Sprintf("resource %s has no Type", logicalID)}
		}
		spec := ResourceSpec{
			LogicalID: logicalID,
			Type:      resourceType,
		}
		if props, ok := entry["Properties"].(map[string]any); ok {
			spec.Properties = props
		} else {
			spec.Properties = map[string]any{}
		}
		spec.DependsOn = dependsOnList(entry["DependsOn"])
		t.Resources[logicalID] = spec
		t.ResourceOrder = append(t.ResourceOrder, logicalID)
	}
	return nil
}

// dependsOnList accepts the scalar and list forms of DependsOn
func dependsOnList(raw any) []string {
	switch v := raw.(type) {
	case string:
		return []string{v}
	case []any:
		deps := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				deps = append(deps, s)
			}
		}
		return deps
	}
	return nil
}

// decodeNode converts a YAML node into plain Go values, expanding
// CloudFormation short-form tags into their long map form.
func decodeNode(node *yaml.Node) (any, error) {
	if node.Kind == yaml.AliasNode {
		return decodeNode(node.Alias)
	}

	if tag := shortFormTag(node.Tag); tag != "" {
		return decodeShortForm(tag, node)
	}

	switch node.Kind {
	case yaml.MappingNode:
		m := make(map[string]any, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			value, err := decodeNode(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			m[node.Content[i].Value] = value
		}
		return m, nil
	case yaml.SequenceNode:
		s := make([]any, 0, len(node.Content))
		for _, item := range node.Content {
			value, err := decodeNode(item)
			if err != nil {
				return nil, err
			}
			s = append(s, value)
		}
		return s, nil
	case yaml.ScalarNode:
		var v any
		if err := node.Decode(&v); err != nil {
			return nil, &SyntaxError{Cause: err}
		}
		return v, nil
	}
	return nil, &SyntaxError{Cause: fmt.Errorf("unsupported node kind %v", node.Kind)}
}

// shortFormTag returns the intrinsic name for a local !Tag, or "" for
// standard YAML tags.
func shortFormTag(tag string) string {
	if !strings.HasPrefix(tag, "!") || strings.HasPrefix(tag, "!!") {
		return ""
	}
	return strings.TrimPrefix(tag, "!")
}

func decodeShortForm(name string, node *yaml.Node) (any, error) {
	// Decode the tagged value itself, ignoring the custom tag.
	var value any
	var err error
	switch node.Kind {
	case yaml.ScalarNode:
		value = node.Value
	default:
		clone := *node
		clone.Tag = ""
		value, err = decodeNode(&clone)
		if err != nil {
			return nil, err
		}
	}

	switch name {
	case "Ref":
		return map[string]any{"Ref": value}, nil
	case "Condition":
		return map[string]any{"Condition": value}, nil
	case "GetAtt":
		// !GetAtt Resource.Attribute or !GetAtt [Resource, Attribute]
		if s, ok := value.(string); ok {
			parts := strings.SplitN(s, ".", 2)
			if len(parts) != 2 {
				return nil, &SchemaError{Detail: fmt.Sprintf("malformed !GetAtt %q", s)}
			}
			return map[string]any{"Fn::GetAtt": []any{parts[0], parts[1]}}, nil
		}
		return map[string]any{"Fn::GetAtt": value}, nil
	default:
		return map[string]any{"Fn::" + name: value}, nil
	}
}
