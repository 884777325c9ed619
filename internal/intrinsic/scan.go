/*
Copyright © 2025 Localstack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package intrinsic

import (
	"regexp"
	"strings"
)

// Reference is a mention of a logical resource name found in a property
// tree. Attribute is empty for plain Ref forms.
type Reference struct {
	LogicalID string
	Attribute string
}

var subVarPattern = regexp.MustCompile(`\$\{([^!][^}]*)\}`)

// Scan walks a raw property tree and returns every logical name mentioned
// by a Ref, Fn::GetAtt or Fn::Sub expression. It never resolves values, so
// it is safe to run before any resource exists; the graph builder uses it
// to derive implicit dependency edges.
//
// Pseudo parameters (AWS::*) are not references and are skipped. Parameter
// refs are indistinguishable from resource refs at this level; the caller
// filters against its set of declared names.
func Scan(value any) []Reference {
	var refs []Reference
	scan(value, &refs)
	return refs
}

func scan(value any, refs *[]Reference) {
	switch v := value.(type) {
	case map[string]any:
		if target, ok := v["Ref"].(string); ok && len(v) == 1 {
			if !isPseudo(target) {
				*refs = append(*refs, Reference{LogicalID: target})
			}
			return
		}
		if raw, ok := v["Fn::GetAtt"]; ok && len(v) == 1 {
			if ref, ok := getAttReference(raw); ok {
				*refs = append(*refs, ref)
			}
			return
		}
		if raw, ok := v["Fn::Sub"]; ok && len(v) == 1 {
			scanSub(raw, refs)
			return
		}
		for _, item := range v {
			scan(item, refs)
		}
	case []any:
		for _, item := range v {
			scan(item, refs)
		}
	}
}

func scanSub(raw any, refs *[]Reference) {
	text, _ := raw.(string)
	var locals map[string]any
	if parts, ok := raw.([]any); ok && len(parts) == 2 {
		text, _ = parts[0].(string)
		locals, _ = parts[1].(map[string]any)
		for _, item := range locals {
			scan(item, refs)
		}
	}
	for _, match := range subVarPattern.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(match[1])
		if _, local := locals[name]; local || isPseudo(name) {
			continue
		}
		if logicalID, attr, found := strings.Cut(name, "."); found {
			*refs = append(*refs, Reference{LogicalID: logicalID, Attribute: attr})
		} else {
			*refs = append(*refs, Reference{LogicalID: name})
		}
	}
}

func getAttReference(raw any) (Reference, bool) {
	switch v := raw.(type) {
	case string:
		if logicalID, attr, found := strings.Cut(v, "."); found {
			return Reference{LogicalID: logicalID, Attribute: attr}, true
		}
	case []any:
		if len(v) >= 2 {
			logicalID, _ := v[0].(string)
			attr, _ := v[1].(string)
			if logicalID != "" {
				return Reference{LogicalID: logicalID, Attribute: attr}, true
			}
		}
	}
	return Reference{}, false
}

func isPseudo(name string) bool {
	return strings.HasPrefix(name, "AWS::")
}
