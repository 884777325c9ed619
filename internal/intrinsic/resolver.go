/*
Copyright © 2025 Localstack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package intrinsic

import (
	"fmt"
	"strconv"
	"strings"
)

// ResourceLookup exposes the resolved resources of the enclosing stack.
// Implementations must only report resources that have reached a terminal
// success state; anything else answers false.
type ResourceLookup interface {
	Declared(logicalID string) bool
	PhysicalID(logicalID string) (string, bool)
	Attribute(logicalID, attribute string) (string, bool)
}

// Context carries everything an expression may refer to: parameter values
// (defaults already applied), pseudo parameters, condition definitions and
// the stack's resolved resources.
type Context struct {
	Parameters map[string]any
	Pseudo     map[string]string
	Conditions map[string]any
	Resources  ResourceLookup
}

// noValue marks the result of Ref AWS::NoValue; enclosing collections drop it.
type noValue struct{}

// Resolve evaluates a property value, replacing every intrinsic expression
// with its concrete value. Composite expressions resolve post-order: the
// children of a Fn::Join resolve before the join itself.
func Resolve(value any, ctx *Context) (any, error) {
	resolved, err := resolve(value, ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := resolved.(noValue); ok {
		return nil, nil
	}
	return resolved, nil
}

func resolve(value any, ctx *Context) (any, error) {
	switch v := value.(type) {
	case map[string]any:
		if len(v) == 1 {
			for name, arg := range v {
				if isIntrinsicKey(name) {
					return apply(name, arg, ctx)
				}
			}
		}
		out := make(map[string]any, len(v))
		for key, item := range v {
			resolved, err := resolve(item, ctx)
			if err != nil {
				return nil, err
			}
			if _, dropped := resolved.(noValue); dropped {
				continue
			}
			out[key] = resolved
		}
		return out, nil
	case []any:
		out := make([]any, 0, len(v))
		for _, item := range v {
			resolved, err := resolve(item, ctx)
			if err != nil {
				return nil, err
			}
			if _, dropped := resolved.(noValue); dropped {
				continue
			}
			out = append(out, resolved)
		}
		return out, nil
	default:
		return v, nil
	}
}

func isIntrinsicKey(name string) bool {
	return name == "Ref" || name == "Condition" || strings.HasPrefix(name, "Fn::")
}

func apply(name string, arg any, ctx *Context) (any, error) {
	switch name {
	case "Ref":
		target, ok := arg.(string)
		if !ok {
			return nil, fmt.Errorf("Ref expects a string, got %T", arg)
		}
		return resolveRef(target, ctx)

	case "Fn::GetAtt":
		ref, ok := getAttReference(arg)
		if !ok {
			return nil, fmt.Errorf("malformed Fn::GetAtt argument %v", arg)
		}
		return resolveGetAtt(ref, ctx)

	case "Fn::Join":
		parts, ok := arg.([]any)
		if !ok || len(parts) != 2 {
			return nil, fmt.Errorf("Fn::Join expects [delimiter, values]")
		}
		delimiter, _ := parts[0].(string)
		values, err := resolve(parts[1], ctx)
		if err != nil {
			return nil, err
		}
		items, ok := values.([]any)
		if !ok {
			return nil, fmt.Errorf("Fn::Join values must be a list")
		}
		joined := make([]string, 0, len(items))
		for _, item := range items {
			joined = append(joined, stringify(item))
		}
		return strings.Join(joined, delimiter), nil

	case "Fn::Sub":
		return resolveSub(arg, ctx)

	case "Fn::If":
		parts, ok := arg.([]any)
		if !ok || len(parts) != 3 {
			return nil, fmt.Errorf("Fn::If expects [condition, then, else]")
		}
		conditionName, _ := parts[0].(string)
		truthy, err := EvaluateCondition(conditionName, ctx)
		if err != nil {
			return nil, err
		}
		if truthy {
			return resolve(parts[1], ctx)
		}
		return resolve(parts[2], ctx)

	case "Fn::Equals":
		parts, ok := arg.([]any)
		if !ok || len(parts) != 2 {
			return nil, fmt.Errorf("Fn::Equals expects two operands")
		}
		left, err := resolve(parts[0], ctx)
		if err != nil {
			return nil, err
		}
		right, err := resolve(parts[1], ctx)
		if err != nil {
			return nil, err
		}
		return stringify(left) == stringify(right), nil

	case "Fn::And", "Fn::Or":
		parts, ok := arg.([]any)
		if !ok || len(parts) == 0 {
			return nil, fmt.Errorf("%s expects a list of conditions", name)
		}
		result := name == "Fn::And"
		for _, part := range parts {
			truthy, err := resolveBool(part, ctx)
			if err != nil {
				return nil, err
			}
			if name == "Fn::And" {
				result = result && truthy
			} else {
				result = result || truthy
			}
		}
		return result, nil

	case "Fn::Not":
		parts, ok := arg.([]any)
		if !ok || len(parts) != 1 {
			return nil, fmt.Errorf("Fn::Not expects one condition")
		}
		truthy, err := resolveBool(parts[0], ctx)
		if err != nil {
			return nil, err
		}
		return !truthy, nil

	case "Condition":
		conditionName, _ := arg.(string)
		return EvaluateCondition(conditionName, ctx)

	case "Fn::Select":
		parts, ok := arg.([]any)
		if !ok || len(parts) != 2 {
			return nil, fmt.Errorf("Fn::Select expects [index, values]")
		}
		index, err := toInt(parts[0])
		if err != nil {
			return nil, err
		}
		values, err := resolve(parts[1], ctx)
		if err != nil {
			return nil, err
		}
		items, ok := values.([]any)
		if !ok || index < 0 || index >= len(items) {
			return nil, fmt.Errorf("Fn::Select index %d out of range", index)
		}
		return items[index], nil

	case "Fn::Split":
		parts, ok := arg.([]any)
		if !ok || len(parts) != 2 {
			return nil, fmt.Errorf("Fn::Split expects [delimiter, value]")
		}
		delimiter, _ := parts[0].(string)
		value, err := resolve(parts[1], ctx)
		if err != nil {
			return nil, err
		}
		pieces := strings.Split(stringify(value), delimiter)
		out := make([]any, len(pieces))
		for i, piece := range pieces {
			out[i] = piece
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unsupported intrinsic function %q", name)
	}
}

func resolveRef(target string, ctx *Context) (any, error) {
	if target == "AWS::NoValue" {
		return noValue{}, nil
	}
	if value, ok := ctx.Pseudo[target]; ok {
		return value, nil
	}
	if value, ok := ctx.Parameters[target]; ok {
		return value, nil
	}
	if ctx.Resources != nil && ctx.Resources.Declared(target) {
		physicalID, ok := ctx.Resources.PhysicalID(target)
		if !ok {
			return nil, &UnresolvedDependencyError{Target: target}
		}
		return physicalID, nil
	}
	return nil, &DanglingReferenceError{Target: target}
}

func resolveGetAtt(ref Reference, ctx *Context) (any, error) {
	if ctx.Resources == nil || !ctx.Resources.Declared(ref.LogicalID) {
		return nil, &DanglingReferenceError{Target: ref.LogicalID}
	}
	value, ok := ctx.Resources.Attribute(ref.LogicalID, ref.Attribute)
	if !ok {
		if _, created := ctx.Resources.PhysicalID(ref.LogicalID); !created {
			return nil, &UnresolvedDependencyError{Target: ref.LogicalID}
		}
		return nil, fmt.Errorf("resource %q has no attribute %q", ref.LogicalID, ref.Attribute)
	}
	return value, nil
}

func resolveSub(arg any, ctx *Context) (any, error) {
	text, _ := arg.(string)
	locals := map[string]any{}
	if parts, ok := arg.([]any); ok && len(parts) == 2 {
		text, _ = parts[0].(string)
		rawLocals, _ := parts[1].(map[string]any)
		for key, item := range rawLocals {
			resolved, err := resolve(item, ctx)
			if err != nil {
				return nil, err
			}
			locals[key] = resolved
		}
	}

	var resolveErr error
	result := subVarPattern.ReplaceAllStringFunc(text, func(match string) string {
		if resolveErr != nil {
			return match
		}
		name := strings.TrimSpace(match[2 : len(match)-1])
		if value, ok := locals[name]; ok {
			return stringify(value)
		}
		var value any
		var err error
		if logicalID, attr, found := strings.Cut(name, "."); found && !isPseudo(name) {
			value, err = resolveGetAtt(Reference{LogicalID: logicalID, Attribute: attr}, ctx)
		} else {
			value, err = resolveRef(name, ctx)
		}
		if err != nil {
			resolveErr = err
			return match
		}
		return stringify(value)
	})
	if resolveErr != nil {
		return nil, resolveErr
	}
	// ${!Literal} escapes to ${Literal}
	return strings.ReplaceAll(result, "${!", "${"), nil
}

func resolveBool(value any, ctx *Context) (bool, error) {
	resolved, err := resolve(value, ctx)
	if err != nil {
		return false, err
	}
	switch v := resolved.(type) {
	case bool:
		return v, nil
	case string:
		return v == "true", nil
	}
	return false, fmt.Errorf("expected a boolean condition, got %T", resolved)
}

// EvaluateCondition evaluates a named entry of the template's Conditions
// section against the context.
func EvaluateCondition(name string, ctx *Context) (bool, error) {
	definition, ok := ctx.Conditions[name]
	if !ok {
		return false, fmt.Errorf("condition %q is not defined", name)
	}
	return resolveBool(definition, ctx)
}

// toInt accepts the numeric and string index forms Fn::Select sees after
// YAML decoding.
func toInt(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	case string:
		return strconv.Atoi(v)
	}
	return 0, fmt.Errorf("expected an integer index, got %T", value)
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
