/*
Copyright © 2025 Localstack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package provision dispatches per-resource create/update/delete operations
// to the backing service emulators. It owns the mapping from resource type
// strings to handlers and normalises service failures, but makes no
// graph-level decisions.
package provision

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// UnsupportedResourceTypeError indicates a resource type with no registered
// handler. It is fatal to the resource, not to the stack.
type UnsupportedResourceTypeError struct {
	Type string
}

func (e *UnsupportedResourceTypeError) Error() string {
	return fmt.Sprintf("unsupported resource type %q", e.Type)
}

// OperationError wraps a backing service failure for a single resource.
type OperationError struct {
	ResourceType string
	Message      string
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s operation failed: %s", e.ResourceType, e.Message)
}

// Request carries one resource's resolved inputs to its handler.
type Request struct {
	StackName  string
	LogicalID  string
	Type       string
	Properties map[string]any

	// PhysicalID is the previously assigned identifier; set for update and
	// delete, empty for create.
	PhysicalID string
}

// Result is the outcome of a successful create or update.
type Result struct {
	PhysicalID string
	Attributes map[string]string
}

// Handler knows how to map one resource type's resolved properties onto its
// backing service and how to extract a physical identifier and derived
// attributes from the response.
type Handler interface {
	Create(ctx context.Context, req Request) (Result, error)
	Update(ctx context.Context, req Request) (Result, error)
	Delete(ctx context.Context, req Request) error
}

// Registry is a resource-type-keyed table of handlers. Adding a resource
// type means registering a handler, not patching a dispatch chain.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register binds a handler to a resource type string.
func (r *Registry) Register(resourceType string, handler Handler) {
	r.handlers[resourceType] = handler
}

// Supports reports whether a handler is registered for the type.
func (r *Registry) Supports(resourceType string) bool {
	_, ok := r.handlers[resourceType]
	return ok
}

// Create provisions a resource and returns its physical identifier and
// derived attributes.
func (r *Registry) Create(ctx context.Context, req Request) (Result, error) {
	handler, err := r.handler(req.Type)
	if err != nil {
		return Result{}, err
	}
	result, err := handler.Create(ctx, req)
	if err != nil {
		return Result{}, normalise(req.Type, err)
	}
	return result, nil
}

// Update applies a resource's new resolved properties against its existing
// physical identifier.
func (r *Registry) Update(ctx context.Context, req Request) (Result, error) {
	handler, err := r.handler(req.Type)
	if err != nil {
		return Result{}, err
	}
	result, err := handler.Update(ctx, req)
	if err != nil {
		return Result{}, normalise(req.Type, err)
	}
	return result, nil
}

// Delete removes a resource by physical identifier.
func (r *Registry) Delete(ctx context.Context, req Request) error {
	handler, err := r.handler(req.Type)
	if err != nil {
		return err
	}
	if err := handler.Delete(ctx, req); err != nil {
		return normalise(req.Type, err)
	}
	return nil
}

func (r *Registry) handler(resourceType string) (Handler, error) {
	handler, ok := r.handlers[resourceType]
	if !ok {
		return nil, &UnsupportedResourceTypeError{Type: resourceType}
	}
	return handler, nil
}

func normalise(resourceType string, err error) error {
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return opErr
	}
	return &OperationError{ResourceType: resourceType, Message: err.Error()}
}

// physicalName generates a resource name when the template does not supply
// one, in the stackname-logicalid-suffix shape CloudFormation uses.
func physicalName(stackName, logicalID string) string {
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("%s-%s-%s", stackName, logicalID, suffix)
}

func stringProp(properties map[string]any, key string) string {
	value, _ := properties[key].(string)
	return value
}

func intProp(properties map[string]any, key string) int {
	switch v := properties[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}
