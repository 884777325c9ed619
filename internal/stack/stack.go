/*
Copyright © 2025 Localstack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package stack

import (
	"sync"
	"time"

	cfntypes "github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/google/uuid"

	"github.com/gregplaysguitar/localstack/internal/graph"
	"github.com/gregplaysguitar/localstack/internal/template"
)

// Resource is one resolved resource owned by a stack.
type Resource struct {
	LogicalID    string
	Type         string
	Properties   map[string]any
	PhysicalID   string
	Attributes   map[string]string
	Status       ResourceStatus
	StatusReason string
	UpdatedAt    time.Time
}

// Event is an immutable record appended as a resource transitions.
type Event struct {
	EventID    string
	StackName  string
	LogicalID  string
	Type       string
	PhysicalID string
	Status     ResourceStatus
	Reason     string
	Timestamp  time.Time
}

// Stack is one live deployment instance. Its resource map is exclusively
// owned by the Manager; all mutation goes through the state-transition
// methods below, under the stack's own lock.
type Stack struct {
	mu sync.Mutex

	Name       string
	ID         string
	Template   *template.Template
	Graph      *graph.Graph
	Parameters map[string]string
	Outputs    map[string]string

	resources map[string]*Resource
	events    []Event

	status       StackStatus
	statusReason string
	createdAt    time.Time
	updatedAt    time.Time

	applying bool
	cancel   func()
}

func newStack(name, stackID string, t *template.Template, g *graph.Graph, parameters map[string]string) *Stack {
	now := time.Now().UTC()
	st := &Stack{
		Name:       name,
		ID:         stackID,
		Template:   t,
		Graph:      g,
		Parameters: parameters,
		Outputs:    make(map[string]string),
		resources:  make(map[string]*Resource, len(t.Resources)),
		status:     cfntypes.StackStatusCreateInProgress,
		createdAt:  now,
		updatedAt:  now,
	}
	for logicalID, spec := range t.Resources {
		st.resources[logicalID] = &Resource{
			LogicalID: logicalID,
			Type:      spec.Type,
			Status:    ResourceStatusPending,
			UpdatedAt: now,
		}
	}
	return st
}

// transition advances a resource's state and appends the matching event, in
// one critical section so readers never observe a resource mid-transition.
func (s *Stack) transition(logicalID string, status ResourceStatus, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transitionLocked(logicalID, status, reason)
}

func (s *Stack) transitionLocked(logicalID string, status ResourceStatus, reason string) {
	resource, ok := s.resources[logicalID]
	if !ok {
		return
	}
	now := time.Now().UTC()
	resource.Status = status
	resource.StatusReason = reason
	resource.UpdatedAt = now
	s.updatedAt = now
	s.events = append(s.events, Event{
		EventID:    uuid.NewString(),
		StackName:  s.Name,
		LogicalID:  logicalID,
		Type:       resource.Type,
		PhysicalID: resource.PhysicalID,
		Status:     status,
		Reason:     reason,
		Timestamp:  now,
	})
}

// recordProvisioned stores a resource's physical identifier and derived
// attributes together with its success transition.
func (s *Stack) recordProvisioned(logicalID, physicalID string, attributes map[string]string, status ResourceStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	resource, ok := s.resources[logicalID]
	if !ok {
		return
	}
	resource.PhysicalID = physicalID
	resource.Attributes = attributes
	s.transitionLocked(logicalID, status, "")
}

// setStatus records a stack-level status with a synthetic stack event, the
// way CloudFormation reports stack transitions alongside resource events.
func (s *Stack) setStatus(status StackStatus, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	s.status = status
	s.statusReason = reason
	s.updatedAt = now
	s.events = append(s.events, Event{
		EventID:    uuid.NewString(),
		StackName:  s.Name,
		LogicalID:  s.Name,
		Type:       "AWS::CloudFormation::Stack",
		PhysicalID: s.ID,
		Status:     ResourceStatus(status),
		Reason:     reason,
		Timestamp:  now,
	})
}

// Status returns the stack's current aggregate status.
func (s *Stack) Status() StackStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Stack) resource(logicalID string) (Resource, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	resource, ok := s.resources[logicalID]
	if !ok {
		return Resource{}, false
	}
	return *resource, true
}

// beginApply marks the stack busy, rejecting overlapping applies.
func (s *Stack) beginApply() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.applying {
		return &ConcurrentApplyError{Name: s.Name}
	}
	s.applying = true
	return nil
}

func (s *Stack) endApply() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applying = false
	s.cancel = nil
}

// setCancel wires the in-flight apply's cancellation onto the stack.
func (s *Stack) setCancel(cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancel = cancel
}

// cancelApply requests cancellation of the in-flight apply, if any.
func (s *Stack) cancelApply() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// lookup adapts the stack to intrinsic.ResourceLookup, exposing only
// resources that have reached terminal success.
type lookup struct {
	stack *Stack
}

func (l lookup) Declared(logicalID string) bool {
	_, ok := l.stack.Template.Resources[logicalID]
	return ok
}

func (l lookup) PhysicalID(logicalID string) (string, bool) {
	resource, ok := l.stack.resource(logicalID)
	if !ok || !resource.Status.Success() || resource.PhysicalID == "" {
		return "", false
	}
	return resource.PhysicalID, true
}

func (l lookup) Attribute(logicalID, attribute string) (string, bool) {
	resource, ok := l.stack.resource(logicalID)
	if !ok || !resource.Status.Success() {
		return "", false
	}
	value, ok := resource.Attributes[attribute]
	return value, ok
}
