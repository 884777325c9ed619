/*
Copyright © 2025 Localstack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package stack

import (
	"time"
)

// StackSummary is a point-in-time snapshot of a stack for describe/list
// queries.
type StackSummary struct {
	Name         string
	StackID      string
	Status       StackStatus
	StatusReason string
	Description  string
	Parameters   map[string]string
	Outputs      map[string]string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ResourceSummary is a point-in-time snapshot of one resource.
type ResourceSummary struct {
	LogicalID    string
	PhysicalID   string
	Type         string
	Status       ResourceStatus
	StatusReason string
	UpdatedAt    time.Time
}

// summary snapshots the stack under its lock so a reader never sees a
// resource mid-transition.
func (s *Stack) summary() StackSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	parameters := make(map[string]string, len(s.Parameters))
	for key, value := range s.Parameters {
		parameters[key] = value
	}
	outputs := make(map[string]string, len(s.Outputs))
	for key, value := range s.Outputs {
		outputs[key] = value
	}
	return StackSummary{
		Name:         s.Name,
		StackID:      s.ID,
		Status:       s.status,
		StatusReason: s.statusReason,
		Description:  s.Template.Description,
		Parameters:   parameters,
		Outputs:      outputs,
		CreatedAt:    s.createdAt,
		UpdatedAt:    s.updatedAt,
	}
}

// resourceSummaries snapshots every resource, in template declaration order.
func (s *Stack) resourceSummaries() []ResourceSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	summaries := make([]ResourceSummary, 0, len(s.resources))
	for _, logicalID := range s.Template.ResourceOrder {
		resource, ok := s.resources[logicalID]
		if !ok {
			continue
		}
		summaries = append(summaries, ResourceSummary{
			LogicalID:    resource.LogicalID,
			PhysicalID:   resource.PhysicalID,
			Type:         resource.Type,
			Status:       resource.Status,
			StatusReason: resource.StatusReason,
			UpdatedAt:    resource.UpdatedAt,
		})
	}
	return summaries
}

// eventsSnapshot returns the stack's events newest first.
func (s *Stack) eventsSnapshot() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	events := make([]Event, len(s.events))
	for i, event := range s.events {
		events[len(s.events)-1-i] = event
	}
	return events
}
