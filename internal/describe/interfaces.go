/*
Copyright © 2025 Localstack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package describe

import (
	"context"
	"time"
)

// Describer defines the interface for retrieving detailed stack information
type Describer interface {
	DescribeStack(ctx context.Context, stackName string) (*StackDescription, error)
	DescribeResources(ctx context.Context, stackName string) ([]ResourceDescription, error)
	DescribeEvents(ctx context.Context, stackName string) ([]EventDescription, error)
}

// StackDescription contains comprehensive information about a deployed stack
type StackDescription struct {
	// Basic stack information
	Name        string
	Status      string
	StackID     string
	CreatedTime time.Time
	UpdatedTime *time.Time
	Description string

	// Stack configuration
	Parameters map[string]string
	Outputs    map[string]string
}

// ResourceDescription contains the state of a single stack resource
type ResourceDescription struct {
	LogicalID   string
	PhysicalID  string
	Type        string
	Status      string
	Reason      string
	UpdatedTime time.Time
}

// EventDescription is a single entry from a stack's event history
type EventDescription struct {
	Timestamp  time.Time
	LogicalID  string
	Type       string
	Status     string
	Reason     string
	PhysicalID string
}
