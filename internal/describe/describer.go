/*
Copyright © 2025 Localstack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package describe

import (
	"context"
	"fmt"
	"time"

	cfntypes "github.com/aws/aws-sdk-go-v2/service/cloudformation/types"

	"github.com/gregplaysguitar/localstack/internal/client"
)

// StackDescriber implements the Describer interface against the stack API
type StackDescriber struct {
	ops client.StackOperations
}

// NewStackDescriber creates a new describer backed by the provided operations
func NewStackDescriber(ops client.StackOperations) Describer {
	return &StackDescriber{ops: ops}
}

// DescribeStack retrieves comprehensive information about a deployed stack
func (d *StackDescriber) DescribeStack(ctx context.Context, stackName string) (*StackDescription, error) {
	out, err := d.ops.DescribeStacks(ctx, stackName)
	if err != nil {
		return nil, err
	}
	if len(out.Stacks) == 0 {
		return nil, fmt.Errorf("stack %s does not exist", stackName)
	}
	stack := out.Stacks[0]

	description := &StackDescription{
		Name:        dereferenceString(stack.StackName),
		Status:      string(stack.StackStatus),
		StackID:     dereferenceString(stack.StackId),
		CreatedTime: dereferenceTime(stack.CreationTime),
		UpdatedTime: stack.LastUpdatedTime,
		Description: dereferenceString(stack.Description),
		Parameters:  make(map[string]string, len(stack.Parameters)),
		Outputs:     make(map[string]string, len(stack.Outputs)),
	}
	for _, p := range stack.Parameters {
		description.Parameters[dereferenceString(p.ParameterKey)] = dereferenceString(p.ParameterValue)
	}
	for _, o := range stack.Outputs {
		description.Outputs[dereferenceString(o.OutputKey)] = dereferenceString(o.OutputValue)
	}
	return description, nil
}

// DescribeResources retrieves the state of every resource in a stack
func (d *StackDescriber) DescribeResources(ctx context.Context, stackName string) ([]ResourceDescription, error) {
	out, err := d.ops.DescribeStackResources(ctx, stackName)
	if err != nil {
		return nil, err
	}

	resources := make([]ResourceDescription, 0, len(out.StackResources))
	for _, r := range out.StackResources {
		resources = append(resources, ResourceDescription{
			LogicalID:   dereferenceString(r.LogicalResourceId),
			PhysicalID:  dereferenceString(r.PhysicalResourceId),
			Type:        dereferenceString(r.ResourceType),
			Status:      string(r.ResourceStatus),
			Reason:      dereferenceString(r.ResourceStatusReason),
			UpdatedTime: dereferenceTime(r.Timestamp),
		})
	}
	return resources, nil
}

// DescribeEvents retrieves a stack's event history, newest first
func (d *StackDescriber) DescribeEvents(ctx context.Context, stackName string) ([]EventDescription, error) {
	out, err := d.ops.DescribeStackEvents(ctx, stackName)
	if err != nil {
		return nil, err
	}

	events := make([]EventDescription, 0, len(out.StackEvents))
	for _, e := range out.StackEvents {
		events = append(events, eventDescription(e))
	}
	return events, nil
}

func eventDescription(e cfntypes.StackEvent) EventDescription {
	return EventDescription{
		Timestamp:  dereferenceTime(e.Timestamp),
		LogicalID:  dereferenceString(e.LogicalResourceId),
		Type:       dereferenceString(e.ResourceType),
		Status:     string(e.ResourceStatus),
		Reason:     dereferenceString(e.ResourceStatusReason),
		PhysicalID: dereferenceString(e.PhysicalResourceId),
	}
}

// dereferenceString safely dereferences a string pointer
func dereferenceString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// dereferenceTime safely dereferences a time pointer
func dereferenceTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
