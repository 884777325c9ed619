/*
Copyright © 2025 Localstack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package api exposes the stack command surface over Go and HTTP, shaping
// results into the CloudFormation SDK types and failures into the JSON
// error envelope.
package api

import (
	"context"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	cfntypes "github.com/aws/aws-sdk-go-v2/service/cloudformation/types"

	"github.com/gregplaysguitar/localstack/internal/stack"
)

// API is the query/command surface over a stack Manager.
type API struct {
	manager *stack.Manager
}

// New wraps a Manager.
func New(manager *stack.Manager) *API {
	return &API{manager: manager}
}

// CreateStackOutput mirrors the CloudFormation response shape.
type CreateStackOutput struct {
	StackId string
}

// ValidateTemplateOutput mirrors the CloudFormation response shape.
type ValidateTemplateOutput struct {
	Description  string
	Parameters   []cfntypes.TemplateParameter
	Capabilities []cfntypes.Capability
}

// DescribeStacksOutput mirrors the CloudFormation response shape.
type DescribeStacksOutput struct {
	Stacks []cfntypes.Stack
}

// DescribeStackResourcesOutput mirrors the CloudFormation response shape.
type DescribeStackResourcesOutput struct {
	StackResources []cfntypes.StackResource
}

// ListStackResourcesOutput mirrors the CloudFormation response shape.
type ListStackResourcesOutput struct {
	StackResourceSummaries []cfntypes.StackResourceSummary
	NextToken              string `json:",omitempty"`
}

// DescribeStackEventsOutput mirrors the CloudFormation response shape.
type DescribeStackEventsOutput struct {
	StackEvents []cfntypes.StackEvent
}

// CreateStack registers a new stack and dispatches its apply.
func (a *API) CreateStack(ctx context.Context, name, templateBody string, parameters map[string]string) (*CreateStackOutput, error) {
	stackID, err := a.manager.CreateStack(ctx, name, templateBody, parameters)
	if err != nil {
		return nil, err
	}
	return &CreateStackOutput{StackId: stackID}, nil
}

// UpdateStack re-applies a template to an existing stack.
func (a *API) UpdateStack(ctx context.Context, name, templateBody string, parameters map[string]string) error {
	return a.manager.UpdateStack(ctx, name, templateBody, parameters)
}

// DeleteStack removes a stack; absent stacks are a successful no-op.
func (a *API) DeleteStack(ctx context.Context, name string) error {
	return a.manager.DeleteStack(ctx, name)
}

// CancelUpdateStack cancels a stack's in-flight operation.
func (a *API) CancelUpdateStack(ctx context.Context, name string) error {
	return a.manager.CancelStackOperation(name)
}

// ValidateTemplate checks a template body without provisioning anything.
func (a *API) ValidateTemplate(ctx context.Context, templateBody string) (*ValidateTemplateOutput, error) {
	result, err := a.manager.ValidateTemplate(templateBody)
	if err != nil {
		return nil, err
	}
	parameters := make([]cfntypes.TemplateParameter, 0, len(result.Parameters))
	for _, declaration := range result.Parameters {
		parameter := cfntypes.TemplateParameter{
			ParameterKey: aws.String(declaration.ParameterKey),
		}
		if declaration.DefaultValue != "" {
			parameter.DefaultValue = aws.String(declaration.DefaultValue)
		}
		if declaration.Description != "" {
			parameter.Description = aws.String(declaration.Description)
		}
		parameters = append(parameters, parameter)
	}
	capabilities := make([]cfntypes.Capability, 0, len(result.Capabilities))
	for _, capability := range result.Capabilities {
		capabilities = append(capabilities, cfntypes.Capability(capability))
	}
	return &ValidateTemplateOutput{
		Description:  result.Description,
		Parameters:   parameters,
		Capabilities: capabilities,
	}, nil
}

// DescribeStacks returns one entry per live stack, or the named one.
func (a *API) DescribeStacks(ctx context.Context, name string) (*DescribeStacksOutput, error) {
	summaries, err := a.manager.DescribeStacks(name)
	if err != nil {
		return nil, err
	}
	stacks := make([]cfntypes.Stack, 0, len(summaries))
	for _, summary := range summaries {
		stacks = append(stacks, convertStack(summary))
	}
	return &DescribeStacksOutput{Stacks: stacks}, nil
}

// DescribeStackResources returns one entry per resource of a stack.
func (a *API) DescribeStackResources(ctx context.Context, name string) (*DescribeStackResourcesOutput, error) {
	summaries, err := a.manager.DescribeStackResources(name)
	if err != nil {
		return nil, err
	}
	resources := make([]cfntypes.StackResource, 0, len(summaries))
	for _, summary := range summaries {
		resources = append(resources, cfntypes.StackResource{
			StackName:            aws.String(name),
			LogicalResourceId:    aws.String(summary.LogicalID),
			PhysicalResourceId:   optionalString(summary.PhysicalID),
			ResourceType:         aws.String(summary.Type),
			ResourceStatus:       cfntypes.ResourceStatus(summary.Status),
			ResourceStatusReason: optionalString(summary.StatusReason),
			Timestamp:            aws.Time(summary.UpdatedAt),
		})
	}
	return &DescribeStackResourcesOutput{StackResources: resources}, nil
}

// ListStackResources is the paginated form of DescribeStackResources.
func (a *API) ListStackResources(ctx context.Context, name, nextToken string) (*ListStackResourcesOutput, error) {
	summaries, token, err := a.manager.ListStackResources(name, nextToken)
	if err != nil {
		return nil, err
	}
	resources := make([]cfntypes.StackResourceSummary, 0, len(summaries))
	for _, summary := range summaries {
		resources = append(resources, cfntypes.StackResourceSummary{
			LogicalResourceId:    aws.String(summary.LogicalID),
			PhysicalResourceId:   optionalString(summary.PhysicalID),
			ResourceType:         aws.String(summary.Type),
			ResourceStatus:       cfntypes.ResourceStatus(summary.Status),
			ResourceStatusReason: optionalString(summary.StatusReason),
			LastUpdatedTimestamp: aws.Time(summary.UpdatedAt),
		})
	}
	return &ListStackResourcesOutput{StackResourceSummaries: resources, NextToken: token}, nil
}

// DescribeStackEvents returns a stack's events, newest first.
func (a *API) DescribeStackEvents(ctx context.Context, name string) (*DescribeStackEventsOutput, error) {
	events, err := a.manager.DescribeStackEvents(name)
	if err != nil {
		return nil, err
	}
	out := make([]cfntypes.StackEvent, 0, len(events))
	for _, event := range events {
		out = append(out, cfntypes.StackEvent{
			EventId:              aws.String(event.EventID),
			StackName:            aws.String(event.StackName),
			LogicalResourceId:    aws.String(event.LogicalID),
			PhysicalResourceId:   optionalString(event.PhysicalID),
			ResourceType:         aws.String(event.Type),
			ResourceStatus:       cfntypes.ResourceStatus(event.Status),
			ResourceStatusReason: optionalString(event.Reason),
			Timestamp:            aws.Time(event.Timestamp),
		})
	}
	return &DescribeStackEventsOutput{StackEvents: out}, nil
}

func convertStack(summary stack.StackSummary) cfntypes.Stack {
	out := cfntypes.Stack{
		StackName:         aws.String(summary.Name),
		StackId:           aws.String(summary.StackID),
		StackStatus:       summary.Status,
		StackStatusReason: optionalString(summary.StatusReason),
		CreationTime:      aws.Time(summary.CreatedAt),
		LastUpdatedTime:   aws.Time(summary.UpdatedAt),
		Description:       optionalString(summary.Description),
	}
	for _, key := range sortedKeys(summary.Parameters) {
		out.Parameters = append(out.Parameters, cfntypes.Parameter{
			ParameterKey:   aws.String(key),
			ParameterValue: aws.String(summary.Parameters[key]),
		})
	}
	for _, key := range sortedKeys(summary.Outputs) {
		out.Outputs = append(out.Outputs, cfntypes.Output{
			OutputKey:   aws.String(key),
			OutputValue: aws.String(summary.Outputs[key]),
		})
	}
	return out
}

func sortedKeys(values map[string]string) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return aws.String(value)
}
