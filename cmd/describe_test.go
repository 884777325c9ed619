/*
Copyright © 2025 Localstack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/gregplaysguitar/localstack/internal/describe"
)

// mockDescriber is a mock implementation of the describe.Describer interface
type mockDescriber struct {
	mock.Mock
}

func (m *mockDescriber) DescribeStack(ctx context.Context, stackName string) (*describe.StackDescription, error) {
	args := m.Called(ctx, stackName)
	if out := args.Get(0); out != nil {
		return out.(*describe.StackDescription), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDescriber) DescribeResources(ctx context.Context, stackName string) ([]describe.ResourceDescription, error) {
	args := m.Called(ctx, stackName)
	if out := args.Get(0); out != nil {
		return out.([]describe.ResourceDescription), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDescriber) DescribeEvents(ctx context.Context, stackName string) ([]describe.EventDescription, error) {
	args := m.Called(ctx, stackName)
	if out := args.Get(0); out != nil {
		return out.([]describe.EventDescription), args.Error(1)
	}
	return nil, args.Error(1)
}

func withDescriber(t *testing.T, d describe.Describer) {
	t.Helper()
	old := describer
	SetDescriber(d)
	t.Cleanup(func() { SetDescriber(old) })
}

func TestDescribeCommand_Exists(t *testing.T) {
	describeCmd := findCommand(rootCmd, "describe")

	assert.NotNil(t, describeCmd, "describe command should be registered")
	assert.NotNil(t, describeCmd.Args)
	assert.NotNil(t, describeCmd.Flags().Lookup("resources"))
}

func TestDescribeCommand_ShowsStackSummary(t *testing.T) {
	d := &mockDescriber{}
	d.On("DescribeStack", mock.Anything, "app").Return(&describe.StackDescription{
		Name:   "app",
		Status: "CREATE_COMPLETE",
	}, nil)
	withDescriber(t, d)

	rootCmd.SetArgs([]string{"describe", "app"})
	assert.NoError(t, rootCmd.Execute())

	d.AssertExpectations(t)
	d.AssertNotCalled(t, "DescribeResources", mock.Anything, mock.Anything)
}

func TestDescribeCommand_ResourcesFlagAddsListing(t *testing.T) {
	resetFlagsAfter(t, findCommand(rootCmd, "describe"), "resources")

	d := &mockDescriber{}
	d.On("DescribeStack", mock.Anything, "app").Return(&describe.StackDescription{
		Name:   "app",
		Status: "CREATE_COMPLETE",
	}, nil)
	d.On("DescribeResources", mock.Anything, "app").Return([]describe.ResourceDescription{
		{LogicalID: "Queue", Type: "AWS::SQS::Queue", Status: "CREATE_COMPLETE"},
	}, nil)
	withDescriber(t, d)

	rootCmd.SetArgs([]string{"describe", "app", "--resources"})
	assert.NoError(t, rootCmd.Execute())

	d.AssertExpectations(t)
}

func TestDescribeCommand_PropagatesErrors(t *testing.T) {
	d := &mockDescriber{}
	d.On("DescribeStack", mock.Anything, "ghost").Return(nil, errors.New("stack ghost does not exist"))
	withDescriber(t, d)

	rootCmd.SetArgs([]string{"describe", "ghost"})
	err := rootCmd.Execute()
	assert.ErrorContains(t, err, "failed to describe stack ghost")

	d.AssertExpectations(t)
}
