/*
Copyright © 2025 Localstack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/gregplaysguitar/localstack/internal/describe"
)

func TestEventsCommand_Exists(t *testing.T) {
	eventsCmd := findCommand(rootCmd, "events")

	assert.NotNil(t, eventsCmd, "events command should be registered")
	assert.NotNil(t, eventsCmd.Args)
}

func TestEventsCommand_ShowsEventHistory(t *testing.T) {
	d := &mockDescriber{}
	d.On("DescribeEvents", mock.Anything, "app").Return([]describe.EventDescription{
		{
			Timestamp: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
			LogicalID: "app",
			Type:      "AWS::CloudFormation::Stack",
			Status:    "CREATE_COMPLETE",
		},
	}, nil)
	withDescriber(t, d)

	rootCmd.SetArgs([]string{"events", "app"})
	assert.NoError(t, rootCmd.Execute())

	d.AssertExpectations(t)
}

func TestEventsCommand_PropagatesErrors(t *testing.T) {
	d := &mockDescriber{}
	d.On("DescribeEvents", mock.Anything, "ghost").Return(nil, errors.New("stack ghost does not exist"))
	withDescriber(t, d)

	rootCmd.SetArgs([]string{"events", "ghost"})
	assert.ErrorContains(t, rootCmd.Execute(), "failed to describe events of stack ghost")

	d.AssertExpectations(t)
}
