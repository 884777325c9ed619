/*
Copyright © 2025 Localstack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/gregplaysguitar/localstack/internal/client"
)

func TestCancelCommand_Exists(t *testing.T) {
	cancelCmd := findCommand(rootCmd, "cancel")

	assert.NotNil(t, cancelCmd, "cancel command should be registered")
	assert.NotNil(t, cancelCmd.Args)
}

func TestCancelCommand_CancelsOperation(t *testing.T) {
	ops := &mockStackOperations{}
	ops.On("CancelUpdateStack", mock.Anything, "app").Return(nil)
	withStackOperations(t, ops)

	rootCmd.SetArgs([]string{"cancel", "app"})
	assert.NoError(t, rootCmd.Execute())

	ops.AssertExpectations(t)
}

func TestCancelCommand_PropagatesErrors(t *testing.T) {
	ops := &mockStackOperations{}
	ops.On("CancelUpdateStack", mock.Anything, "ghost").Return(&client.APIError{
		Type:    "User",
		Code:    "ValidationError",
		Message: "stack ghost does not exist",
	})
	withStackOperations(t, ops)

	rootCmd.SetArgs([]string{"cancel", "ghost"})
	err := rootCmd.Execute()
	assert.ErrorContains(t, err, "error cancelling stack ghost")
	assert.ErrorContains(t, err, "does not exist")

	ops.AssertExpectations(t)
}
