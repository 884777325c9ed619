/*
Copyright © 2025 Localstack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/gregplaysguitar/localstack/internal/prompt"
)

func withPrompter(t *testing.T, p prompt.Prompter) {
	t.Helper()
	old := prompt.GetDefaultPrompter()
	prompt.SetPrompter(p)
	t.Cleanup(func() { prompt.SetPrompter(old) })
}

func TestDeleteCommand_Exists(t *testing.T) {
	deleteCmd := findCommand(rootCmd, "delete")

	assert.NotNil(t, deleteCmd, "delete command should be registered")
	assert.NotNil(t, deleteCmd.Args)
	assert.NotNil(t, deleteCmd.Flags().Lookup("yes"))
	assert.NotNil(t, deleteCmd.Flags().Lookup("wait"))
}

func TestDeleteCommand_PromptsBeforeDeleting(t *testing.T) {
	prompter := &prompt.MockPrompter{}
	prompter.On("Confirm", "Delete stack app and all its resources?").Return(true, nil)
	withPrompter(t, prompter)

	ops := &mockStackOperations{}
	ops.On("DeleteStack", mock.Anything, "app").Return(nil)
	withStackOperations(t, ops)

	rootCmd.SetArgs([]string{"delete", "app"})
	assert.NoError(t, rootCmd.Execute())

	prompter.AssertExpectations(t)
	ops.AssertExpectations(t)
}

func TestDeleteCommand_DeclinedPromptLeavesStackAlone(t *testing.T) {
	prompter := &prompt.MockPrompter{}
	prompter.On("Confirm", mock.Anything).Return(false, nil)
	withPrompter(t, prompter)

	ops := &mockStackOperations{}
	withStackOperations(t, ops)

	rootCmd.SetArgs([]string{"delete", "app"})
	assert.NoError(t, rootCmd.Execute())

	ops.AssertExpectations(t)
}

func TestDeleteCommand_YesSkipsPrompt(t *testing.T) {
	resetFlagsAfter(t, findCommand(rootCmd, "delete"), "yes")

	prompter := &prompt.MockPrompter{}
	withPrompter(t, prompter)

	ops := &mockStackOperations{}
	ops.On("DeleteStack", mock.Anything, "app").Return(nil)
	withStackOperations(t, ops)

	rootCmd.SetArgs([]string{"delete", "app", "--yes"})
	assert.NoError(t, rootCmd.Execute())

	prompter.AssertExpectations(t)
	ops.AssertExpectations(t)
}

func TestDeleteCommand_WaitsForDeletion(t *testing.T) {
	resetFlagsAfter(t, findCommand(rootCmd, "delete"), "yes", "wait")

	ops := &mockStackOperations{}
	ops.On("DeleteStack", mock.Anything, "app").Return(nil)
	ops.On("WaitForStack", mock.Anything, "app", mock.Anything, mock.Anything).
		Return("DELETE_COMPLETE", nil)
	withStackOperations(t, ops)

	rootCmd.SetArgs([]string{"delete", "app", "--yes", "--wait"})
	assert.NoError(t, rootCmd.Execute())

	ops.AssertExpectations(t)
}

func TestDeleteCommand_PropagatesDeleteError(t *testing.T) {
	resetFlagsAfter(t, findCommand(rootCmd, "delete"), "yes")

	ops := &mockStackOperations{}
	ops.On("DeleteStack", mock.Anything, "app").Return(errors.New("engine unavailable"))
	withStackOperations(t, ops)

	rootCmd.SetArgs([]string{"delete", "app", "--yes"})
	err := rootCmd.Execute()
	assert.ErrorContains(t, err, "error deleting stack app")
	assert.ErrorContains(t, err, "engine unavailable")

	ops.AssertExpectations(t)
}
