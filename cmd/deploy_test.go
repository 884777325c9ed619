/*
Copyright © 2025 Localstack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gregplaysguitar/localstack/internal/client"
)

func writeTemplateFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "template.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// resetFlagsAfter clears flag state a test sets, so values do not leak into
// later executions of the shared command tree
func resetFlagsAfter(t *testing.T, cmd *cobra.Command, names ...string) {
	t.Helper()
	t.Cleanup(func() {
		for _, name := range names {
			flag := cmd.Flags().Lookup(name)
			if flag == nil {
				continue
			}
			if slice, ok := flag.Value.(pflag.SliceValue); ok {
				_ = slice.Replace(nil)
				continue
			}
			_ = flag.Value.Set(flag.DefValue)
		}
	})
}

func TestDeployCommand_Exists(t *testing.T) {
	deployCmd := findCommand(rootCmd, "deploy")

	assert.NotNil(t, deployCmd, "deploy command should be registered")
	assert.NotNil(t, deployCmd.Args, "deploy command should have Args validation set")
	assert.NotNil(t, deployCmd.Flags().Lookup("parameter"))
	assert.NotNil(t, deployCmd.Flags().Lookup("wait"))
}

func TestDeployCommand_RequiresStackNameAndTemplate(t *testing.T) {
	ops := &mockStackOperations{}
	withStackOperations(t, ops)

	rootCmd.SetArgs([]string{"deploy", "only-a-stack-name"})
	assert.Error(t, rootCmd.Execute(), "should error without a template file")

	ops.AssertExpectations(t)
}

func TestDeployCommand_CreatesNewStack(t *testing.T) {
	template := writeTemplateFile(t, "Resources:\n  Queue:\n    Type: AWS::SQS::Queue\n")
	resetFlagsAfter(t, findCommand(rootCmd, "deploy"), "parameter")

	ops := &mockStackOperations{}
	ops.On("CreateStack", mock.Anything, "app",
		"Resources:\n  Queue:\n    Type: AWS::SQS::Queue\n",
		map[string]string{"QueueName": "jobs"}).Return("stack-id", nil)
	withStackOperations(t, ops)

	rootCmd.SetArgs([]string{"deploy", "app", template, "--parameter", "QueueName=jobs"})
	assert.NoError(t, rootCmd.Execute())

	ops.AssertExpectations(t)
}

func TestDeployCommand_RendersTemplateVariables(t *testing.T) {
	template := writeTemplateFile(t, "Resources:\n  Queue:\n    Type: AWS::SQS::Queue\n    Properties:\n      QueueName: jobs-{{ .env }}\n")
	resetFlagsAfter(t, findCommand(rootCmd, "deploy"), "var")

	ops := &mockStackOperations{}
	ops.On("CreateStack", mock.Anything, "app",
		"Resources:\n  Queue:\n    Type: AWS::SQS::Queue\n    Properties:\n      QueueName: jobs-dev\n",
		map[string]string{}).Return("stack-id", nil)
	withStackOperations(t, ops)

	rootCmd.SetArgs([]string{"deploy", "app", template, "--var", "env=dev"})
	assert.NoError(t, rootCmd.Execute())

	ops.AssertExpectations(t)
}

func TestDeployCommand_FallsBackToUpdate(t *testing.T) {
	template := writeTemplateFile(t, "Resources:\n  Queue:\n    Type: AWS::SQS::Queue\n")

	ops := &mockStackOperations{}
	ops.On("CreateStack", mock.Anything, "app", mock.Anything, mock.Anything).
		Return("", &client.APIError{
			Type:    "User",
			Code:    "AlreadyExistsException",
			Message: "stack app already exists",
			Status:  http.StatusBadRequest,
		})
	ops.On("UpdateStack", mock.Anything, "app", mock.Anything, mock.Anything).Return(nil)
	withStackOperations(t, ops)

	rootCmd.SetArgs([]string{"deploy", "app", template})
	assert.NoError(t, rootCmd.Execute())

	ops.AssertExpectations(t)
}

func TestDeployCommand_PropagatesCreateError(t *testing.T) {
	template := writeTemplateFile(t, "Resources:\n  Queue:\n    Type: AWS::SQS::Queue\n")

	ops := &mockStackOperations{}
	ops.On("CreateStack", mock.Anything, "app", mock.Anything, mock.Anything).
		Return("", errors.New("connection refused"))
	withStackOperations(t, ops)

	rootCmd.SetArgs([]string{"deploy", "app", template})
	err := rootCmd.Execute()
	assert.ErrorContains(t, err, "error creating stack app")
	assert.ErrorContains(t, err, "connection refused")

	ops.AssertExpectations(t)
}

func TestDeployCommand_RejectsMalformedParameter(t *testing.T) {
	template := writeTemplateFile(t, "Resources:\n  Queue:\n    Type: AWS::SQS::Queue\n")
	resetFlagsAfter(t, findCommand(rootCmd, "deploy"), "parameter")

	ops := &mockStackOperations{}
	withStackOperations(t, ops)

	rootCmd.SetArgs([]string{"deploy", "app", template, "--parameter", "missing-separator"})
	assert.ErrorContains(t, rootCmd.Execute(), "expected key=value")

	ops.AssertExpectations(t)
}

func TestDeployCommand_WaitFailsOnBadTerminalStatus(t *testing.T) {
	template := writeTemplateFile(t, "Resources:\n  Queue:\n    Type: AWS::SQS::Queue\n")
	resetFlagsAfter(t, findCommand(rootCmd, "deploy"), "wait")

	ops := &mockStackOperations{}
	ops.On("CreateStack", mock.Anything, "app", mock.Anything, mock.Anything).Return("stack-id", nil)
	ops.On("WaitForStack", mock.Anything, "app", mock.Anything, mock.Anything).
		Return("CREATE_FAILED", nil)
	withStackOperations(t, ops)

	rootCmd.SetArgs([]string{"deploy", "app", template, "--wait"})
	assert.ErrorContains(t, rootCmd.Execute(), "CREATE_FAILED")

	ops.AssertExpectations(t)
}
