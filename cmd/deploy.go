/*
Copyright © 2025 Localstack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gregplaysguitar/localstack/internal/client"
)

// deployCmd represents the deploy command
var deployCmd = &cobra.Command{
	Use:   "deploy <stack-name> <template-file>",
	Short: "Create or update a stack from a template file",
	Long: `Deploy a CloudFormation template to the emulator.

If the stack does not exist it is created; if it already exists it is updated
with the new template. Resources are provisioned in dependency order against
the emulated services.

Template files may be JSON or YAML and may use Go template syntax with Sprig
functions; values passed with --var are available during rendering. Stack
parameters are passed with --parameter.

The command returns as soon as the operation is accepted. Pass --wait to
block until the stack reaches a terminal status.

Examples:
  localstack deploy app template.yaml
  localstack deploy app template.yaml --parameter QueueName=jobs --wait
  localstack deploy app template.yaml.tmpl --var env=dev`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		stackName := args[0]
		templateFile := args[1]
		ctx := context.Background()

		variablePairs, _ := cmd.Flags().GetStringArray("var")
		variables, err := parseKeyValuePairs(variablePairs, "var")
		if err != nil {
			return err
		}
		renderVars := make(map[string]interface{}, len(variables))
		for key, value := range variables {
			renderVars[key] = value
		}

		parameterPairs, _ := cmd.Flags().GetStringArray("parameter")
		parameters, err := parseKeyValuePairs(parameterPairs, "parameter")
		if err != nil {
			return err
		}

		templateBody, err := readTemplate(templateFile, renderVars)
		if err != nil {
			return err
		}

		ops := getStackOperations(cmd)
		created, err := deployStack(ctx, ops, stackName, templateBody, parameters)
		if err != nil {
			return err
		}
		if created {
			fmt.Printf("Creating stack %s\n", stackName)
		} else {
			fmt.Printf("Updating stack %s\n", stackName)
		}

		wait, _ := cmd.Flags().GetBool("wait")
		if !wait {
			return nil
		}

		retries, _ := cmd.Flags().GetInt("wait-retries")
		delay, _ := cmd.Flags().GetDuration("wait-delay")
		status, err := ops.WaitForStack(ctx, stackName, retries, delay)
		if err != nil {
			return err
		}
		fmt.Printf("Stack %s reached %s\n", stackName, status)
		if status != "CREATE_COMPLETE" && status != "UPDATE_COMPLETE" {
			return fmt.Errorf("stack %s finished in status %s", stackName, status)
		}
		return nil
	},
}

// deployStack creates the stack, or updates it when it already exists.
// Returns true when a new stack was created.
func deployStack(ctx context.Context, ops client.StackOperations, stackName, templateBody string, parameters map[string]string) (bool, error) {
	_, err := ops.CreateStack(ctx, stackName, templateBody, parameters)
	if err == nil {
		return true, nil
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Code == "AlreadyExistsException" {
		if err := ops.UpdateStack(ctx, stackName, templateBody, parameters); err != nil {
			return false, fmt.Errorf("error updating stack %s: %w", stackName, err)
		}
		return false, nil
	}
	return false, fmt.Errorf("error creating stack %s: %w", stackName, err)
}

func init() {
	deployCmd.Flags().StringArray("parameter", nil, "stack parameter as key=value (repeatable)")
	deployCmd.Flags().StringArray("var", nil, "template rendering variable as key=value (repeatable)")
	deployCmd.Flags().Bool("wait", false, "wait for the stack to reach a terminal status")
	deployCmd.Flags().Int("wait-retries", 30, "polling attempts when waiting")
	deployCmd.Flags().Duration("wait-delay", time.Second, "delay between polling attempts")
	rootCmd.AddCommand(deployCmd)
}
