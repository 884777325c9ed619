/*
Copyright © 2025 Localstack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gregplaysguitar/localstack/internal/prompt"
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <stack-name>",
	Short: "Delete a stack and its resources",
	Long: `Delete a stack from the emulator.

Resources are removed in reverse dependency order, so nothing is torn down
before the resources that depend on it. Once the deletion completes the stack
disappears from DescribeStacks.

The command prompts for confirmation before deleting. Pass --yes to skip the
prompt, and --wait to block until the deletion finishes.

Examples:
  localstack delete app
  localstack delete app --yes --wait`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stackName := args[0]
		ctx := context.Background()

		skipConfirmation, _ := cmd.Flags().GetBool("yes")
		if !skipConfirmation {
			confirmed, err := prompt.Confirm(fmt.Sprintf("Delete stack %s and all its resources?", stackName))
			if err != nil {
				return err
			}
			if !confirmed {
				fmt.Println("Deletion cancelled")
				return nil
			}
		}

		ops := getStackOperations(cmd)
		if err := ops.DeleteStack(ctx, stackName); err != nil {
			return fmt.Errorf("error deleting stack %s: %w", stackName, err)
		}
		fmt.Printf("Deleting stack %s\n", stackName)

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
		if status != "DELETE_COMPLETE" {
			return fmt.Errorf("stack %s finished in status %s", stackName, status)
		}
		fmt.Printf("Stack %s deleted\n", stackName)
		return nil
	},
}

func init() {
	deleteCmd.Flags().Bool("yes", false, "skip the confirmation prompt")
	deleteCmd.Flags().Bool("wait", false, "wait for the deletion to finish")
	deleteCmd.Flags().Int("wait-retries", 30, "polling attempts when waiting")
	deleteCmd.Flags().Duration("wait-delay", time.Second, "delay between polling attempts")
	rootCmd.AddCommand(deleteCmd)
}
