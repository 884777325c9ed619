/*
Copyright © 2025 Localstack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// cancelCmd represents the cancel command
var cancelCmd = &cobra.Command{
	Use:   "cancel <stack-name>",
	Short: "Cancel a stack's in-flight operation",
	Long: `Cancel the operation currently running against a stack.

Resources that have not started provisioning are marked failed with a
cancellation reason; resources already in progress run to completion. The
stack settles in a failed status once everything in flight has finished.

Cancelling a stack with no operation in progress has no effect.

Examples:
  localstack cancel app`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stackName := args[0]
		ctx := context.Background()

		ops := getStackOperations(cmd)
		if err := ops.CancelUpdateStack(ctx, stackName); err != nil {
			return fmt.Errorf("error cancelling stack %s: %w", stackName, err)
		}
		fmt.Printf("Cancelling operation on stack %s\n", stackName)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cancelCmd)
}
