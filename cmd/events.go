/*
Copyright © 2025 Localstack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gregplaysguitar/localstack/internal/describe"
)

// eventsCmd represents the events command
var eventsCmd = &cobra.Command{
	Use:   "events <stack-name>",
	Short: "Display a stack's event history",
	Long: `Display the event history of a stack, newest first.

Every status transition during stack operations is recorded as an event:
resource provisioning starting and finishing, failures with their reasons,
and the stack-level transitions themselves.

Examples:
  localstack events app`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stackName := args[0]
		ctx := context.Background()

		d := getDescriber(cmd)
		events, err := d.DescribeEvents(ctx, stackName)
		if err != nil {
			return fmt.Errorf("failed to describe events of stack %s: %w", stackName, err)
		}

		fmt.Print(describe.FormatEvents(events, getStyles(cmd)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
}
