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

var (
	// describer can be injected for testing
	describer describe.Describer
)

// describeCmd represents the describe command
var describeCmd = &cobra.Command{
	Use:   "describe <stack-name>",
	Short: "Display detailed information about a stack",
	Long: `Display comprehensive information about a deployed stack.

This command shows detailed information about a stack including:

• Stack status and metadata (creation time, last update, etc.)
• Stack parameters and their current values
• Stack outputs (if any)

Pass --resources to also list every resource with its type, status and
physical identifier.

Examples:
  localstack describe app               # Show stack summary
  localstack describe app --resources   # Include the resource listing`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stackName := args[0]
		ctx := context.Background()
		styles := getStyles(cmd)

		d := getDescriber(cmd)

		stackDesc, err := d.DescribeStack(ctx, stackName)
		if err != nil {
			return fmt.Errorf("failed to describe stack %s: %w", stackName, err)
		}
		fmt.Print(describe.FormatStackDescription(stackDesc, styles))

		withResources, _ := cmd.Flags().GetBool("resources")
		if !withResources {
			return nil
		}

		resources, err := d.DescribeResources(ctx, stackName)
		if err != nil {
			return fmt.Errorf("failed to describe resources of stack %s: %w", stackName, err)
		}
		fmt.Println()
		fmt.Print(describe.FormatResources(resources, styles))
		return nil
	},
}

// getDescriber returns the describer instance, creating a default one if none is set
func getDescriber(cmd *cobra.Command) describe.Describer {
	if describer != nil {
		return describer
	}

	describer = describe.NewStackDescriber(getStackOperations(cmd))
	return describer
}

// SetDescriber allows injection of a describer (for testing)
func SetDescriber(d describe.Describer) {
	describer = d
}

func init() {
	describeCmd.Flags().Bool("resources", false, "include the stack's resource listing")
	rootCmd.AddCommand(describeCmd)
}
