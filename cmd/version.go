/*
Copyright © 2025 Localstack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gregplaysguitar/localstack/internal/version"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version information",
	Long:  `Display the localstack version, git commit, build date and platform.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		short, _ := cmd.Flags().GetBool("short")
		if short {
			fmt.Println(version.Short())
			return
		}
		fmt.Println(version.Info())
	},
}

func init() {
	versionCmd.Flags().Bool("short", false, "print just the version number")
	rootCmd.AddCommand(versionCmd)
}
