/*
Copyright © 2025 Localstack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "localstack",
	Short: "A local CloudFormation emulator for offline development and testing",
	Long: `Localstack runs a CloudFormation-compatible stack engine entirely on your
machine, backed by in-process emulations of SQS, SNS, S3 and Kinesis.

• Run the emulator with 'localstack serve'
• Deploy templates against it with 'localstack deploy'
• Inspect stacks, resources and events without touching a real AWS account

Templates are standard CloudFormation JSON or YAML, including short-form
intrinsics such as !Ref and !GetAtt. No AWS credentials are required and no
network calls leave your machine.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringP("endpoint", "e", "http://127.0.0.1:4566", "base URL of a running emulator")
	rootCmd.PersistentFlags().Bool("no-colour", false, "disable coloured output")
}
