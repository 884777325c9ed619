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

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate <template-file>",
	Short: "Validate a CloudFormation template",
	Long: `Validate a template without provisioning anything.

The template is parsed and its dependency graph is checked for undeclared
references and cycles. Validation provides fast feedback during development
without mutating any stack state.

Template files may use Go template syntax with Sprig functions; values passed
with --var are available during rendering, exactly as with deploy.

Examples:
  localstack validate template.yaml
  localstack validate template.yaml.tmpl --var env=dev`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		templateFile := args[0]
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

		templateBody, err := readTemplate(templateFile, renderVars)
		if err != nil {
			return err
		}

		ops := getStackOperations(cmd)
		out, err := ops.ValidateTemplate(ctx, templateBody)
		if err != nil {
			return fmt.Errorf("template %s is not valid: %w", templateFile, err)
		}

		fmt.Printf("Template %s is valid\n", templateFile)
		if out.Description != "" {
			fmt.Printf("Description: %s\n", out.Description)
		}
		if len(out.Parameters) > 0 {
			fmt.Println("Parameters:")
			for _, parameter := range out.Parameters {
				line := fmt.Sprintf("  %s", stringValue(parameter.ParameterKey))
				if parameter.DefaultValue != nil {
					line += fmt.Sprintf(" (default: %s)", *parameter.DefaultValue)
				}
				fmt.Println(line)
			}
		}
		return nil
	},
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func init() {
	validateCmd.Flags().StringArray("var", nil, "template rendering variable as key=value (repeatable)")
	rootCmd.AddCommand(validateCmd)
}
