/*
Copyright © 2025 Localstack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gregplaysguitar/localstack/internal/client"
	"github.com/gregplaysguitar/localstack/internal/describe"
	"github.com/gregplaysguitar/localstack/internal/render"
)

var (
	// stackOps can be injected for testing
	stackOps client.StackOperations
)

// getStackOperations returns the stack operations client, creating a default
// one against the --endpoint flag if none is set
func getStackOperations(cmd *cobra.Command) client.StackOperations {
	if stackOps != nil {
		return stackOps
	}

	endpoint, _ := cmd.Flags().GetString("endpoint")
	stackOps = client.New(endpoint)
	return stackOps
}

// SetStackOperations allows injection of a stack operations client (for testing)
func SetStackOperations(ops client.StackOperations) {
	stackOps = ops
}

// getStyles builds a style set honouring the --no-colour flag
func getStyles(cmd *cobra.Command) *describe.StyleSet {
	noColour, _ := cmd.Flags().GetBool("no-colour")
	return describe.NewStyleSet(!noColour)
}

// readTemplate loads a template file and renders it with the supplied
// variables before submission
func readTemplate(path string, variables map[string]interface{}) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read template file %s: %w", path, err)
	}

	processor := render.NewSprigProcessor()
	body, err := processor.Process(string(raw), variables)
	if err != nil {
		return "", fmt.Errorf("failed to render template file %s: %w", path, err)
	}
	return body, nil
}

// parseKeyValuePairs parses repeated key=value flag values into a map
func parseKeyValuePairs(pairs []string, flagName string) (map[string]string, error) {
	values := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid --%s value %q: expected key=value", flagName, pair)
		}
		values[key] = value
	}
	return values, nil
}
