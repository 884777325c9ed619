/*
Copyright © 2025 Localstack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/

// Package render preprocesses template files with Go templating before they
// are submitted to the engine, so authors can parameterise template bodies
// with variables and Sprig functions.
package render

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// Processor defines the interface for preprocessing template bodies
type Processor interface {
	Process(templateContent string, variables map[string]interface{}) (string, error)
}

// SprigProcessor implements Processor using Go's text/template with Sprig functions
type SprigProcessor struct{}

// NewSprigProcessor creates a new template preprocessor
func NewSprigProcessor() *SprigProcessor {
	return &SprigProcessor{}
}

// Process renders a template body with the provided variables using Go
// templates and Sprig functions
func (p *SprigProcessor) Process(templateContent string, variables map[string]interface{}) (string, error) {
	tmpl, err := template.New("stack-template").
		Funcs(sprig.TxtFuncMap()).
		Parse(templateContent)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, variables)
	if err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}
