/*
Copyright © 2025 Localstack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package describe

import (
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"charm.land/lipgloss/v2"
)

// StyleSet contains the terminal styles used when rendering stack information
type StyleSet struct {
	Title  lipgloss.Style
	Key    lipgloss.Style
	Value  lipgloss.Style
	Subtle lipgloss.Style

	StatusSuccess  lipgloss.Style
	StatusFailure  lipgloss.Style
	StatusProgress lipgloss.Style

	useColour bool
}

// NewStyleSet creates a style set using Fang's colour scheme so command
// output matches the rest of the CLI. With useColour false every style is a
// no-op and output is plain text.
func NewStyleSet(useColour bool) *StyleSet {
	s := &StyleSet{useColour: useColour}

	if useColour {
		hasDark := lipgloss.HasDarkBackground(os.Stdin, os.Stdout)
		lightDark := lipgloss.LightDark(hasDark)
		scheme := fang.DefaultColorScheme(lightDark)

		s.Title = lipgloss.NewStyle().
			Bold(true).
			Foreground(scheme.Title)

		s.Key = lipgloss.NewStyle().
			Foreground(scheme.Argument)

		s.Value = lipgloss.NewStyle().
			Foreground(scheme.Base)

		s.Subtle = lipgloss.NewStyle().
			Foreground(scheme.Comment)

		s.StatusSuccess = lipgloss.NewStyle().
			Foreground(scheme.Flag).
			Bold(true)

		s.StatusFailure = lipgloss.NewStyle().
			Foreground(scheme.ErrorDetails).
			Bold(true)

		s.StatusProgress = lipgloss.NewStyle().
			Foreground(scheme.Command).
			Bold(true)
	} else {
		plain := lipgloss.NewStyle()
		s.Title = plain
		s.Key = plain
		s.Value = plain
		s.Subtle = plain
		s.StatusSuccess = plain
		s.StatusFailure = plain
		s.StatusProgress = plain
	}

	return s
}

// Status picks the style matching a stack or resource status string
func (s *StyleSet) Status(status string) lipgloss.Style {
	switch {
	case strings.HasSuffix(status, "_FAILED"):
		return s.StatusFailure
	case strings.HasSuffix(status, "_IN_PROGRESS"):
		return s.StatusProgress
	case strings.HasSuffix(status, "_COMPLETE"):
		return s.StatusSuccess
	default:
		return s.Value
	}
}
