/*
Copyright © 2025 Localstack Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package describe

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// FormatStackDescription formats stack information for display
func FormatStackDescription(desc *StackDescription, styles *StyleSet) string {
	var output strings.Builder

	// Stack Summary section
	output.WriteString(fmt.Sprintf("%s %s\n", styles.Key.Render("Stack:"), styles.Title.Render(desc.Name)))
	output.WriteString(fmt.Sprintf("%s %s\n", styles.Key.Render("Status:"), styles.Status(desc.Status).Render(desc.Status)))
	if !desc.CreatedTime.IsZero() {
		output.WriteString(fmt.Sprintf("%s %s\n", styles.Key.Render("Created:"), formatTime(desc.CreatedTime)))
	}
	if desc.UpdatedTime != nil {
		output.WriteString(fmt.Sprintf("%s %s\n", styles.Key.Render("Updated:"), formatTime(*desc.UpdatedTime)))
	}
	if desc.StackID != "" && desc.StackID != desc.Name {
		output.WriteString(fmt.Sprintf("%s %s\n", styles.Key.Render("Stack ID:"), desc.StackID))
	}
	if desc.Description != "" {
		output.WriteString(fmt.Sprintf("%s %s\n", styles.Key.Render("Description:"), desc.Description))
	}

	// Parameters section
	if len(desc.Parameters) > 0 {
		output.WriteString("\n" + styles.Title.Render("Parameters:") + "\n")
		writeKeyValueMap(&output, desc.Parameters, styles)
	}

	// Outputs section
	if len(desc.Outputs) > 0 {
		output.WriteString("\n" + styles.Title.Render("Outputs:") + "\n")
		writeKeyValueMap(&output, desc.Outputs, styles)
	}

	return output.String()
}

// FormatResources formats a stack's resource listing for display
func FormatResources(resources []ResourceDescription, styles *StyleSet) string {
	var output strings.Builder

	if len(resources) == 0 {
		output.WriteString(styles.Subtle.Render("No resources") + "\n")
		return output.String()
	}

	for _, r := range resources {
		output.WriteString(fmt.Sprintf("%s  %s  %s\n",
			styles.Title.Render(r.LogicalID),
			styles.Subtle.Render(r.Type),
			styles.Status(r.Status).Render(r.Status)))
		if r.PhysicalID != "" {
			output.WriteString(fmt.Sprintf("  %s %s\n", styles.Key.Render("Physical ID:"), r.PhysicalID))
		}
		if r.Reason != "" {
			output.WriteString(fmt.Sprintf("  %s %s\n", styles.Key.Render("Reason:"), r.Reason))
		}
	}

	return output.String()
}

// FormatEvents formats a stack's event history for display, newest first
func FormatEvents(events []EventDescription, styles *StyleSet) string {
	var output strings.Builder

	if len(events) == 0 {
		output.WriteString(styles.Subtle.Render("No events") + "\n")
		return output.String()
	}

	for _, e := range events {
		line := fmt.Sprintf("%s  %s  %s  %s",
			styles.Subtle.Render(formatTime(e.Timestamp)),
			styles.Status(e.Status).Render(e.Status),
			styles.Title.Render(e.LogicalID),
			e.Type)
		if e.Reason != "" {
			line += "  " + styles.Subtle.Render(e.Reason)
		}
		output.WriteString(line + "\n")
	}

	return output.String()
}

// formatTime formats time in a human-readable format
func formatTime(t time.Time) string {
	return t.Format("2006-01-02 15:04:05 MST")
}

// writeKeyValueMap writes a sorted map as key-value pairs with indentation
func writeKeyValueMap(output *strings.Builder, m map[string]string, styles *StyleSet) {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		fmt.Fprintf(output, "  %s: %s\n", styles.Key.Render(key), m[key])
	}
}
