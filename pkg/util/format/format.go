// Package format renders tabular MCP data (tool/resource/prompt listings)
// as either a markdown table or aligned plain-text columns, for CLI output.
// file: pkg/util/format/format.go
package format

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"
)

// FormatMarkdownTable creates a markdown table from headers and rows.
// Returns an error if headers or rows are empty.
func FormatMarkdownTable(headers []string, rows [][]string) (string, error) {
	if len(headers) == 0 {
		return "", fmt.Errorf("FormatMarkdownTable: headers are empty")
	}
	if len(rows) == 0 {
		return "", fmt.Errorf("FormatMarkdownTable: rows are empty")
	}

	var buf strings.Builder

	buf.WriteString("| ")
	buf.WriteString(strings.Join(headers, " | "))
	buf.WriteString(" |\n")

	buf.WriteString("| ")
	for range headers {
		buf.WriteString("--- | ")
	}
	buf.WriteString("\n")

	for _, row := range rows {
		for len(row) < len(headers) {
			row = append(row, "")
		}
		buf.WriteString("| ")
		buf.WriteString(strings.Join(row, " | "))
		buf.WriteString(" |\n")
	}

	return buf.String(), nil
}

// FormatColumns formats text in evenly-spaced columns using tabwriter.
// Returns an error if headers or rows are empty.
func FormatColumns(headers []string, rows [][]string) (string, error) {
	if len(headers) == 0 {
		return "", fmt.Errorf("FormatColumns: headers are empty")
	}
	if len(rows) == 0 {
		return "", fmt.Errorf("FormatColumns: rows are empty")
	}

	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, strings.Join(headers, "\t"))

	sep := make([]string, len(headers))
	for i := range sep {
		sep[i] = strings.Repeat("-", len(headers[i]))
	}
	fmt.Fprintln(w, strings.Join(sep, "\t"))

	for _, row := range rows {
		for len(row) < len(headers) {
			row = append(row, "")
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}

	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("FormatColumns: flushing tabwriter: %w", err)
	}
	return buf.String(), nil
}
