// Package output provides output formatting for TaskHub CLI.
//
// This package handles all CLI output formatting:
//
//   - output.go: JSON formatting and table rendering
//
// Formatters support:
//
//   - Multiple output formats (table, json)
//   - Machine-readable output for scripting
package output
