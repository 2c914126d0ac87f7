// Package report writes build summaries in human-readable text, JSON,
// and Markdown formats.
package report
