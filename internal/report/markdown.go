package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"

	"github.com/watari-dev/linkmirror/internal/model"
)

// MarkdownWriter outputs build summaries in GitHub Flavored Markdown.
// Useful when builds run in CI and the summary lands in a job comment
// or commit artifact.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the build summary in Markdown format.
func (w *MarkdownWriter) Write(report *model.BuildReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeOutputs(md, report)
	w.writeWarnings(md, report)

	return len(md.String()), md.Build()
}

// writeHeader writes the summary table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.BuildReport) {
	md.H1("linkmirror Build Summary")
	md.PlainText("")

	rows := [][]string{
		{"Source", "`" + report.Source + "`"},
		{"Status", statusText(report)},
		{"Duration", report.Duration().Round(time.Millisecond).String()},
	}
	if report.Profile != nil {
		rows = append(rows,
			[]string{"Profile", report.Profile.DisplayName()},
			[]string{"Links", strconv.Itoa(report.Profile.LinkCount())},
			[]string{"Social links", strconv.Itoa(len(report.Profile.SocialLinks))},
		)
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// statusText returns the status cell content.
func statusText(report *model.BuildReport) string {
	if report.Succeeded() {
		return "✅ Complete"
	}
	return "❌ Failed - " + report.ErrorMessage
}

// writeOutputs writes the output file list.
func (w *MarkdownWriter) writeOutputs(md *markdown.Markdown, report *model.BuildReport) {
	if len(report.OutputFiles) == 0 {
		return
	}

	md.H2("Output")
	md.PlainText("")

	rows := make([][]string, 0, len(report.OutputFiles))
	for _, f := range report.OutputFiles {
		detail := ""
		if f == report.AvatarFile && report.AvatarSHA256 != "" {
			detail = strconv.FormatInt(report.AvatarBytes, 10) + " bytes, sha256 `" +
				report.AvatarSHA256[:12] + "`"
		}
		rows = append(rows, []string{"`" + f + "`", detail})
	}

	md.Table(markdown.TableSet{
		Header: []string{"File", "Detail"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeWarnings writes an alert per warning class.
func (w *MarkdownWriter) writeWarnings(md *markdown.Markdown, report *model.BuildReport) {
	privacy := report.PrivacyWarnings()

	switch {
	case len(privacy) > 0:
		md.Warningf("%d privacy warning(s): review the avatar metadata before publishing.", len(privacy))
	case len(report.Warnings) > 0:
		md.Note(fmt.Sprintf("%d content warning(s) recorded during extraction.", len(report.Warnings)))
	default:
		md.Tip("No warnings. The site is ready to publish.")
	}
	md.PlainText("")

	if len(report.Warnings) == 0 {
		return
	}

	md.H2("Warnings")
	md.PlainText("")

	rows := make([][]string, 0, len(report.Warnings))
	for _, warn := range report.Warnings {
		rows = append(rows, []string{warn.Kind, warn.Message, warn.Location})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Kind", "Message", "Location"},
		Rows:   rows,
	})
	md.PlainText("")
}
