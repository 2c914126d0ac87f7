package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/watari-dev/linkmirror/internal/model"
)

// SimpleWriter outputs human-readable text summaries for terminal
// display. Plain ASCII formatting pipes cleanly to files and other
// tools.
type SimpleWriter struct {
	baseWriter
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer) *SimpleWriter {
	return &SimpleWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the build summary in human-readable format.
func (w *SimpleWriter) Write(report *model.BuildReport) (int, error) {
	var sb strings.Builder

	sb.WriteString("linkmirror build summary\n")
	sb.WriteString(strings.Repeat("=", 40))
	sb.WriteString("\n\n")

	fmt.Fprintf(&sb, "Source:     %s\n", report.Source)
	if report.Profile != nil {
		fmt.Fprintf(&sb, "Profile:    %s\n", report.Profile.DisplayName())
		fmt.Fprintf(&sb, "Links:      %d\n", report.Profile.LinkCount())
		fmt.Fprintf(&sb, "Social:     %d\n", len(report.Profile.SocialLinks))
	}
	fmt.Fprintf(&sb, "Output dir: %s\n", report.OutputDir)

	if len(report.OutputFiles) > 0 {
		sb.WriteString("Files:\n")
		for _, f := range report.OutputFiles {
			fmt.Fprintf(&sb, "  - %s\n", f)
		}
	}
	if report.AvatarFile != "" {
		fmt.Fprintf(&sb, "Avatar:     %s (%d bytes, sha256 %.12s)\n",
			report.AvatarFile, report.AvatarBytes, report.AvatarSHA256)
	}

	if len(report.Warnings) > 0 {
		sb.WriteString("\nWarnings:\n")
		for _, warn := range report.Warnings {
			fmt.Fprintf(&sb, "  [%s] %s", warn.Kind, warn.Message)
			if warn.Location != "" {
				fmt.Fprintf(&sb, " (%s)", warn.Location)
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	if report.Succeeded() {
		fmt.Fprintf(&sb, "Status: OK (%s)\n", report.Duration().Round(time.Millisecond))
	} else {
		fmt.Fprintf(&sb, "Status: FAILED - %s\n", report.ErrorMessage)
	}

	return fmt.Fprint(w.output, sb.String())
}
