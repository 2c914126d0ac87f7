package model

import (
	"errors"
	"testing"
)

// TestBuildReportWarnings tests warning accumulation and filtering.
func TestBuildReportWarnings(t *testing.T) {
	t.Parallel()

	r := NewBuildReport("linktree.html")
	r.AddWarning(WarnContent, "skipped link without URL", "links[2]")
	r.AddWarning(WarnPrivacy, "avatar contains GPS coordinates", "profile_picture.jpg")

	if len(r.Warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %d", len(r.Warnings))
	}

	privacy := r.PrivacyWarnings()
	if len(privacy) != 1 {
		t.Fatalf("expected 1 privacy warning, got %d", len(privacy))
	}
	if privacy[0].Location != "profile_picture.jpg" {
		t.Errorf("unexpected location %q", privacy[0].Location)
	}
}

// TestBuildReportFinish tests error recording and success reporting.
func TestBuildReportFinish(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		r := NewBuildReport("linktree.html")
		r.Finish(nil)

		if !r.Succeeded() {
			t.Error("expected report to succeed")
		}
		if r.FinishedAt.IsZero() {
			t.Error("expected FinishedAt to be set")
		}
		if r.Duration() < 0 {
			t.Error("expected non-negative duration")
		}
	})

	t.Run("failure", func(t *testing.T) {
		t.Parallel()

		r := NewBuildReport("linktree.html")
		r.Finish(errors.New("payload script not found"))

		if r.Succeeded() {
			t.Error("expected report to fail")
		}
		if r.ErrorMessage != "payload script not found" {
			t.Errorf("unexpected error message %q", r.ErrorMessage)
		}
	})
}

// TestBuildReportOutputFiles tests output file ordering.
func TestBuildReportOutputFiles(t *testing.T) {
	t.Parallel()

	r := NewBuildReport("linktree.html")
	r.AddOutputFile("index.html")
	r.AddOutputFile("style.css")

	if len(r.OutputFiles) != 2 {
		t.Fatalf("expected 2 output files, got %d", len(r.OutputFiles))
	}
	if r.OutputFiles[0] != "index.html" || r.OutputFiles[1] != "style.css" {
		t.Errorf("unexpected output order: %v", r.OutputFiles)
	}
}
