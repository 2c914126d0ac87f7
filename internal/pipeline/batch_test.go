package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/watari-dev/linkmirror/internal/model"
)

// recordingStep records the report source it was executed with.
type recordingStep struct {
	err error
}

func (s *recordingStep) Do(_ context.Context, report *model.BuildReport) error {
	if s.err != nil {
		return s.err
	}
	report.Profile = &model.Profile{Username: filepath.Base(report.Source)}
	return nil
}

func (s *recordingStep) Name() string {
	return "record"
}

// TestProcessBatch tests concurrent batch builds.
func TestProcessBatch(t *testing.T) {
	t.Parallel()

	t.Run("preserves input order", func(t *testing.T) {
		t.Parallel()

		factory := func() *Pipeline {
			p := New()
			p.AddStep(&recordingStep{})
			return p
		}

		bp := NewBatchProcessor(factory, WithConcurrency(2))

		inputs := []string{"pages/alice.html", "pages/bob.html", "pages/carol.html"}
		reports, err := bp.ProcessBatch(context.Background(), inputs)
		if err != nil {
			t.Fatalf("failed to process batch: %v", err)
		}

		if len(reports) != len(inputs) {
			t.Fatalf("expected %d reports, got %d", len(inputs), len(reports))
		}
		for i, input := range inputs {
			if reports[i].Source != input {
				t.Errorf("report %d: expected source %q, got %q", i, input, reports[i].Source)
			}
			if !reports[i].Succeeded() {
				t.Errorf("report %d: expected success", i)
			}
		}
	})

	t.Run("failed builds do not abort the batch", func(t *testing.T) {
		t.Parallel()

		stepErr := errors.New("payload script not found")
		calls := 0
		factory := func() *Pipeline {
			calls++
			p := New()
			if calls == 1 {
				p.AddStep(&recordingStep{err: stepErr})
			} else {
				p.AddStep(&recordingStep{})
			}
			return p
		}

		// Sequential so the factory call order matches the input order.
		bp := NewBatchProcessor(factory, WithConcurrency(1))

		reports, err := bp.ProcessBatch(context.Background(), []string{"bad.html", "good.html"})
		if err != nil {
			t.Fatalf("failed to process batch: %v", err)
		}

		if reports[0].Succeeded() {
			t.Error("expected first report to record the failure")
		}
		if !reports[1].Succeeded() {
			t.Error("expected second report to succeed")
		}
	})

	t.Run("report factory sets per-input state", func(t *testing.T) {
		t.Parallel()

		factory := func() *Pipeline {
			p := New()
			p.AddStep(&recordingStep{})
			return p
		}

		bp := NewBatchProcessor(factory,
			WithReportFactory(func(source string) *model.BuildReport {
				r := model.NewBuildReport(source)
				r.OutputDir = filepath.Join("out", filepath.Base(source))
				return r
			}),
		)

		reports, err := bp.ProcessBatch(context.Background(), []string{"a.html", "b.html"})
		if err != nil {
			t.Fatalf("failed to process batch: %v", err)
		}
		if reports[0].OutputDir != filepath.Join("out", "a.html") {
			t.Errorf("unexpected output dir: %q", reports[0].OutputDir)
		}
	})

	t.Run("respects cancellation", func(t *testing.T) {
		t.Parallel()

		factory := func() *Pipeline {
			p := New()
			p.AddStep(&recordingStep{})
			return p
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		bp := NewBatchProcessor(factory)
		if _, err := bp.ProcessBatch(ctx, []string{"a.html"}); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}
