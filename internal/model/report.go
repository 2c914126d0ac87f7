package model

import "time"

// Warning levels for build warnings, ordered by urgency.
// These are deliberately simpler than a full severity scale: a static
// site build either succeeds or fails, and warnings only flag things the
// operator should review before publishing.
const (
	// WarnPrivacy flags data that could leak information about the
	// profile owner when the rendered site is published (EXIF GPS tags,
	// camera serial numbers, and similar).
	WarnPrivacy = "privacy"

	// WarnContent flags extracted content that was skipped or looked
	// suspicious (e.g. link entries without a URL).
	WarnContent = "content"
)

// Warning is a non-fatal observation made during a build.
type Warning struct {
	// Kind is one of the Warn* constants.
	Kind string `json:"kind"`

	// Message is a human-readable description.
	Message string `json:"message"`

	// Location names where the observation was made (file, URL without
	// query, or payload key path).
	Location string `json:"location,omitempty"`
}

// BuildReport accumulates the result of one build pipeline run.
// Pipeline steps fill it in as they execute, and the report writers and
// the history database read from it afterwards.
type BuildReport struct {
	// Source is the input the build started from: a saved HTML file
	// path or a profile URL.
	Source string `json:"source"`

	// Profile is the extracted profile. Nil until the extract step ran.
	Profile *Profile `json:"profile,omitempty"`

	// OutputDir is the directory the site was rendered into.
	OutputDir string `json:"output_dir"`

	// OutputFiles lists the files written, relative to OutputDir, in
	// the order they were produced.
	OutputFiles []string `json:"output_files,omitempty"`

	// AvatarFile is the avatar filename relative to OutputDir.
	// Empty when the avatar download was skipped.
	AvatarFile string `json:"avatar_file,omitempty"`

	// AvatarSHA256 is the hex SHA-256 of the downloaded avatar bytes.
	// Used by the history database for change detection between builds.
	AvatarSHA256 string `json:"avatar_sha256,omitempty"`

	// AvatarBytes is the size of the downloaded avatar in bytes.
	AvatarBytes int64 `json:"avatar_bytes,omitempty"`

	// Warnings are the non-fatal observations collected during the run.
	Warnings []Warning `json:"warnings,omitempty"`

	// StartedAt is when the pipeline started.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the pipeline finished (successfully or not).
	FinishedAt time.Time `json:"finished_at"`

	// PerformedSteps lists the pipeline steps that ran, in order.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// Err holds the fatal error that aborted the run, if any.
	// Excluded from JSON; ErrorMessage carries the text instead.
	Err error `json:"-"`

	// ErrorMessage is the text of Err for serialized reports.
	ErrorMessage string `json:"error,omitempty"`
}

// NewBuildReport creates a BuildReport for the given input source.
func NewBuildReport(source string) *BuildReport {
	return &BuildReport{
		Source:    source,
		StartedAt: time.Now(),
	}
}

// AddWarning appends a warning to the report.
func (r *BuildReport) AddWarning(kind, message, location string) {
	r.Warnings = append(r.Warnings, Warning{
		Kind:     kind,
		Message:  message,
		Location: location,
	})
}

// AddOutputFile records a written output file (relative to OutputDir).
func (r *BuildReport) AddOutputFile(name string) {
	r.OutputFiles = append(r.OutputFiles, name)
}

// PrivacyWarnings returns only the warnings with kind WarnPrivacy.
func (r *BuildReport) PrivacyWarnings() []Warning {
	var out []Warning
	for _, w := range r.Warnings {
		if w.Kind == WarnPrivacy {
			out = append(out, w)
		}
	}
	return out
}

// Succeeded reports whether the build completed without a fatal error.
func (r *BuildReport) Succeeded() bool {
	return r.Err == nil && r.ErrorMessage == ""
}

// Duration returns how long the build took. Zero if the report has not
// been finished yet.
func (r *BuildReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Finish stamps the end time and records the fatal error, if any.
func (r *BuildReport) Finish(err error) {
	r.FinishedAt = time.Now()
	if err != nil {
		r.Err = err
		r.ErrorMessage = err.Error()
	}
}
