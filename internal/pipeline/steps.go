package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/watari-dev/linkmirror/internal/config"
	"github.com/watari-dev/linkmirror/internal/extract"
	"github.com/watari-dev/linkmirror/internal/fetch"
	"github.com/watari-dev/linkmirror/internal/model"
	"github.com/watari-dev/linkmirror/internal/render"
)

// ErrNoProfile is returned by steps that need an extracted profile when
// the extract step has not populated the report.
var ErrNoProfile = errors.New("no profile extracted")

// ExtractStep reads the input page and extracts the profile from the
// embedded payload. The input is either a saved HTML file path or a
// profile URL; URLs are fetched over HTTP.
//
// Design decision: One step handles both input kinds because the
// extraction is identical once we have a reader. Only the acquisition
// differs, and that is three lines of dispatch.
type ExtractStep struct {
	// client fetches remote pages.
	client *fetch.Client

	// extractor parses the page and its payload.
	extractor *extract.Extractor

	// copy holds static page copy applied on top of the extracted
	// profile (tagline, location, role from the config file).
	copy config.CopyConfig

	// logger for structured logging.
	logger *slog.Logger
}

// ExtractStepOption configures an ExtractStep.
type ExtractStepOption func(*ExtractStep)

// WithExtractCopy sets the static page copy merged into the profile.
func WithExtractCopy(c config.CopyConfig) ExtractStepOption {
	return func(s *ExtractStep) {
		s.copy = c
	}
}

// WithExtractLogger sets a custom logger for the extract step.
func WithExtractLogger(logger *slog.Logger) ExtractStepOption {
	return func(s *ExtractStep) {
		s.logger = logger
	}
}

// NewExtractStep creates a new extraction step.
func NewExtractStep(client *fetch.Client, extractor *extract.Extractor, opts ...ExtractStepOption) *ExtractStep {
	s := &ExtractStep{
		client:    client,
		extractor: extractor,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *ExtractStep) Name() string {
	return "extract"
}

// isRemote reports whether the source is a URL rather than a file path.
func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Do executes the extraction step.
func (s *ExtractStep) Do(ctx context.Context, report *model.BuildReport) error {
	var result *extract.Result

	if isRemote(report.Source) {
		page, err := s.client.FetchPage(ctx, report.Source)
		if err != nil {
			return fmt.Errorf("failed to fetch page: %w", err)
		}
		result, err = s.extractor.Extract(bytes.NewReader(page.Body), page.ContentType)
		if err != nil {
			return err
		}
	} else {
		f, err := os.Open(report.Source) //nolint:gosec // User-provided input path is intentional
		if err != nil {
			return fmt.Errorf("failed to open input file: %w", err)
		}
		defer f.Close() //nolint:errcheck // Read-only file

		result, err = s.extractor.Extract(f, "")
		if err != nil {
			return err
		}
	}

	profile := result.Profile
	if s.copy.Tagline != "" {
		profile.Tagline = s.copy.Tagline
	}
	if s.copy.Location != "" {
		profile.Location = s.copy.Location
	}
	if s.copy.Role != "" {
		profile.Role = s.copy.Role
	}
	report.Profile = profile

	for _, path := range result.SkippedEntries {
		report.AddWarning(model.WarnContent, "skipped link entry without URL", path)
	}

	s.logger.Debug("profile extracted",
		"username", profile.Username,
		"links", profile.LinkCount(),
		"social_links", len(profile.SocialLinks),
	)

	return nil
}

// AvatarStep downloads the profile avatar into the output directory and
// inspects it for EXIF metadata the owner may not want published.
type AvatarStep struct {
	// client downloads the avatar.
	client *fetch.Client

	// avatarFile is the target filename inside the output directory.
	avatarFile string

	// skip disables the download entirely.
	skip bool

	// logger for structured logging.
	logger *slog.Logger
}

// AvatarStepOption configures an AvatarStep.
type AvatarStepOption func(*AvatarStep)

// WithAvatarSkip disables the avatar download. The rendered page still
// references the avatar file, so a previously downloaded copy is reused.
func WithAvatarSkip(skip bool) AvatarStepOption {
	return func(s *AvatarStep) {
		s.skip = skip
	}
}

// WithAvatarLogger sets a custom logger for the avatar step.
func WithAvatarLogger(logger *slog.Logger) AvatarStepOption {
	return func(s *AvatarStep) {
		s.logger = logger
	}
}

// NewAvatarStep creates a new avatar download step.
// avatarFile is the filename inside the report's output directory.
func NewAvatarStep(client *fetch.Client, avatarFile string, opts ...AvatarStepOption) *AvatarStep {
	s := &AvatarStep{
		client:     client,
		avatarFile: avatarFile,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.avatarFile == "" {
		s.avatarFile = config.DefaultAvatarFile
	}

	return s
}

// Name returns the step name.
func (s *AvatarStep) Name() string {
	return "avatar"
}

// Do executes the avatar download step.
func (s *AvatarStep) Do(ctx context.Context, report *model.BuildReport) error {
	if s.skip {
		s.logger.Debug("skipping avatar download")
		return nil
	}

	if report.Profile == nil {
		return ErrNoProfile
	}
	if report.Profile.AvatarURL == "" {
		report.AddWarning(model.WarnContent, "profile has no avatar URL", "account")
		return nil
	}

	path := filepath.Join(report.OutputDir, s.avatarFile)
	avatar, err := s.client.DownloadAvatar(ctx, report.Profile.AvatarURL, path)
	if err != nil {
		return fmt.Errorf("failed to download avatar: %w", err)
	}

	report.AvatarFile = s.avatarFile
	report.AvatarSHA256 = avatar.SHA256
	report.AvatarBytes = int64(len(avatar.Data))
	report.AddOutputFile(s.avatarFile)

	report.Warnings = append(report.Warnings, fetch.InspectAvatar(avatar.Data, s.avatarFile)...)

	s.logger.Debug("avatar downloaded",
		"file", s.avatarFile,
		"bytes", report.AvatarBytes,
		"sha256", avatar.SHA256,
	)

	return nil
}

// RenderStep writes the static site (page and stylesheet) into the
// output directory.
type RenderStep struct {
	// renderer produces the page and stylesheet.
	renderer *render.Renderer

	// logger for structured logging.
	logger *slog.Logger
}

// RenderStepOption configures a RenderStep.
type RenderStepOption func(*RenderStep)

// WithRenderLogger sets a custom logger for the render step.
func WithRenderLogger(logger *slog.Logger) RenderStepOption {
	return func(s *RenderStep) {
		s.logger = logger
	}
}

// NewRenderStep creates a new render step.
func NewRenderStep(renderer *render.Renderer, opts ...RenderStepOption) *RenderStep {
	s := &RenderStep{
		renderer: renderer,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *RenderStep) Name() string {
	return "render"
}

// Do executes the render step.
func (s *RenderStep) Do(_ context.Context, report *model.BuildReport) error {
	if report.Profile == nil {
		return ErrNoProfile
	}

	files, err := s.renderer.WriteSite(report.OutputDir, report.Profile)
	if err != nil {
		return fmt.Errorf("failed to write site: %w", err)
	}

	for _, f := range files {
		report.AddOutputFile(f)
	}

	s.logger.Debug("site rendered",
		"dir", report.OutputDir,
		"files", files,
	)

	return nil
}
