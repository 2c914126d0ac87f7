package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultOutputDir is where the rendered site is written. "public"
	// matches the conventional publish directory of static hosts.
	DefaultOutputDir = "public"

	// DefaultAvatarFile is the avatar filename inside the output
	// directory. The page template references it by this name.
	DefaultAvatarFile = "profile_picture.jpg"

	// DefaultTimeout is the HTTP timeout for page and avatar fetches.
	// Linktree and its CDN respond quickly; 30 seconds is generous.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent is sent with HTTP requests. Linktree serves the
	// embedded payload to regular browsers, so we identify as one.
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0"

	// DefaultMaxBodySize limits how much of any HTTP response we read.
	// Profile pages are well under 1MB and avatars under 5MB; the limit
	// guards against pathological responses.
	DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB

	// DefaultBatchSize is the number of concurrent builds when multiple
	// input files are given. Builds are I/O-light, so a small number
	// keeps output readable without slowing anything down.
	DefaultBatchSize = 4

	// AppName is the application name used for XDG directory paths.
	AppName = "linkmirror"
)

// Config holds all configuration options for a linkmirror run.
// It is populated from CLI flags and the optional config file, then
// passed through the application by value reference rather than
// global state.
type Config struct {
	// Inputs are the saved HTML files or profile URLs to build from.
	// Must contain at least one entry.
	Inputs []string

	// OutputDir is the directory the site is rendered into.
	// Created if it does not exist.
	OutputDir string

	// AvatarFile is the avatar filename inside OutputDir.
	AvatarFile string

	// SkipAvatar renders the site without downloading the avatar.
	// The page still references the avatar file, so an earlier download
	// can be reused.
	SkipAvatar bool

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration

	// UserAgent is the User-Agent header for HTTP requests.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	MaxBodySize int64

	// BatchSize is the number of concurrent builds when more than one
	// input is given. 1 forces sequential builds.
	BatchSize int

	// Verbose enables slog.LevelDebug output. When false, only
	// warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is an explicit config file path. If empty, the
	// tool searches for .linkmirror in the current directory and then
	// in the user's home directory.
	ConfigFilePath string

	// Site holds the page copy and theme loaded from the config file.
	// Populated by LoadConfigFile; never nil after buildConfig.
	Site *File

	// JSONReport enables JSON build-summary output.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown build-summary output.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the build-summary output path. When set, the
	// summary is written there instead of stdout.
	ReportFile string

	// DBDir is the directory for the build-history SQLite database.
	// Defaults to the XDG data directory.
	DBDir string

	// SaveToDB records successful builds in the history database.
	SaveToDB bool
}

// NewConfig creates a Config with default values.
// Many defaults are non-zero, so relying on zero values would be
// error-prone; the constructor doubles as documentation of the defaults.
func NewConfig() *Config {
	return &Config{
		OutputDir:   DefaultOutputDir,
		AvatarFile:  DefaultAvatarFile,
		Timeout:     DefaultTimeout,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
		BatchSize:   DefaultBatchSize,
	}
}

// XDGDataDir returns the XDG data directory for linkmirror.
// On Linux: ~/.local/share/linkmirror
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for linkmirror.
// On Linux: ~/.config/linkmirror
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It is called once after CLI parsing, before the pipeline starts, so
// misconfiguration fails fast with a specific sentinel error.
func (c *Config) Validate() error {
	if len(c.Inputs) == 0 {
		return ErrNoInput
	}
	if c.OutputDir == "" {
		return ErrNoOutputDir
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxBodySize <= 0 {
		return ErrInvalidMaxBodySize
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}
