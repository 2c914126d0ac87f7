package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/watari-dev/linkmirror/internal/config"
	"github.com/watari-dev/linkmirror/internal/database"
	"github.com/watari-dev/linkmirror/internal/extract"
	"github.com/watari-dev/linkmirror/internal/fetch"
	"github.com/watari-dev/linkmirror/internal/log"
	"github.com/watari-dev/linkmirror/internal/model"
	"github.com/watari-dev/linkmirror/internal/pipeline"
	"github.com/watari-dev/linkmirror/internal/render"
	"github.com/watari-dev/linkmirror/internal/report"
)

// NewBuildCmd creates the build command.
func NewBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [input]",
		Short: "Build a static site from a Linktree profile page",
		Long: `Build reads a Linktree profile page, extracts the profile from the
embedded JSON payload, downloads the avatar, and renders a static site.

The input is either a saved HTML file or the profile URL. With several
inputs, each profile is rendered into its own subdirectory of the
output directory.

Examples:
  # Build from a saved page
  linkmirror build linktree.html

  # Build directly from the profile URL
  linkmirror build https://linktr.ee/username

  # Build several saved pages at once
  linkmirror build pages/*.html

  # Custom output directory, no avatar download
  linkmirror build -o site --skip-avatar linktree.html

  # Write a Markdown build summary for CI
  linkmirror build -m -r summary.md linktree.html

Configuration file (.linkmirror) example:
  copy:
    tagline: "Ceramics and tea"
    location: "Lisbon, Portugal"
  theme:
    background: "#fdf6e3"`,
		Args: cobra.ArbitraryArgs,
		RunE: runBuildCmd,
	}

	// Output flags
	cmd.Flags().StringP("output", "o", config.DefaultOutputDir,
		"Output directory for the rendered site")
	cmd.Flags().Bool("skip-avatar", false,
		"Skip the avatar download (the page still references the avatar file)")

	// Fetch behavior flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"HTTP timeout for page and avatar fetches")
	cmd.Flags().StringP("user-agent", "u", config.DefaultUserAgent,
		"User-Agent header for HTTP requests")

	// Batch building flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent builds when several inputs are given")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .linkmirror in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON build summary (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown build summary (mutually exclusive with --json)")
	cmd.Flags().StringP("report", "r", "",
		"Write the build summary to the specified file instead of stdout")

	// History flags
	cmd.Flags().Bool("no-history", false,
		"Do not record this build in the history database")

	return cmd
}

// runBuildCmd executes the build command.
func runBuildCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging with token redaction
	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Warn("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runBuild(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags and the
// optional configuration file.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.OutputDir, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.SkipAvatar, err = cmd.Flags().GetBool("skip-avatar")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.UserAgent, err = cmd.Flags().GetString("user-agent")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load page copy and theme from the config file.
	// If the user explicitly specified a config file path, error if not
	// found. If no path was specified, silently use an empty config.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.Site, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.Site = &config.File{}
	}

	// Config file values yield to explicitly set flags.
	if cfg.Site.Output != "" && !cmd.Flags().Changed("output") {
		cfg.OutputDir = cfg.Site.Output
	}
	if cfg.Site.AvatarFile != "" {
		cfg.AvatarFile = cfg.Site.AvatarFile
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("report")
	if err != nil {
		return nil, err
	}

	noHistory, err := cmd.Flags().GetBool("no-history")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noHistory
	cfg.DBDir = config.XDGDataDir()

	cfg.Verbose = getVerboseFlag(cmd)

	// Positional arguments are the inputs (files or URLs)
	cfg.Inputs = args

	return cfg, nil
}

// runBuild executes the build.
func runBuild(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Debug("starting build",
		"inputs", cfg.Inputs,
		"output", cfg.OutputDir,
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)

	// Open the history database if saving is enabled. History is a
	// convenience; a broken database must not block the build.
	var db *database.BuildDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			logger.Warn("history database unavailable, builds will not be recorded",
				"dir", cfg.DBDir, "error", err)
		} else {
			defer db.Close()
			logger.Debug("history database opened", "dir", cfg.DBDir)
		}
	}

	// Open the report destination once for the whole invocation so that
	// with several inputs the summaries append instead of truncating
	// each other.
	reportOut, closeReport, err := openReportOutput(cfg)
	if err != nil {
		return err
	}
	defer closeReport() //nolint:errcheck // Writer errors surface per report

	// Use the batch processor for concurrent builds if multiple inputs
	if len(cfg.Inputs) > 1 && cfg.BatchSize > 1 {
		return runBatchBuild(ctx, cfg, reportOut, db, logger)
	}

	return runSequentialBuild(ctx, cfg, reportOut, db, logger)
}

// runSequentialBuild builds inputs one at a time.
func runSequentialBuild(ctx context.Context, cfg *config.Config, reportOut io.Writer, db *database.BuildDB, logger *slog.Logger) error {
	var failed int
	for _, input := range cfg.Inputs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		p := createBuildPipeline(cfg, logger)
		buildReport := newBuildReport(cfg, input)

		fmt.Printf("Building %s...\n", input)
		startTime := time.Now()

		if err := p.Execute(ctx, buildReport); err != nil {
			logger.Error("build failed", "input", input, "error", err)
			failed++
		} else {
			fmt.Printf("Build completed in %s\n\n", time.Since(startTime).Round(time.Millisecond))
		}

		if err := outputReport(cfg, reportOut, buildReport); err != nil {
			logger.Error("report failed", "input", input, "error", err)
		}

		if err := saveBuild(ctx, db, buildReport, logger); err != nil {
			logger.Error("failed to save build", "input", input, "error", err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d builds failed", failed, len(cfg.Inputs))
	}
	return nil
}

// runBatchBuild builds multiple inputs concurrently using BatchProcessor.
func runBatchBuild(ctx context.Context, cfg *config.Config, reportOut io.Writer, db *database.BuildDB, logger *slog.Logger) error {
	fmt.Printf("Starting batch build of %d inputs (concurrency: %d)...\n\n",
		len(cfg.Inputs), cfg.BatchSize)

	startTime := time.Now()

	bp := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline {
			return createBuildPipeline(cfg, logger)
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
		pipeline.WithReportFactory(func(source string) *model.BuildReport {
			return newBuildReport(cfg, source)
		}),
	)

	reports, err := bp.ProcessBatch(ctx, cfg.Inputs)
	if err != nil {
		return err
	}

	var failed int
	for i, buildReport := range reports {
		fmt.Printf("[%d/%d] %s\n", i+1, len(reports), buildReport.Source)

		if !buildReport.Succeeded() {
			failed++
		}
		if err := outputReport(cfg, reportOut, buildReport); err != nil {
			logger.Error("report failed", "input", buildReport.Source, "error", err)
		}
		if err := saveBuild(ctx, db, buildReport, logger); err != nil {
			logger.Error("failed to save build", "input", buildReport.Source, "error", err)
		}
	}

	fmt.Printf("\nBatch build completed in %s\n", time.Since(startTime).Round(time.Millisecond))

	if failed > 0 {
		return fmt.Errorf("%d of %d builds failed", failed, len(reports))
	}
	return nil
}

// newBuildReport creates the report for one input, with the output
// directory resolved. With several inputs, each gets its own
// subdirectory so the builds don't overwrite each other.
func newBuildReport(cfg *config.Config, input string) *model.BuildReport {
	r := model.NewBuildReport(input)
	if len(cfg.Inputs) > 1 {
		r.OutputDir = filepath.Join(cfg.OutputDir, siteDirName(input))
	} else {
		r.OutputDir = cfg.OutputDir
	}
	return r
}

// siteDirName derives a directory name from an input.
// For URLs it is the last path segment (the username); for files the
// base name without extension.
func siteDirName(input string) string {
	name := strings.TrimRight(input, "/")
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if name == "" {
		return "site"
	}
	return name
}

// createBuildPipeline creates the extract/avatar/render pipeline from
// the configuration.
func createBuildPipeline(cfg *config.Config, logger *slog.Logger) *pipeline.Pipeline {
	client := fetch.NewClient(
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
	)

	renderer := render.New(
		render.WithTheme(themeFromConfig(cfg)),
		render.WithAvatarFile(cfg.AvatarFile),
	)

	var pageCopy config.CopyConfig
	if cfg.Site != nil {
		pageCopy = cfg.Site.Copy
	}

	// Stop on first error: an extraction failure leaves nothing to
	// render, and a failed avatar download can be skipped explicitly
	// with --skip-avatar.
	p := pipeline.New(pipeline.WithLogger(logger))
	p.AddSteps(
		pipeline.NewExtractStep(client, extract.New(),
			pipeline.WithExtractCopy(pageCopy),
			pipeline.WithExtractLogger(logger),
		),
		pipeline.NewAvatarStep(client, cfg.AvatarFile,
			pipeline.WithAvatarSkip(cfg.SkipAvatar),
			pipeline.WithAvatarLogger(logger),
		),
		pipeline.NewRenderStep(renderer,
			pipeline.WithRenderLogger(logger),
		),
	)

	return p
}

// themeFromConfig converts config file theme settings to a render.Theme.
// Empty fields fall back to the renderer's defaults.
func themeFromConfig(cfg *config.Config) render.Theme {
	if cfg.Site == nil {
		return render.Theme{}
	}
	tc := cfg.Site.Theme
	return render.Theme{
		Background:   tc.Background,
		Surface:      tc.Surface,
		Text:         tc.Text,
		Border:       tc.Border,
		FontFamily:   tc.FontFamily,
		MaxWidth:     tc.MaxWidth,
		SidebarWidth: tc.SidebarWidth,
	}
}

// openReportOutput opens the report destination. With no report file
// configured it is stdout with a no-op closer. The file is created or
// truncated exactly once; every build summary of the invocation is
// written to the same handle.
func openReportOutput(cfg *config.Config) (io.Writer, func() error, error) {
	if cfg.ReportFile == "" {
		return os.Stdout, func() error { return nil }, nil
	}

	dir := filepath.Dir(cfg.ReportFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	// Owner-only permissions; summaries can reference local paths and
	// avatar checksums.
	f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create report file: %w", err)
	}
	return f, f.Close, nil
}

// outputReport writes the build summary in the requested format.
func outputReport(cfg *config.Config, output io.Writer, buildReport *model.BuildReport) error {
	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewSimpleWriter(output)
	}

	_, err := writer.Write(buildReport)
	return err
}

// saveBuild saves the build to the history database if enabled.
// Failed builds and builds without a profile are not recorded.
// If db is nil, this function is a no-op.
func saveBuild(ctx context.Context, db *database.BuildDB, buildReport *model.BuildReport, logger *slog.Logger) error {
	if db == nil {
		return nil
	}
	if !buildReport.Succeeded() || buildReport.Profile == nil {
		return nil
	}

	id, err := db.SaveBuild(ctx, buildReport)
	if err != nil {
		return fmt.Errorf("failed to save build: %w", err)
	}

	logger.Debug("build saved to history",
		"id", id,
		"username", buildReport.Profile.Username,
	)
	return nil
}
