// Package commands contains the docstage CLI commands.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/docstage/docstage/internal/config"
	"github.com/docstage/docstage/internal/docs"
	"github.com/docstage/docstage/internal/errors"
	"github.com/docstage/docstage/internal/history"
	"github.com/docstage/docstage/internal/metrics"
	"github.com/docstage/docstage/internal/target"
	"github.com/docstage/docstage/internal/workspace"
)

// Global holds state shared across subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI defines the command tree and global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"docstage.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build   BuildCmd   `cmd:"" help:"Run the default build targets"`
	Docs    DocsCmd    `cmd:"" help:"Generate documentation (optional target, not part of the default build)"`
	List    ListCmd    `cmd:"" help:"List available build targets"`
	Init    InitCmd    `cmd:"" help:"Initialize a new configuration file"`
	History HistoryCmd `cmd:"" help:"Show recorded build history"`
	Daemon  DaemonCmd  `cmd:"" help:"Run continuous builds, watching sources for changes"`
}

// AfterApply runs after flag parsing; set up logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := config.ResolveLogLevel(c.Verbose, "")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// loadConfig loads the config file and reapplies logging with its settings.
func loadConfig(root *CLI) (*config.Config, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level := config.ResolveLogLevel(root.Verbose, cfg.Logging.Level)
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Logging.Format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
	return cfg, nil
}

// ResolveOutputDir determines the docs output directory.
// Priority: CLI flag > config base_directory + directory > config directory.
func ResolveOutputDir(cliOutput string, cfg *config.Config) string {
	if cliOutput != "" {
		return cliOutput
	}
	if cfg.Output.BaseDirectory != "" {
		return filepath.Join(cfg.Output.BaseDirectory, cfg.Output.Directory)
	}
	if cfg.Output.Directory != "" {
		return cfg.Output.Directory
	}
	return config.DefaultOutputDir
}

// BuildTargets wires the target registry for the loaded configuration. The
// docs target is registered optional so it never joins the default set.
func BuildTargets(cfg *config.Config, outputDir string, recorder metrics.Recorder) (*target.Registry, error) {
	reg := target.NewRegistry()

	err := reg.Register(&target.Target{
		Name:        "sources",
		Description: "Validate the documentation source tree",
		Run: func(ctx context.Context) error {
			return validateSources(cfg)
		},
	})
	if err != nil {
		return nil, err
	}

	err = reg.Register(&target.Target{
		Name:        "docs",
		Description: "Render documentation with the external renderer",
		Optional:    true,
		Requires:    []string{"sources"},
		Run: func(ctx context.Context) error {
			return runDocs(ctx, cfg, outputDir, recorder)
		},
	})
	if err != nil {
		return nil, err
	}

	return reg, nil
}

// validateSources checks the configured source and template dirs exist.
func validateSources(cfg *config.Config) error {
	info, err := os.Stat(cfg.SourceDir)
	if err != nil || !info.IsDir() {
		return errors.New(errors.CategoryValidation, errors.SeverityFatal,
			fmt.Sprintf("source directory %s does not exist", cfg.SourceDir))
	}
	if cfg.TemplateDir != "" {
		if info, err := os.Stat(cfg.TemplateDir); err != nil || !info.IsDir() {
			return errors.New(errors.CategoryValidation, errors.SeverityFatal,
				fmt.Sprintf("template directory %s does not exist", cfg.TemplateDir))
		}
	}
	return nil
}

// runDocs executes one docs build inside a fresh workspace and records it in
// history when configured.
func runDocs(ctx context.Context, cfg *config.Config, outputDir string, recorder metrics.Recorder) error {
	ws := workspace.NewManager("")
	if err := ws.Create(); err != nil {
		return err
	}
	defer func() {
		if err := ws.Cleanup(); err != nil {
			slog.Warn("Failed to cleanup workspace", "error", err)
		}
	}()

	gen := docs.NewGenerator(cfg, outputDir).SetRecorder(recorder)
	report, genErr := gen.Generate(ctx, ws.GetPath())

	if report != nil {
		recordHistory(ctx, cfg, report)
	}
	return genErr
}

func recordHistory(ctx context.Context, cfg *config.Config, report *docs.BuildReport) {
	if cfg.History == nil || cfg.History.Path == "" {
		return
	}
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		slog.Warn("Failed to open history store", "error", err)
		return
	}
	defer func() { _ = store.Close() }()

	err = store.Append(ctx, history.Entry{
		BuildID:  report.BuildID,
		Target:   "docs",
		Theme:    report.Theme,
		Renderer: report.Renderer,
		Outcome:  string(report.Outcome),
		Duration: report.Duration(),
		Finished: report.End,
	})
	if err != nil {
		slog.Warn("Failed to record build history", "error", err)
	}
}
