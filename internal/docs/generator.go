// Package docs implements the optional documentation target: it stages renderer
// configuration from templates, resolves the theme, and invokes the external
// documentation renderer. The renderer itself is an opaque tool; this package
// only prepares its inputs and interprets its exit status.
package docs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/docstage/docstage/internal/config"
	"github.com/docstage/docstage/internal/logfields"
	"github.com/docstage/docstage/internal/metrics"
	_ "github.com/docstage/docstage/internal/theme/themes/alabaster"
	_ "github.com/docstage/docstage/internal/theme/themes/rtd"
)

// Generator drives the docs build for one configured output directory.
type Generator struct {
	config    *config.Config
	outputDir string // final output dir
	stageDir  string // deterministic staging dir for the current build
	recorder  metrics.Recorder
}

// NewGenerator creates a docs generator.
func NewGenerator(cfg *config.Config, outputDir string) *Generator {
	return &Generator{
		config:    cfg,
		outputDir: filepath.Clean(outputDir),
		recorder:  metrics.NoopRecorder{},
	}
}

// Config exposes the underlying configuration (read-only usage by stages).
func (g *Generator) Config() *config.Config { return g.config }

// SetRecorder injects a metrics recorder (optional). Returns the generator for chaining.
func (g *Generator) SetRecorder(r metrics.Recorder) *Generator {
	if r == nil {
		g.recorder = metrics.NoopRecorder{}
		return g
	}
	g.recorder = r
	return g
}

// buildRoot is the directory stages write into: the staging dir during a build,
// the output dir once finalized.
func (g *Generator) buildRoot() string {
	if g.stageDir != "" {
		return g.stageDir
	}
	return g.outputDir
}

// Layout helpers. The staging dir name is deterministic so rendered content is
// byte-stable across builds and write-if-changed can keep renderer caches warm.
func (g *Generator) confDir() string      { return g.buildRoot() }
func (g *Generator) htmlDir() string      { return filepath.Join(g.buildRoot(), "html") }
func (g *Generator) doctreeDir() string   { return filepath.Join(g.buildRoot(), "doctrees") }
func (g *Generator) staticDir() string    { return filepath.Join(g.buildRoot(), "_static") }
func (g *Generator) templatesDir() string { return filepath.Join(g.buildRoot(), "_templates") }

func (g *Generator) beginStaging() error {
	stage := g.outputDir + ".staging"
	if err := os.RemoveAll(stage); err != nil {
		return fmt.Errorf("clear staging dir: %w", err)
	}
	if err := os.MkdirAll(stage, 0o750); err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	g.stageDir = stage
	return nil
}

func (g *Generator) abortStaging() {
	if g.stageDir == "" {
		return
	}
	if err := os.RemoveAll(g.stageDir); err != nil {
		slog.Warn("Failed to remove staging directory", logfields.Path(g.stageDir), logfields.Error(err))
	}
	g.stageDir = ""
}

// finalizeStaging promotes the staging dir into the output location:
//  1. Move the existing output (if any) to <output>.prev, replacing a stale backup.
//  2. Rename staging -> output.
//  3. When output.clean is set, remove the backup; otherwise keep it.
func (g *Generator) finalizeStaging() error {
	if g.stageDir == "" {
		return nil
	}
	prev := g.outputDir + ".prev"
	if err := os.RemoveAll(prev); err != nil {
		return fmt.Errorf("remove stale output backup: %w", err)
	}
	if _, err := os.Stat(g.outputDir); err == nil {
		if err := os.Rename(g.outputDir, prev); err != nil {
			return fmt.Errorf("back up existing output: %w", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(g.outputDir), 0o750); err != nil {
		return fmt.Errorf("create output parent: %w", err)
	}
	if err := os.Rename(g.stageDir, g.outputDir); err != nil {
		return fmt.Errorf("promote staging: %w", err)
	}
	g.stageDir = ""
	if g.config.Output.Clean {
		if err := os.RemoveAll(prev); err != nil {
			slog.Warn("Failed to remove previous output backup", logfields.Path(prev), logfields.Error(err))
		}
	}
	return nil
}

// Generate runs the full docs pipeline and returns its report. The report is
// returned for failed builds too so callers can inspect stage classification.
func (g *Generator) Generate(ctx context.Context, workspaceDir string) (*BuildReport, error) {
	slog.Info("Starting docs generation",
		logfields.Path(g.outputDir),
		logfields.Theme(g.config.Docs.Theme),
		logfields.Renderer(g.config.Docs.Renderer))

	report := newBuildReport(g.config.Docs.Theme, g.config.Docs.Renderer)
	if err := g.beginStaging(); err != nil {
		return report, err
	}

	bs := newBuildState(g, report)
	bs.WorkspaceDir = workspaceDir

	stages := []StageDef{
		{StagePrepareOutput, stagePrepareOutput},
		{StageResolveTheme, stageResolveTheme},
		{StageTemplates, stageTemplates},
		{StageLocate, stageLocateRenderer},
		{StageRunRenderer, stageRunRenderer},
		{StagePostProcess, stagePostProcess},
	}

	if err := runStages(ctx, bs, stages); err != nil {
		g.abortStaging()
		report.deriveOutcome()
		report.finish()
		g.recorder.ObserveBuildDuration(report.Duration())
		g.recorder.IncBuildOutcome(string(report.Outcome))
		return report, err
	}

	report.deriveOutcome()
	report.finish()
	if err := g.finalizeStaging(); err != nil {
		g.abortStaging()
		report.Outcome = OutcomeFailed
		report.Errors = append(report.Errors, err)
		g.recorder.ObserveBuildDuration(report.Duration())
		g.recorder.IncBuildOutcome(string(report.Outcome))
		return report, fmt.Errorf("finalize staging: %w", err)
	}
	if err := report.Persist(g.outputDir); err != nil {
		slog.Warn("Failed to persist build report", logfields.Error(err))
	}
	g.recorder.ObserveBuildDuration(report.Duration())
	g.recorder.IncBuildOutcome(string(report.Outcome))

	slog.Info("Docs generation completed",
		logfields.Path(g.outputDir),
		logfields.BuildID(report.BuildID),
		slog.Int("templates", report.TemplatesRendered),
		slog.String("outcome", string(report.Outcome)))
	return report, nil
}
