package docs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/docstage/docstage/internal/logfields"
	"github.com/docstage/docstage/internal/renderer"
)

// stageLocateRenderer resolves the external renderer binary and probes its
// version for the report. A missing renderer fails only this target.
func stageLocateRenderer(ctx context.Context, bs *BuildState) error {
	cfg := bs.Generator.Config()
	r, err := renderer.Locate(cfg.Docs.Renderer, cfg.Docs.RendererPath)
	if err != nil {
		return newFatalStageError(StageLocate, err)
	}
	bs.Renderer = r
	bs.Report.RendererVersion = r.Version(ctx)
	slog.Debug("Resolved renderer",
		logfields.Renderer(r.Name),
		logfields.Path(r.Path),
		slog.String("version", bs.Report.RendererVersion))
	return nil
}

// stageRunRenderer invokes the external renderer against the staged
// configuration. Its exit status alone decides success.
func stageRunRenderer(ctx context.Context, bs *BuildState) error {
	g := bs.Generator
	inv := renderer.Invocation{
		ConfDir:    g.confDir(),
		DoctreeDir: g.doctreeDir(),
		SourceDir:  g.Config().SourceDir,
		HTMLDir:    g.htmlDir(),
		ExtraArgs:  bs.ExtraArgs,
	}
	if err := bs.Renderer.Run(ctx, inv); err != nil {
		g.recorder.IncRendererRun(false)
		if ctx.Err() != nil {
			return newCanceledStageError(StageRunRenderer, err)
		}
		return newFatalStageError(StageRunRenderer, err)
	}
	g.recorder.IncRendererRun(true)
	return nil
}

// stagePostProcess sanity-checks the renderer actually produced output.
func stagePostProcess(_ context.Context, bs *BuildState) error {
	htmlDir := bs.Generator.htmlDir()
	entries, err := os.ReadDir(htmlDir)
	if err != nil {
		return newFatalStageError(StagePostProcess, fmt.Errorf("read html output: %w", err))
	}
	if len(entries) == 0 {
		return newWarnStageError(StagePostProcess,
			fmt.Errorf("renderer produced no files under %s", filepath.Base(htmlDir)))
	}
	return nil
}
