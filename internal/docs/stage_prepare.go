package docs

import (
	"context"
	"fmt"
	"os"
)

// stagePrepareOutput creates the intermediate directory tree the renderer
// expects before any template is written.
func stagePrepareOutput(_ context.Context, bs *BuildState) error {
	g := bs.Generator
	for _, dir := range []string{g.confDir(), g.htmlDir(), g.doctreeDir(), g.staticDir(), g.templatesDir()} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return newFatalStageError(StagePrepareOutput, fmt.Errorf("create %s: %w", dir, err))
		}
	}
	return nil
}
