package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/docstage/docstage/internal/target"
)

// BuildCmd implements the 'build' command: it runs every default target. The
// docs target only runs when requested explicitly via 'docstage docs'.
type BuildCmd struct {
	Output string `short:"o" help:"Override the docs output directory"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg, err := BuildTargets(cfg, ResolveOutputDir(b.Output, cfg), nil)
	if err != nil {
		return err
	}

	runner := target.NewRunner(reg)
	results, err := runner.RunDefaults(ctx)
	printResults(results)
	return err
}

func printResults(results []target.Result) {
	for _, r := range results {
		status := "ok"
		if r.Failed() {
			status = "failed"
		}
		fmt.Printf("%-12s %-8s %s\n", r.Target, status, r.Duration.Round(time.Millisecond))
	}
}
