package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/docstage/docstage/internal/config"
	"github.com/docstage/docstage/internal/target"
)

// DocsCmd implements the 'docs' command: it runs the optional documentation
// target explicitly.
type DocsCmd struct {
	Output   string `short:"o" help:"Override the docs output directory"`
	Theme    string `short:"t" help:"Override the configured theme"`
	ThemeDir string `name:"theme-dir" help:"Override the theme directory (local path or git URL)"`
}

func (d *DocsCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	if d.Theme != "" {
		cfg.Docs.Theme = d.Theme
		// theme dir follows the theme unless pinned explicitly
		if d.ThemeDir == "" {
			cfg.Docs.ThemeDir = ""
		}
	}
	if d.ThemeDir != "" {
		cfg.Docs.ThemeDir = d.ThemeDir
	}
	if cfg.Docs.ThemeDir == "" {
		config.ApplyDefaults(cfg)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg, err := BuildTargets(cfg, ResolveOutputDir(d.Output, cfg), nil)
	if err != nil {
		return err
	}

	runner := target.NewRunner(reg)
	results, err := runner.RunTarget(ctx, "docs")
	printResults(results)
	return err
}
