package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/docstage/docstage/internal/history"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit   int    `short:"n" help:"Number of builds to show" default:"20"`
	BuildID string `name:"build-id" help:"Show records for a specific build ID"`
}

func (h *HistoryCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if cfg.History == nil || cfg.History.Path == "" {
		return fmt.Errorf("history is not configured (set history.path in %s)", root.Config)
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	var entries []history.Entry
	if h.BuildID != "" {
		entries, err = store.ByBuildID(ctx, h.BuildID)
	} else {
		entries, err = store.Recent(ctx, h.Limit)
	}
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("no recorded builds")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s  %-8s %-10s %-12s %8s  %s\n",
			e.Finished.Format(time.RFC3339),
			e.Outcome,
			e.Theme,
			e.Renderer,
			e.Duration.Round(time.Millisecond),
			e.BuildID)
	}
	return nil
}
