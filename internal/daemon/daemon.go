// Package daemon runs continuous documentation builds: it watches the source
// and template directories, optionally rebuilds on a schedule, records each
// build in the history store, and publishes build events.
package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/docstage/docstage/internal/config"
	"github.com/docstage/docstage/internal/docs"
	"github.com/docstage/docstage/internal/history"
	"github.com/docstage/docstage/internal/logfields"
	"github.com/docstage/docstage/internal/metrics"
	"github.com/docstage/docstage/internal/workspace"
)

// Daemon coordinates watcher, scheduler, event publishing and history.
type Daemon struct {
	cfg       *config.Config
	outputDir string
	recorder  metrics.Recorder
	publisher EventPublisher
	store     *history.Store

	buildMu sync.Mutex // serializes rebuilds
}

// New creates a daemon for the given configuration and resolved output dir.
func New(cfg *config.Config, outputDir string) *Daemon {
	return &Daemon{
		cfg:       cfg,
		outputDir: outputDir,
		recorder:  metrics.NoopRecorder{},
	}
}

// SetRecorder injects a metrics recorder.
func (d *Daemon) SetRecorder(r metrics.Recorder) {
	if r != nil {
		d.recorder = r
	}
}

// Run starts the daemon and blocks until ctx is canceled. An initial build
// runs before watching begins so the output is valid from the start.
func (d *Daemon) Run(ctx context.Context) error {
	dc := d.cfg.Daemon
	if dc == nil {
		return fmt.Errorf("daemon configuration missing")
	}

	if d.cfg.History != nil && d.cfg.History.Path != "" {
		store, err := history.Open(d.cfg.History.Path)
		if err != nil {
			return fmt.Errorf("open history store: %w", err)
		}
		d.store = store
		defer func() { _ = store.Close() }()
	}

	if dc.NATSURL != "" {
		pub, err := NewNATSPublisher(dc.NATSURL, dc.Subject)
		if err != nil {
			return fmt.Errorf("event publisher: %w", err)
		}
		d.publisher = pub
		defer pub.Close()
	}

	d.rebuild(ctx)

	if dc.Watch {
		watcher, err := NewSourceWatcher(
			[]string{d.cfg.SourceDir, d.cfg.TemplateDir},
			dc.Debounce.Std(),
			d.rebuild,
		)
		if err != nil {
			return err
		}
		if err := watcher.Start(ctx); err != nil {
			_ = watcher.Stop()
			return err
		}
		defer func() { _ = watcher.Stop() }()
	}

	if dc.Schedule > 0 {
		sched, err := NewScheduler()
		if err != nil {
			return err
		}
		if _, err := sched.SchedulePeriodicRebuild(dc.Schedule.Std(), d.rebuild); err != nil {
			return err
		}
		sched.Start()
		defer func() { _ = sched.Stop() }()
	}

	slog.Info("Daemon running",
		slog.Bool("watch", dc.Watch),
		slog.Duration("schedule", dc.Schedule.Std()))
	<-ctx.Done()
	slog.Info("Daemon shutting down")
	return nil
}

// rebuild runs one docs build and records its result. Overlapping triggers
// wait for the in-flight build.
func (d *Daemon) rebuild(ctx context.Context) {
	d.buildMu.Lock()
	defer d.buildMu.Unlock()

	if ctx.Err() != nil {
		return
	}

	ws := workspace.NewManager("")
	if err := ws.Create(); err != nil {
		slog.Error("Failed to create workspace", logfields.Error(err))
		return
	}
	defer func() {
		if err := ws.Cleanup(); err != nil {
			slog.Warn("Workspace cleanup failed", logfields.Error(err))
		}
	}()

	gen := docs.NewGenerator(d.cfg, d.outputDir).SetRecorder(d.recorder)
	report, err := gen.Generate(ctx, ws.GetPath())
	if err != nil {
		slog.Error("Docs build failed", logfields.Error(err))
	}
	if report == nil {
		return
	}

	d.record(ctx, report)
}

func reportJSON(report *docs.BuildReport) (json.RawMessage, error) {
	return json.Marshal(report.Serializable())
}

func (d *Daemon) record(ctx context.Context, report *docs.BuildReport) {
	if d.store != nil {
		entry := history.Entry{
			BuildID:  report.BuildID,
			Target:   "docs",
			Theme:    report.Theme,
			Renderer: report.Renderer,
			Outcome:  string(report.Outcome),
			Duration: report.Duration(),
			Finished: report.End,
		}
		if data, err := reportJSON(report); err == nil {
			entry.Report = data
		}
		if err := d.store.Append(ctx, entry); err != nil {
			slog.Warn("Failed to record build history", logfields.Error(err))
		}
	}

	if d.publisher != nil {
		event := BuildEvent{
			BuildID:   report.BuildID,
			Outcome:   string(report.Outcome),
			Theme:     report.Theme,
			Renderer:  report.Renderer,
			Duration:  report.Duration().Round(time.Millisecond).String(),
			Timestamp: report.End,
		}
		pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := d.publisher.PublishBuild(pubCtx, event); err != nil {
			slog.Warn("Failed to publish build event", logfields.Error(err))
		}
	}
}
