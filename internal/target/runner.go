package target

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/docstage/docstage/internal/logfields"
)

// Result records the outcome of one target execution.
type Result struct {
	Target   string
	Err      error
	Duration time.Duration
}

// Failed reports whether the target execution failed.
func (r Result) Failed() bool { return r.Err != nil }

// Runner executes targets from a registry.
type Runner struct {
	reg *Registry
}

// NewRunner creates a runner over the given registry.
func NewRunner(reg *Registry) *Runner { return &Runner{reg: reg} }

// visitState tracks per-invocation execution state so shared prerequisites run
// at most once and cycles are detected.
type visitState int

const (
	visitInProgress visitState = iota
	visitDone
	visitFailed
)

// RunDefaults executes every target in the default set. A failing target is
// recorded but does not stop the remaining defaults; optional targets are never
// included. Prerequisites shared between defaults run once. The error
// summarizes failures, if any.
func (r *Runner) RunDefaults(ctx context.Context) ([]Result, error) {
	var results []Result
	failures := 0
	visited := map[string]visitState{}
	for _, t := range r.reg.DefaultSet() {
		res, _ := r.runOne(ctx, t, visited)
		results = append(results, res...)
		for _, rr := range res {
			if rr.Failed() {
				failures++
			}
		}
		if ctx.Err() != nil {
			break
		}
	}
	if failures > 0 {
		return results, fmt.Errorf("%d of %d default targets failed", failures, len(results))
	}
	return results, nil
}

// RunTarget executes a single named target (optional or not), running declared
// prerequisites first. Unknown names are an error.
func (r *Runner) RunTarget(ctx context.Context, name string) ([]Result, error) {
	t, ok := r.reg.Get(name)
	if !ok {
		return nil, fmt.Errorf("target %s not found", name)
	}
	results, _ := r.runOne(ctx, t, map[string]visitState{})
	for _, res := range results {
		if res.Failed() {
			return results, fmt.Errorf("target %s failed: %w", res.Target, res.Err)
		}
	}
	return results, nil
}

// runOne executes prerequisites then the target itself. It returns the results
// produced by this call and whether the target is usable as a prerequisite; a
// target already run in this invocation contributes no new results.
func (r *Runner) runOne(ctx context.Context, t *Target, visited map[string]visitState) ([]Result, bool) {
	if state, seen := visited[t.Name]; seen {
		switch state {
		case visitDone:
			return nil, true
		case visitFailed:
			return nil, false
		default:
			return []Result{{Target: t.Name, Err: fmt.Errorf("target %s required recursively", t.Name)}}, false
		}
	}
	visited[t.Name] = visitInProgress

	var results []Result
	for _, dep := range t.Requires {
		pre, ok := r.reg.Get(dep)
		if !ok {
			visited[t.Name] = visitFailed
			results = append(results, Result{Target: t.Name,
				Err: fmt.Errorf("target %s requires unknown target %s", t.Name, dep)})
			return results, false
		}
		depRes, depOK := r.runOne(ctx, pre, visited)
		results = append(results, depRes...)
		if !depOK {
			// prerequisite failed: do not run the dependent target
			visited[t.Name] = visitFailed
			return results, false
		}
	}

	if ctx.Err() != nil {
		visited[t.Name] = visitFailed
		results = append(results, Result{Target: t.Name, Err: ctx.Err()})
		return results, false
	}

	slog.Info("Running target", logfields.Target(t.Name))
	t0 := time.Now()
	err := t.Run(ctx)
	dur := time.Since(t0)
	if err != nil {
		slog.Error("Target failed", logfields.Target(t.Name), logfields.Error(err))
		visited[t.Name] = visitFailed
	} else {
		slog.Info("Target completed", logfields.Target(t.Name), logfields.DurationMS(float64(dur.Milliseconds())))
		visited[t.Name] = visitDone
	}
	results = append(results, Result{Target: t.Name, Err: err, Duration: dur})
	return results, err == nil
}
