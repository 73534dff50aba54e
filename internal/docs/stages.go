package docs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/docstage/docstage/internal/renderer"
)

// Stage is a discrete unit of work in the docs build.
type Stage func(ctx context.Context, bs *BuildState) error

// StageErrorKind enumerates structured stage error categories.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"    // Build must abort.
	StageErrorWarning  StageErrorKind = "warning"  // Non-fatal; record and continue.
	StageErrorCanceled StageErrorKind = "canceled" // Context cancellation.
)

// StageError is a structured error carrying category and underlying cause.
type StageError struct {
	Kind  StageErrorKind
	Stage StageName
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

func newFatalStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorFatal, Stage: stage, Err: err}
}
func newWarnStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorWarning, Stage: stage, Err: err}
}
func newCanceledStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorCanceled, Stage: stage, Err: err}
}

// BuildState carries mutable state across stages.
type BuildState struct {
	Generator *Generator
	Report    *BuildReport

	Vars         map[string]string  // substitution variables, final after resolve_theme
	ThemePath    string             // resolved local theme directory ("" when theme is renderer-bundled)
	Renderer     *renderer.Renderer // resolved by locate_renderer
	ExtraArgs    []string           // theme + user renderer arguments
	WorkspaceDir string             // scratch space (theme fetches)

	start time.Time
}

func newBuildState(g *Generator, report *BuildReport) *BuildState {
	return &BuildState{
		Generator: g,
		Report:    report,
		Vars:      make(map[string]string),
		start:     time.Now(),
	}
}

// runStages executes stages in order, recording timing and stopping on first fatal error.
func runStages(ctx context.Context, bs *BuildState, stages []StageDef) error {
	for _, st := range stages {
		select {
		case <-ctx.Done():
			se := newCanceledStageError(st.Name, ctx.Err())
			bs.Report.recordStageError(st.Name, se, bs.Generator.recorder)
			return se
		default:
		}

		t0 := time.Now()
		err := st.Fn(ctx, bs)
		dur := time.Since(t0)
		bs.Report.StageDurations[string(st.Name)] = dur
		bs.Generator.recorder.ObserveStageDuration(string(st.Name), dur)

		if err == nil {
			bs.Report.recordStageSuccess(st.Name, bs.Generator.recorder)
			continue
		}

		var se *StageError
		if !errors.As(err, &se) {
			if ctx.Err() != nil {
				se = newCanceledStageError(st.Name, err)
			} else {
				se = newFatalStageError(st.Name, err)
			}
		}
		bs.Report.recordStageError(st.Name, se, bs.Generator.recorder)
		if se.Kind == StageErrorWarning {
			continue
		}
		return se
	}
	return nil
}
