package docs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/docstage/docstage/internal/metrics"
)

// reportSchemaVersion is bumped on incompatible report shape changes.
const reportSchemaVersion = 1

// BuildOutcome is the derived overall result of a docs build.
type BuildOutcome string

const (
	OutcomeSuccess  BuildOutcome = "success"
	OutcomeWarning  BuildOutcome = "warning"
	OutcomeFailed   BuildOutcome = "failed"
	OutcomeCanceled BuildOutcome = "canceled"
)

// StageCount tracks per-stage classification totals.
type StageCount struct {
	Success  int `json:"success"`
	Warning  int `json:"warning"`
	Fatal    int `json:"fatal"`
	Canceled int `json:"canceled"`
}

// BuildReport captures the observable result of one docs build.
type BuildReport struct {
	SchemaVersion     int
	BuildID           string
	Theme             string
	Renderer          string
	RendererVersion   string
	TemplatesRendered int
	TemplatesSkipped  int // unchanged on disk, not rewritten
	UnresolvedVars    []string
	Start             time.Time
	End               time.Time
	Errors            []error
	Warnings          []error
	StageDurations    map[string]time.Duration
	StageErrorKinds   map[StageName]StageErrorKind
	StageCounts       map[StageName]StageCount
	Outcome           BuildOutcome
}

func newBuildReport(theme, rendererName string) *BuildReport {
	return &BuildReport{
		SchemaVersion:   reportSchemaVersion,
		BuildID:         uuid.NewString(),
		Theme:           theme,
		Renderer:        rendererName,
		Start:           time.Now(),
		StageDurations:  make(map[string]time.Duration),
		StageErrorKinds: make(map[StageName]StageErrorKind),
		StageCounts:     make(map[StageName]StageCount),
	}
}

func (r *BuildReport) recordStageSuccess(stage StageName, recorder metrics.Recorder) {
	sc := r.StageCounts[stage]
	sc.Success++
	r.StageCounts[stage] = sc
	recorder.IncStageResult(string(stage), metrics.ResultSuccess)
}

func (r *BuildReport) recordStageError(stage StageName, se *StageError, recorder metrics.Recorder) {
	r.StageErrorKinds[stage] = se.Kind
	sc := r.StageCounts[stage]
	switch se.Kind {
	case StageErrorWarning:
		sc.Warning++
		r.Warnings = append(r.Warnings, se)
		recorder.IncStageResult(string(stage), metrics.ResultWarning)
	case StageErrorCanceled:
		sc.Canceled++
		r.Errors = append(r.Errors, se)
		recorder.IncStageResult(string(stage), metrics.ResultCanceled)
	default:
		sc.Fatal++
		r.Errors = append(r.Errors, se)
		recorder.IncStageResult(string(stage), metrics.ResultFatal)
	}
	r.StageCounts[stage] = sc
}

// deriveOutcome computes the overall outcome from recorded stage classifications.
func (r *BuildReport) deriveOutcome() {
	outcome := OutcomeSuccess
	for _, kind := range r.StageErrorKinds {
		switch kind {
		case StageErrorCanceled:
			r.Outcome = OutcomeCanceled
			return
		case StageErrorFatal:
			outcome = OutcomeFailed
		case StageErrorWarning:
			if outcome == OutcomeSuccess {
				outcome = OutcomeWarning
			}
		}
	}
	r.Outcome = outcome
}

func (r *BuildReport) finish() {
	if r.End.IsZero() {
		r.End = time.Now()
	}
}

// buildReportSerializable is the JSON shape written to disk.
type buildReportSerializable struct {
	SchemaVersion     int                      `json:"schema_version"`
	BuildID           string                   `json:"build_id"`
	Theme             string                   `json:"theme"`
	Renderer          string                   `json:"renderer"`
	RendererVersion   string                   `json:"renderer_version,omitempty"`
	TemplatesRendered int                      `json:"templates_rendered"`
	TemplatesSkipped  int                      `json:"templates_skipped"`
	UnresolvedVars    []string                 `json:"unresolved_vars,omitempty"`
	Start             time.Time                `json:"start"`
	End               time.Time                `json:"end"`
	Errors            []string                 `json:"errors"`
	Warnings          []string                 `json:"warnings"`
	StageDurations    map[string]time.Duration `json:"stage_durations"`
	StageErrorKinds   map[string]string        `json:"stage_error_kinds"`
	StageCounts       map[string]StageCount    `json:"stage_counts"`
	Outcome           string                   `json:"outcome"`
}

// Serializable converts the report into its JSON-friendly form.
func (r *BuildReport) Serializable() buildReportSerializable {
	s := buildReportSerializable{
		SchemaVersion:     r.SchemaVersion,
		BuildID:           r.BuildID,
		Theme:             r.Theme,
		Renderer:          r.Renderer,
		RendererVersion:   r.RendererVersion,
		TemplatesRendered: r.TemplatesRendered,
		TemplatesSkipped:  r.TemplatesSkipped,
		UnresolvedVars:    r.UnresolvedVars,
		Start:             r.Start,
		End:               r.End,
		Errors:            []string{},
		Warnings:          []string{},
		StageDurations:    r.StageDurations,
		StageErrorKinds:   map[string]string{},
		StageCounts:       map[string]StageCount{},
		Outcome:           string(r.Outcome),
	}
	for _, e := range r.Errors {
		s.Errors = append(s.Errors, e.Error())
	}
	for _, w := range r.Warnings {
		s.Warnings = append(s.Warnings, w.Error())
	}
	for k, v := range r.StageErrorKinds {
		s.StageErrorKinds[string(k)] = string(v)
	}
	for k, v := range r.StageCounts {
		s.StageCounts[string(k)] = v
	}
	return s
}

// Persist writes the report as build-report.json inside dir (best effort caller side).
func (r *BuildReport) Persist(dir string) error {
	data, err := json.MarshalIndent(r.Serializable(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "build-report.json"), data, 0o644)
}

// Duration returns total build wall time.
func (r *BuildReport) Duration() time.Duration { return r.End.Sub(r.Start) }
