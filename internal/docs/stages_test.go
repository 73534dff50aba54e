package docs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docstage/docstage/internal/config"
	"github.com/docstage/docstage/internal/metrics"
)

func newTestState() *BuildState {
	g := NewGenerator(&config.Config{}, "out")
	return newBuildState(g, newBuildReport("alabaster", "sphinx-build"))
}

func TestRunStagesWarningContinues(t *testing.T) {
	bs := newTestState()
	var order []StageName

	stages := []StageDef{
		{StagePrepareOutput, func(_ context.Context, _ *BuildState) error {
			order = append(order, StagePrepareOutput)
			return newWarnStageError(StagePrepareOutput, errors.New("minor"))
		}},
		{StageTemplates, func(_ context.Context, _ *BuildState) error {
			order = append(order, StageTemplates)
			return nil
		}},
	}

	err := runStages(context.Background(), bs, stages)
	require.NoError(t, err)
	assert.Equal(t, []StageName{StagePrepareOutput, StageTemplates}, order)
	assert.Equal(t, StageErrorWarning, bs.Report.StageErrorKinds[StagePrepareOutput])
	assert.Len(t, bs.Report.Warnings, 1)
}

func TestRunStagesFatalStops(t *testing.T) {
	bs := newTestState()
	ran := false

	stages := []StageDef{
		{StageResolveTheme, func(_ context.Context, _ *BuildState) error {
			return newFatalStageError(StageResolveTheme, errors.New("no such theme"))
		}},
		{StageTemplates, func(_ context.Context, _ *BuildState) error {
			ran = true
			return nil
		}},
	}

	err := runStages(context.Background(), bs, stages)
	require.Error(t, err)
	assert.False(t, ran, "stages after a fatal error must not run")

	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StageErrorFatal, se.Kind)
	assert.Equal(t, StageResolveTheme, se.Stage)
}

func TestRunStagesWrapsPlainErrors(t *testing.T) {
	bs := newTestState()
	stages := []StageDef{
		{StageRunRenderer, func(_ context.Context, _ *BuildState) error {
			return errors.New("plain failure")
		}},
	}

	err := runStages(context.Background(), bs, stages)
	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StageErrorFatal, se.Kind)
	assert.Equal(t, StageRunRenderer, se.Stage)
}

func TestRunStagesRecordsDurations(t *testing.T) {
	bs := newTestState()
	stages := []StageDef{
		{StagePrepareOutput, func(_ context.Context, _ *BuildState) error {
			time.Sleep(time.Millisecond)
			return nil
		}},
	}
	require.NoError(t, runStages(context.Background(), bs, stages))
	assert.Greater(t, bs.Report.StageDurations[string(StagePrepareOutput)], time.Duration(0))
}

func TestRunStagesCanceledBeforeStage(t *testing.T) {
	bs := newTestState()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stages := []StageDef{
		{StagePrepareOutput, func(_ context.Context, _ *BuildState) error { return nil }},
	}
	err := runStages(ctx, bs, stages)
	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StageErrorCanceled, se.Kind)
}

func TestDeriveOutcome(t *testing.T) {
	tests := []struct {
		name  string
		kinds map[StageName]StageErrorKind
		want  BuildOutcome
	}{
		{"clean", nil, OutcomeSuccess},
		{"warning only", map[StageName]StageErrorKind{StageTemplates: StageErrorWarning}, OutcomeWarning},
		{"fatal wins over warning", map[StageName]StageErrorKind{
			StageTemplates:   StageErrorWarning,
			StageRunRenderer: StageErrorFatal,
		}, OutcomeFailed},
		{"canceled wins over fatal", map[StageName]StageErrorKind{
			StageRunRenderer: StageErrorFatal,
			StagePostProcess: StageErrorCanceled,
		}, OutcomeCanceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newBuildReport("alabaster", "sphinx-build")
			for k, v := range tt.kinds {
				r.StageErrorKinds[k] = v
			}
			r.deriveOutcome()
			assert.Equal(t, tt.want, r.Outcome)
		})
	}
}

func TestReportSerializableRoundsErrors(t *testing.T) {
	r := newBuildReport("rtd", "sphinx-build")
	r.recordStageError(StageRunRenderer,
		newFatalStageError(StageRunRenderer, errors.New("exit status 2")), metrics.NoopRecorder{})
	r.deriveOutcome()
	r.finish()

	s := r.Serializable()
	assert.Equal(t, "failed", s.Outcome)
	require.Len(t, s.Errors, 1)
	assert.Contains(t, s.Errors[0], "exit status 2")
	assert.Equal(t, "fatal", s.StageErrorKinds[string(StageRunRenderer)])
	assert.NotEmpty(t, s.BuildID)
}
