package site

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
)

func newTestState(t *testing.T) *BuildState {
	t.Helper()
	return &BuildState{
		Report:   newBuildReport("test-build"),
		Recorder: metrics.NoopRecorder{},
	}
}

func TestRunStagesExecutesInOrder(t *testing.T) {
	var order []StageName
	mk := func(name StageName) Stage {
		return func(context.Context, *BuildState) error {
			order = append(order, name)
			return nil
		}
	}

	bs := newTestState(t)
	stages := NewPipeline().
		Add("first", mk("first")).
		Add("second", mk("second")).
		Add("third", mk("third")).
		Build()

	require.NoError(t, runStages(context.Background(), bs, stages))
	assert.Equal(t, []StageName{"first", "second", "third"}, order)
	assert.Len(t, bs.Report.StageDurations, 3)
}

func TestRunStagesWarningContinues(t *testing.T) {
	ran := false
	bs := newTestState(t)
	stages := NewPipeline().
		Add("warn", func(context.Context, *BuildState) error {
			return newWarnStageError("warn", errors.New("minor issue"))
		}).
		Add("after", func(context.Context, *BuildState) error {
			ran = true
			return nil
		}).
		Build()

	require.NoError(t, runStages(context.Background(), bs, stages))
	assert.True(t, ran, "stages after a warning should still run")
	assert.Len(t, bs.Report.Warnings, 1)
	assert.Empty(t, bs.Report.Errors)
}

func TestRunStagesFatalAborts(t *testing.T) {
	ran := false
	bs := newTestState(t)
	stages := NewPipeline().
		Add("boom", func(context.Context, *BuildState) error {
			return newFatalStageError("boom", errors.New("broken"))
		}).
		Add("after", func(context.Context, *BuildState) error {
			ran = true
			return nil
		}).
		Build()

	err := runStages(context.Background(), bs, stages)
	require.Error(t, err)
	assert.False(t, ran, "stages after a fatal error must not run")

	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StageErrorFatal, se.Kind)
	assert.Equal(t, StageName("boom"), se.Stage)
}

func TestRunStagesWrapsPlainErrorsAsFatal(t *testing.T) {
	bs := newTestState(t)
	stages := NewPipeline().
		Add("plain", func(context.Context, *BuildState) error {
			return errors.New("unstructured")
		}).
		Build()

	err := runStages(context.Background(), bs, stages)
	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StageErrorFatal, se.Kind)
}

func TestRunStagesCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	bs := newTestState(t)
	stages := NewPipeline().
		Add("never", func(context.Context, *BuildState) error {
			t.Fatal("stage must not run after cancellation")
			return nil
		}).
		Build()

	err := runStages(ctx, bs, stages)
	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StageErrorCanceled, se.Kind)
}
