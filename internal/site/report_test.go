package site

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportOutcomeDerivation(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		r := newBuildReport("b1")
		r.finish()
		assert.Equal(t, OutcomeSuccess, r.Outcome)
	})

	t.Run("warning", func(t *testing.T) {
		r := newBuildReport("b2")
		r.Warnings = append(r.Warnings, newWarnStageError("s", errors.New("w")))
		r.finish()
		assert.Equal(t, OutcomeWarning, r.Outcome)
	})

	t.Run("failed", func(t *testing.T) {
		r := newBuildReport("b3")
		r.recordError("s", newFatalStageError("s", errors.New("f")))
		r.finish()
		assert.Equal(t, OutcomeFailed, r.Outcome)
		assert.Contains(t, r.FirstError(), "f")
	})

	t.Run("canceled", func(t *testing.T) {
		r := newBuildReport("b4")
		r.recordError("s", newCanceledStageError("s", errors.New("ctx")))
		r.finish()
		assert.Equal(t, OutcomeCanceled, r.Outcome)
	})
}

func TestReportPersist(t *testing.T) {
	dir := t.TempDir()

	r := newBuildReport("build-42")
	r.Posts = 3
	r.Pages = 7
	r.Assets = 2
	r.StageDurations[StageRenderPosts] = 1500000
	r.finish()

	require.NoError(t, r.Persist(dir))

	data, err := os.ReadFile(filepath.Join(dir, "last-build.json"))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "build-42", got["build_id"])
	assert.Equal(t, float64(3), got["posts"])
	assert.Equal(t, float64(7), got["pages"])
	assert.Equal(t, string(OutcomeSuccess), got["outcome"])
}
