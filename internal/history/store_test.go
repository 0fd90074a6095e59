package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAndRecent(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Append(ctx, Record{
			BuildID:  "build-" + string(rune('a'+i)),
			Started:  base.Add(time.Duration(i) * time.Minute),
			Duration: 250 * time.Millisecond,
			Outcome:  "success",
			Posts:    3,
			Pages:    8,
		}))
	}

	records, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "build-c", records[0].BuildID)
	assert.Equal(t, "build-b", records[1].BuildID)
	assert.Equal(t, 250*time.Millisecond, records[0].Duration)
	assert.True(t, records[0].Started.Equal(base.Add(2*time.Minute)))
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".blogbuilder", "history.db")

	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	records, err := store.Recent(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRecentFailedBuildCarriesError(t *testing.T) {
	store, err := Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Append(ctx, Record{
		BuildID: "b1",
		Started: time.Now(),
		Outcome: "failed",
		Error:   "malformed post: posts/x/post.md",
	}))

	records, err := store.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "failed", records[0].Outcome)
	assert.Contains(t, records[0].Error, "malformed post")
}
