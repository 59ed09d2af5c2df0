package state

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestFingerprint_Lifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	fp, err := store.Fingerprint(ctx, "index.md")
	require.NoError(t, err)
	assert.Empty(t, fp, "unknown page has no fingerprint")

	require.NoError(t, store.SetFingerprint(ctx, "index.md", "abc123"))

	fp, err = store.Fingerprint(ctx, "index.md")
	require.NoError(t, err)
	assert.Equal(t, "abc123", fp)

	// Upsert replaces the stored value.
	require.NoError(t, store.SetFingerprint(ctx, "index.md", "def456"))
	fp, err = store.Fingerprint(ctx, "index.md")
	require.NoError(t, err)
	assert.Equal(t, "def456", fp)
}

func TestPruneFingerprints(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetFingerprint(ctx, "index.md", "a"))
	require.NoError(t, store.SetFingerprint(ctx, "removed.md", "b"))
	require.NoError(t, store.SetFingerprint(ctx, "api/guide.md", "c"))

	require.NoError(t, store.PruneFingerprints(ctx, []string{"index.md", "api/guide.md"}))

	fp, err := store.Fingerprint(ctx, "removed.md")
	require.NoError(t, err)
	assert.Empty(t, fp)

	fp, err = store.Fingerprint(ctx, "index.md")
	require.NoError(t, err)
	assert.Equal(t, "a", fp)
}

func TestBuildEvents_AppendAndQuery(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AppendEvent(ctx, "build-1", "build.started", nil, nil))
	require.NoError(t, store.AppendEvent(ctx, "build-1", "page.rendered",
		[]byte(`{"page":"index.md"}`), map[string]string{"page": "index.md"}))
	require.NoError(t, store.AppendEvent(ctx, "build-2", "build.started", nil, nil))

	events, err := store.EventsByBuildID(ctx, "build-1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "build.started", events[0].EventType)
	assert.Equal(t, "page.rendered", events[1].EventType)
	assert.Equal(t, "index.md", events[1].Metadata["page"])

	all, err := store.EventsInRange(ctx, time.Now().Add(-time.Minute), time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
