package analytics

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRecorder(t *testing.T) *SQLiteRecorder {
	t.Helper()
	rec, err := NewSQLite(filepath.Join(t.TempDir(), "analytics.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = rec.Close() })
	require.NoError(t, rec.Migrate(context.Background()))
	return rec
}

func TestSQLiteRecorder_RecordAndSnapshot(t *testing.T) {
	rec := newTestRecorder(t)
	ctx := context.Background()

	require.NoError(t, rec.Record(ctx, 42, FieldMessagesReceived, 1))
	require.NoError(t, rec.Record(ctx, 42, FieldMessagesReceived, 1))
	require.NoError(t, rec.Record(ctx, 42, FieldMessagesReplied, 1))
	require.NoError(t, rec.Record(ctx, 99, FieldMessagesReceived, 1))

	snap, err := rec.Snapshot(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(2), snap[FieldMessagesReceived])
	assert.Equal(t, int64(1), snap[FieldMessagesReplied])

	other, err := rec.Snapshot(ctx, 99)
	require.NoError(t, err)
	assert.Equal(t, int64(1), other[FieldMessagesReceived])
}

func TestSQLiteRecorder_DayBoundary(t *testing.T) {
	rec := newTestRecorder(t)
	ctx := context.Background()

	day := time.Date(2026, 8, 27, 23, 0, 0, 0, time.UTC)
	rec.now = func() time.Time { return day }
	require.NoError(t, rec.Record(ctx, 42, FieldMessagesReceived, 5))

	rec.now = func() time.Time { return day.Add(2 * time.Hour) }
	require.NoError(t, rec.Record(ctx, 42, FieldMessagesReceived, 1))

	snap, err := rec.Snapshot(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(1), snap[FieldMessagesReceived], "counters reset at UTC midnight")
}

func TestSQLiteRecorder_ConcurrentIncrements(t *testing.T) {
	rec := newTestRecorder(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, rec.Record(ctx, 7, FieldMessagesReceived, 1))
		}()
	}
	wg.Wait()

	snap, err := rec.Snapshot(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(20), snap[FieldMessagesReceived])
}

func TestDispatch_NilRecorderAndZeroLicense(t *testing.T) {
	// Must not panic.
	Dispatch(nil, 42, FieldMessagesReceived, 1)
	Dispatch(Noop{}, 0, FieldMessagesReceived, 1)
}

func TestNoop(t *testing.T) {
	assert.NoError(t, Noop{}.Record(context.Background(), 1, "x", 1))
	assert.NoError(t, Noop{}.Close())
}
