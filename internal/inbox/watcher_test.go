package inbox

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func waitResult(t *testing.T, w *Watcher) Result {
	t.Helper()
	select {
	case r := <-w.Events():
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watcher event")
		return Result{}
	}
}

func TestWatcher_ImportsNewFiles(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := filepath.Join(t.TempDir(), "inbox")
	saver := newMemSaver()
	w, err := NewWatcher(dir, NewImporter(saver), 50*time.Millisecond)
	require.NoError(t, err)

	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	path := filepath.Join(dir, "live.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"words": [{"word": "음", "count": 3}]}`), 0644))

	r := waitResult(t, w)
	require.NoError(t, r.Err)
	assert.Equal(t, path, r.Path)
	assert.Equal(t, 3, r.Session.TotalFillers)
	assert.Equal(t, 1, saver.count())

	// Unsupported files never produce events.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{"), 0644))

	r = waitResult(t, w)
	assert.Error(t, r.Err)
	assert.Equal(t, filepath.Join(dir, "bad.json"), r.Path)

	stats := w.Stats()
	assert.Equal(t, 1, stats.Imported)
	assert.Equal(t, 1, stats.Failed)
}

func TestWatcher_StopWithoutStart(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, err := NewWatcher(t.TempDir(), NewImporter(nil), 0)
	require.NoError(t, err)
	w.Stop()
}

func TestWatcher_ContextCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	w, err := NewWatcher(t.TempDir(), NewImporter(nil), 20*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, w.Start(ctx))

	cancel()
	w.Stop()
}
