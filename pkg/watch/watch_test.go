package watch_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/langpack/pkg/watch"
)

type recorder struct {
	mu      sync.Mutex
	batches [][]string
	err     error
}

func (r *recorder) callback(_ context.Context, paths []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, paths)
	return r.err
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.batches)
}

func (r *recorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, batch := range r.batches {
		out = append(out, batch...)
	}
	return out
}

func startWatcher(t *testing.T, rec *recorder, roots ...string) *watch.Watcher {
	t.Helper()
	w, err := watch.New(rec.callback, watch.WithDebounce(50*time.Millisecond))
	require.NoError(t, err)
	for _, root := range roots {
		require.NoError(t, w.Add(root))
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	w.Start(ctx)
	t.Cleanup(w.Stop)
	return w
}

func waitFor(t *testing.T, rec *recorder, path string) {
	t.Helper()
	require.Eventually(t, func() bool {
		return slices.Contains(rec.all(), path)
	}, 3*time.Second, 20*time.Millisecond, "change for %s was never reported", path)
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("requires callback", func(t *testing.T) {
		t.Parallel()
		_, err := watch.New(nil)
		require.ErrorIs(t, err, watch.ErrNilCallback)
	})

	t.Run("rejects bad debounce", func(t *testing.T) {
		t.Parallel()
		require.Panics(t, func() { watch.WithDebounce(0) })
	})
}

func TestWatcherReportsWrites(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rec := &recorder{}
	startWatcher(t, rec, dir)

	path := filepath.Join(dir, "app.js")
	require.NoError(t, os.WriteFile(path, []byte(`__("Hello world")`), 0o644))

	waitFor(t, rec, path)
}

func TestWatcherCoalescesBursts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rec := &recorder{}
	startWatcher(t, rec, dir)

	paths := []string{
		filepath.Join(dir, "a.js"),
		filepath.Join(dir, "b.js"),
		filepath.Join(dir, "c.js"),
	}
	for _, path := range paths {
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}

	for _, path := range paths {
		waitFor(t, rec, path)
	}
	assert.Equal(t, 1, rec.count(), "burst should settle into one change set")
}

func TestWatcherIgnoresEditorTempFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rec := &recorder{}
	startWatcher(t, rec, dir)

	for _, name := range []string{"app.js.swp", "app.js~", "upload.tmp"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	control := filepath.Join(dir, "app.js")
	require.NoError(t, os.WriteFile(control, []byte("x"), 0o644))

	waitFor(t, rec, control)
	require.Equal(t, []string{control}, rec.all())
}

func TestWatcherNewDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rec := &recorder{}
	w := startWatcher(t, rec, dir)

	sub := filepath.Join(dir, "components")
	require.NoError(t, os.Mkdir(sub, 0o755))
	require.Eventually(t, func() bool {
		return slices.Contains(w.WatchList(), sub)
	}, 3*time.Second, 20*time.Millisecond, "new directory was never watched")

	inner := filepath.Join(sub, "button.js")
	require.NoError(t, os.WriteFile(inner, []byte(`__("Click")`), 0o644))

	waitFor(t, rec, inner)
}

func TestWatcherSkipsHiddenAndVendorDirs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{".git", "node_modules", "src"} {
		require.NoError(t, os.Mkdir(filepath.Join(dir, name), 0o755))
	}

	rec := &recorder{}
	w := startWatcher(t, rec, dir)

	list := w.WatchList()
	require.Contains(t, list, filepath.Join(dir, "src"))
	require.NotContains(t, list, filepath.Join(dir, ".git"))
	require.NotContains(t, list, filepath.Join(dir, "node_modules"))
}

func TestWatcherCallbackErrorKeepsWatching(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rec := &recorder{err: errors.New("rebuild exploded")}
	startWatcher(t, rec, dir)

	first := filepath.Join(dir, "first.js")
	require.NoError(t, os.WriteFile(first, []byte("x"), 0o644))
	waitFor(t, rec, first)

	second := filepath.Join(dir, "second.js")
	require.NoError(t, os.WriteFile(second, []byte("x"), 0o644))
	waitFor(t, rec, second)
}

func TestWatcherStop(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rec := &recorder{}
	w, err := watch.New(rec.callback, watch.WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, w.Add(dir))

	w.Start(context.Background())
	w.Stop()
	w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "late.js"), []byte("x"), 0o644))
	time.Sleep(100 * time.Millisecond)
	require.Zero(t, rec.count())
}
