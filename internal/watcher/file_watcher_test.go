package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for FileWatcher:
// - New fails for a missing root
// - rapid changes to several files arrive as one sorted, deduplicated batch
// - deletions and renames are reported
// - only stylesheet extensions are reported, ignoring case
// - ignored directories are never watched
// - directories created after start are watched
// - Pause holds batches back and Resume delivers them
// - Stop is idempotent and safe to call concurrently; context cancellation
//   ends the event loop

const testDebounce = 100 * time.Millisecond

// recorder collects callback batches.
type recorder struct {
	mu      sync.Mutex
	batches [][]string
	called  chan struct{}
}

func newRecorder() *recorder {
	return &recorder{called: make(chan struct{}, 16)}
}

func (r *recorder) callback(files []string) {
	r.mu.Lock()
	r.batches = append(r.batches, files)
	r.mu.Unlock()
	r.called <- struct{}{}
}

func (r *recorder) wait(t *testing.T) {
	t.Helper()
	select {
	case <-r.called:
	case <-time.After(3 * time.Second):
		t.Fatal("callback not called before timeout")
	}
}

func (r *recorder) files() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, b := range r.batches {
		out = append(out, b...)
	}
	return out
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.batches)
}

func startWatcher(t *testing.T, root string, opts ...Option) (FileWatcher, *recorder) {
	t.Helper()
	w, err := New(root, append([]Option{WithDebounce(testDebounce)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	rec := newRecorder()
	require.NoError(t, w.Start(context.Background(), rec.callback))
	time.Sleep(50 * time.Millisecond)
	return w, rec
}

func write(t *testing.T, path, text string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(text), 0644))
}

func TestNew_MissingRoot(t *testing.T) {
	t.Parallel()

	w, err := New(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
	assert.Nil(t, w)
}

func TestFileWatcher_Batch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, rec := startWatcher(t, dir)

	b := filepath.Join(dir, "b.scss")
	a := filepath.Join(dir, "a.scss")
	write(t, b, "$b: 1;")
	write(t, a, "$a: 1;")
	write(t, b, "$b: 2;")

	rec.wait(t)
	time.Sleep(3 * testDebounce)

	assert.Equal(t, 1, rec.count(), "rapid changes coalesce into one batch")
	assert.Equal(t, []string{a, b}, rec.files())
}

func TestFileWatcher_RemoveAndRename(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	gone := filepath.Join(dir, "gone.scss")
	old := filepath.Join(dir, "old.scss")
	write(t, gone, "")
	write(t, old, "")

	_, rec := startWatcher(t, dir)

	renamed := filepath.Join(dir, "new.scss")
	require.NoError(t, os.Remove(gone))
	require.NoError(t, os.Rename(old, renamed))

	rec.wait(t)
	time.Sleep(3 * testDebounce)

	files := rec.files()
	assert.Contains(t, files, gone)
	assert.Contains(t, files, old)
	assert.Contains(t, files, renamed)
}

func TestFileWatcher_Filtering(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "node_modules", "pkg"), 0755))

	_, rec := startWatcher(t, dir, WithIgnore(func(path string) bool {
		return strings.Contains(filepath.ToSlash(path), "/node_modules")
	}))

	upper := filepath.Join(dir, "THEME.SCSS")
	write(t, filepath.Join(dir, "node_modules", "pkg", "index.scss"), "")
	write(t, filepath.Join(dir, "notes.css"), "")
	write(t, upper, "")

	rec.wait(t)
	time.Sleep(3 * testDebounce)
	assert.Equal(t, []string{upper}, rec.files())
}

func TestFileWatcher_Extensions(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, rec := startWatcher(t, dir, WithExtensions(".scss", ".sass"))

	sass := filepath.Join(dir, "x.sass")
	write(t, sass, "")
	write(t, filepath.Join(dir, "x.css"), "")

	rec.wait(t)
	time.Sleep(3 * testDebounce)
	assert.Equal(t, []string{sass}, rec.files())
}

func TestFileWatcher_NewDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, rec := startWatcher(t, dir)

	sub := filepath.Join(dir, "components")
	require.NoError(t, os.Mkdir(sub, 0755))
	time.Sleep(200 * time.Millisecond)

	file := filepath.Join(sub, "_button.scss")
	write(t, file, "")

	rec.wait(t)
	assert.Contains(t, rec.files(), file)
}

func TestFileWatcher_PauseResume(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w, rec := startWatcher(t, dir)

	w.Pause()
	file := filepath.Join(dir, "paused.scss")
	write(t, file, "")

	time.Sleep(5 * testDebounce)
	assert.Zero(t, rec.count(), "no batches while paused")

	w.Resume()
	rec.wait(t)
	assert.Equal(t, []string{file}, rec.files())
}

func TestFileWatcher_Stop(t *testing.T) {
	t.Parallel()

	t.Run("idempotent", func(t *testing.T) {
		t.Parallel()
		w, _ := startWatcher(t, t.TempDir())
		require.NoError(t, w.Stop())
		require.NoError(t, w.Stop())
	})

	t.Run("never started", func(t *testing.T) {
		t.Parallel()
		w, err := New(t.TempDir())
		require.NoError(t, err)
		require.NoError(t, w.Stop())
	})

	t.Run("concurrent", func(t *testing.T) {
		t.Parallel()
		w, _ := startWatcher(t, t.TempDir())

		var wg sync.WaitGroup
		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = w.Stop()
			}()
		}
		wg.Wait()
	})

	t.Run("context canceled", func(t *testing.T) {
		t.Parallel()
		w, err := New(t.TempDir())
		require.NoError(t, err)
		defer w.Stop()

		ctx, cancel := context.WithCancel(context.Background())
		require.NoError(t, w.Start(ctx, func([]string) {}))
		cancel()

		select {
		case <-w.(*fileWatcher).doneCh:
		case <-time.After(time.Second):
			t.Fatal("event loop still running after cancel")
		}
	})
}
