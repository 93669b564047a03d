package resource

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestLoader(t *testing.T) (*Loader, string) {
	t.Helper()
	dir := t.TempDir()
	return New(Options{Dir: dir, Style: "notty", MarkdownWidth: 40}), dir
}

func write(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoad_PlainFileVerbatim(t *testing.T) {
	l, dir := newTestLoader(t)
	write(t, dir, "motd.txt", "  keep   spacing\n")

	out, err := l.Load("motd.txt")
	require.NoError(t, err)
	require.Equal(t, "  keep   spacing\n", out)
}

func TestLoad_MarkdownRendered(t *testing.T) {
	l, dir := newTestLoader(t)
	write(t, dir, "docs/notes.md", "# Title\n\nSome **bold** words.\n")

	out, err := l.Load("docs/notes.md")
	require.NoError(t, err)
	require.Contains(t, out, "Title")
	require.Contains(t, out, "bold")
}

func TestLoad_NotFound(t *testing.T) {
	l, _ := newTestLoader(t)
	_, err := l.Load("missing.md")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLoad_InvalidID(t *testing.T) {
	l, _ := newTestLoader(t)
	for _, id := range []string{"", "../etc/passwd", "/etc/passwd", "a/../../b"} {
		_, err := l.Load(id)
		require.ErrorIs(t, err, ErrInvalidID, id)
	}
}

func TestLoad_Cached(t *testing.T) {
	l, dir := newTestLoader(t)
	write(t, dir, "a.txt", "one")

	out, err := l.Load("a.txt")
	require.NoError(t, err)
	require.Equal(t, "one", out)
	require.Equal(t, 1, l.Cached())

	write(t, dir, "a.txt", "two")
	out, err = l.Load("a.txt")
	require.NoError(t, err)
	require.Equal(t, "one", out, "served from cache until invalidated")

	l.Invalidate("a.txt")
	out, err = l.Load("a.txt")
	require.NoError(t, err)
	require.Equal(t, "two", out)

	l.Flush()
	require.Equal(t, 0, l.Cached())
}

func TestLoad_CacheExpires(t *testing.T) {
	dir := t.TempDir()
	l := New(Options{Dir: dir, CacheTTL: 20 * time.Millisecond})
	write(t, dir, "a.txt", "one")

	_, err := l.Load("a.txt")
	require.NoError(t, err)
	write(t, dir, "a.txt", "two")

	require.Eventually(t, func() bool {
		out, err := l.Load("a.txt")
		return err == nil && out == "two"
	}, time.Second, 10*time.Millisecond)
}

func TestWatch_InvalidatesAndNotifies(t *testing.T) {
	l, dir := newTestLoader(t)
	write(t, dir, "a.txt", "one")
	_, err := l.Load("a.txt")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	changed := make(chan []string, 4)
	done := make(chan error, 1)
	go func() {
		done <- l.Watch(ctx, 20*time.Millisecond, func(ids []string) { changed <- ids })
	}()

	// Give the watcher time to register the directory.
	time.Sleep(50 * time.Millisecond)
	write(t, dir, "a.txt", "two")

	select {
	case ids := <-changed:
		require.Contains(t, ids, "a.txt")
	case <-time.After(2 * time.Second):
		t.Fatal("no change notification")
	}

	out, err := l.Load("a.txt")
	require.NoError(t, err)
	require.Equal(t, "two", out)

	cancel()
	require.NoError(t, <-done)
}

func TestWatch_MissingRoot(t *testing.T) {
	l := New(Options{Dir: filepath.Join(t.TempDir(), "nope")})
	err := l.Watch(context.Background(), 0, nil)
	require.Error(t, err)
}
