// Package resource loads panel resources from a directory on disk.
// Markdown files are rendered for the terminal; everything else is
// returned verbatim. Results are cached until the file changes or the
// cache entry expires.
package resource

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/glamour"
	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"panelshell/internal/panel"
)

var (
	// ErrNotFound is returned when no file backs the requested id.
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidID is returned for ids that escape the resource root.
	ErrInvalidID = errors.New("invalid resource id")
)

const (
	DefaultCacheTTL      = 5 * time.Minute
	DefaultMarkdownWidth = 80
	DefaultStyle         = "dark"
)

// Options configures a Loader.
type Options struct {
	Dir           string
	CacheTTL      time.Duration
	MarkdownWidth int
	// Style is a glamour standard style name ("dark", "light", "notty").
	Style  string
	Logger zerolog.Logger
}

// Loader resolves resource ids to files under a root directory.
type Loader struct {
	root  string
	width int
	style string
	cache *gocache.Cache
	log   zerolog.Logger

	mu       sync.Mutex
	renderer *glamour.TermRenderer
}

var _ panel.ResourceLoader = (*Loader)(nil)

// New creates a Loader. Zero option values take package defaults.
func New(opts Options) *Loader {
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	width := opts.MarkdownWidth
	if width <= 0 {
		width = DefaultMarkdownWidth
	}
	style := opts.Style
	if style == "" {
		style = DefaultStyle
	}
	return &Loader{
		root:  opts.Dir,
		width: width,
		style: style,
		cache: gocache.New(ttl, 2*ttl),
		log:   opts.Logger.With().Str("component", "resource").Logger(),
	}
}

// Root returns the directory resources are read from.
func (l *Loader) Root() string { return l.root }

// Load returns the rendered content for id.
func (l *Loader) Load(id string) (string, error) {
	if v, ok := l.cache.Get(id); ok {
		if s, ok := v.(string); ok {
			l.log.Debug().Str("id", id).Msg("cache hit")
			return s, nil
		}
	}

	path, err := l.path(id)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", id, ErrNotFound)
		}
		return "", fmt.Errorf("reading resource %s: %w", id, err)
	}

	out := string(data)
	if isMarkdown(path) {
		out, err = l.renderMarkdown(out)
		if err != nil {
			return "", fmt.Errorf("rendering %s: %w", id, err)
		}
	}
	l.cache.SetDefault(id, out)
	l.log.Debug().Str("id", id).Int("bytes", len(data)).Msg("resource loaded")
	return out, nil
}

// Invalidate drops the cached content for id.
func (l *Loader) Invalidate(id string) {
	l.cache.Delete(id)
}

// Flush drops every cached entry.
func (l *Loader) Flush() {
	l.cache.Flush()
}

// Cached reports how many entries are cached.
func (l *Loader) Cached() int {
	return l.cache.ItemCount()
}

func (l *Loader) path(id string) (string, error) {
	if id == "" || filepath.IsAbs(id) {
		return "", fmt.Errorf("%q: %w", id, ErrInvalidID)
	}
	clean := filepath.Clean(filepath.FromSlash(id))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%q: %w", id, ErrInvalidID)
	}
	return filepath.Join(l.root, clean), nil
}

// id maps a path under root back to its resource id.
func (l *Loader) id(path string) (string, bool) {
	rel, err := filepath.Rel(l.root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func (l *Loader) renderMarkdown(src string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.renderer == nil {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(l.style),
			glamour.WithWordWrap(l.width),
		)
		if err != nil {
			return "", err
		}
		l.renderer = r
	}
	out, err := l.renderer.Render(src)
	if err != nil {
		return "", err
	}
	return strings.Trim(out, "\n"), nil
}

func isMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}
