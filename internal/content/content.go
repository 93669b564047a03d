// Package content produces what a panel displays: literal text, a
// resource from the shared loader, or the output of a command.
package content

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"panelshell/internal/config"
	"panelshell/internal/panel"
	"panelshell/internal/pty"
)

// Content is rendered inside a panel. Refresh may block and runs off the
// UI goroutine; Render must be cheap.
type Content interface {
	Render(width int) string
	Refresh(ctx context.Context) error
}

// LoaderAware content receives the manager's resource loader.
type LoaderAware interface {
	SetLoader(l panel.ResourceLoader)
}

// Sized content is told the size of the area it renders into.
type Sized interface {
	SetSize(width, height int)
}

// Factory builds content for a configured panel.
type Factory func(cfg config.PanelConfig, l panel.ResourceLoader) (Content, error)

var _ Factory = FromConfig

// FromConfig builds content for cfg. Resource content picks up the loader
// later through LoaderAware when l is nil.
func FromConfig(cfg config.PanelConfig, l panel.ResourceLoader) (Content, error) {
	c := cfg.Content
	switch c.Type {
	case "", config.ContentText:
		return NewStatic(c.Text), nil
	case config.ContentResource:
		r := NewResource(c.Resource)
		if l != nil {
			r.SetLoader(l)
		}
		return r, nil
	case config.ContentCommand:
		return NewCommand(c.Command, c.Timeout, nil), nil
	default:
		return nil, fmt.Errorf("panel %q: unknown content type %q", cfg.Name, c.Type)
	}
}

// Static is literal text, word wrapped to the panel width.
type Static struct {
	text string
}

func NewStatic(text string) *Static { return &Static{text: text} }

func (s *Static) Render(width int) string {
	if width <= 0 {
		return s.text
	}
	return wordwrap.String(s.text, width)
}

func (s *Static) Refresh(context.Context) error { return nil }

// Resource shows a resource id resolved through the shared loader.
// Load errors are rendered in place of the content.
type Resource struct {
	id string

	mu     sync.Mutex
	loader panel.ResourceLoader
	text   string
	err    error
	loaded bool
}

func NewResource(id string) *Resource { return &Resource{id: id} }

// ID returns the resource id.
func (r *Resource) ID() string { return r.id }

func (r *Resource) SetLoader(l panel.ResourceLoader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loader = l
}

func (r *Resource) Refresh(context.Context) error {
	r.mu.Lock()
	l := r.loader
	r.mu.Unlock()
	if l == nil {
		return r.set("", fmt.Errorf("%s: no resource loader", r.id))
	}
	text, err := l.Load(r.id)
	return r.set(text, err)
}

func (r *Resource) set(text string, err error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.text, r.err, r.loaded = text, err, true
	return err
}

func (r *Resource) Render(width int) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch {
	case !r.loaded:
		return "loading " + r.id + "…"
	case r.err != nil:
		return errorLine(r.err, width)
	}
	return clip(r.text, width)
}

// DefaultCommandTimeout bounds commands configured without a timeout.
const DefaultCommandTimeout = 10 * time.Second

// OutputLimit caps captured command output.
const OutputLimit = 256 << 10

// Command runs a shell command in a pty sized to the panel and shows its
// output, colours included.
type Command struct {
	command string
	timeout time.Duration
	runner  pty.Runner

	mu            sync.Mutex
	width, height int
	output        string
	err           error
	ran           bool
}

// NewCommand creates command content. A nil runner uses creack/pty.
func NewCommand(command string, timeout time.Duration, runner pty.Runner) *Command {
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	if runner == nil {
		runner = pty.System{}
	}
	return &Command{command: command, timeout: timeout, runner: runner, width: 80, height: 24}
}

func (c *Command) SetSize(width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if width > 0 {
		c.width = width
	}
	if height > 0 {
		c.height = height
	}
}

func (c *Command) Refresh(ctx context.Context) error {
	c.mu.Lock()
	size := pty.Size{Rows: uint16(c.height), Cols: uint16(c.width)}
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	cmd := shellCommand(ctx, c.command)
	out, err := pty.Capture(ctx, c.runner, cmd, size, OutputLimit)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.output = strings.TrimRight(strings.ReplaceAll(string(out), "\r\n", "\n"), "\n")
	c.err = err
	c.ran = true
	return err
}

func (c *Command) Render(width int) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.ran {
		return "running " + c.command + "…"
	}
	out := clip(c.output, width)
	if c.err != nil {
		if out != "" {
			out += "\n"
		}
		out += errorLine(c.err, width)
	}
	return out
}

// clip truncates each line to width cells, keeping ANSI sequences intact.
func clip(s string, width int) string {
	if width <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = truncate.String(line, uint(width))
	}
	return strings.Join(lines, "\n")
}

func errorLine(err error, width int) string {
	msg := "error: " + err.Error()
	if width <= 0 {
		return msg
	}
	return wordwrap.String(msg, width)
}
