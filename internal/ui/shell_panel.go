package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"panelshell/internal/content"
	"panelshell/internal/panel"
	"panelshell/internal/ui/textutil"
)

// RefreshTimeout bounds a single content refresh.
const RefreshTimeout = 30 * time.Second

// Scheduler queues a command to run after the current update.
type Scheduler func(tea.Cmd)

// ContentFunc builds a panel's content the first time it is shown.
type ContentFunc func(loader panel.ResourceLoader) (content.Content, error)

// View is a screen region driven by the shell's update loop. Update
// returns the view so value and pointer implementations both work.
type View interface {
	Init() tea.Cmd
	Update(tea.Msg) (View, tea.Cmd)
	View() string
}

// OverlayPanel is a panel the shell can draw over the home screen.
type OverlayPanel interface {
	panel.Panel
	View
	Title() string
	Key() string
	State() panel.State
	IsShowing() bool
	FinishClose(seq int)
	HandleMouse(msg tea.MouseMsg) bool
}

// PanelOptions configure a ShellPanel.
type PanelOptions struct {
	panel.Options
	Title          string
	Key            string
	CloseAnimation time.Duration
	Content        ContentFunc
}

// ShellPanel is a bordered overlay with a title, a close button and
// scrollable content. A close with animation keeps the panel on screen,
// dimmed, for the close animation before telling the manager it closed.
type ShellPanel struct {
	panel.Base

	title      string
	key        string
	newContent ContentFunc
	content    content.Content
	contentErr error
	vp         viewport.Model

	closeDelay time.Duration
	closeSeq   int
	schedule   Scheduler
}

var _ OverlayPanel = (*ShellPanel)(nil)

// NewShellPanel creates a panel and registers it with m.
func NewShellPanel(m *panel.Manager, schedule Scheduler, opts PanelOptions) *ShellPanel {
	p := &ShellPanel{}
	p.setup(m, p, schedule, opts)
	return p
}

// setup initialises p and registers self, the outermost panel type.
func (p *ShellPanel) setup(m *panel.Manager, self panel.Panel, schedule Scheduler, opts PanelOptions) {
	p.title = opts.Title
	if p.title == "" {
		p.title = opts.Name
	}
	p.key = opts.Key
	p.newContent = opts.Content
	p.closeDelay = opts.CloseAnimation
	p.schedule = schedule
	p.vp = viewport.New(0, 0)
	p.Base.Init(m, self, opts.Options)
}

func (p *ShellPanel) Title() string { return p.title }
func (p *ShellPanel) Key() string   { return p.key }

// Content returns the panel's content, or nil before the first show.
func (p *ShellPanel) Content() content.Content { return p.content }

// Reconfigure replaces title, key and content source. A showing panel
// rebuilds its content immediately.
func (p *ShellPanel) Reconfigure(title, key string, fn ContentFunc) {
	if title != "" {
		p.title = title
	}
	p.key = key
	p.newContent = fn
	p.content = nil
	p.contentErr = nil
	if p.IsShowing() {
		p.refresh()
	}
}

// SetCloseAnimation changes the close animation length.
func (p *ShellPanel) SetCloseAnimation(d time.Duration) { p.closeDelay = d }

func (p *ShellPanel) SetResourceLoader(l panel.ResourceLoader) {
	p.Base.SetResourceLoader(l)
	if la, ok := p.content.(content.LoaderAware); ok {
		la.SetLoader(l)
	}
}

func (p *ShellPanel) OnSizeChanged(width, height int) {
	p.Base.OnSizeChanged(width, height)
	w, h := p.innerSize()
	p.vp.Width, p.vp.Height = w, h
	if s, ok := p.content.(content.Sized); ok {
		s.SetSize(w, h)
	}
}

// Peek shows the panel and refreshes its content.
func (p *ShellPanel) Peek(reason panel.StateChangeReason) {
	p.Base.Peek(reason)
	p.closeSeq++
	p.vp.GotoTop()
	p.refresh()
}

// Close closes the panel, animating when asked and configured. A close
// that arrives while the panel is animating out finishes that close now,
// keeping its original reason.
func (p *ShellPanel) Close(reason panel.StateChangeReason, animate bool) {
	if p.State() == panel.StateClosing {
		p.closeSeq++
		p.OnClosed(p.LastReason())
		return
	}
	if !animate || p.closeDelay <= 0 || p.schedule == nil || !p.IsShowing() {
		p.OnClosed(reason)
		return
	}
	p.BeginClose(reason)
	p.closeSeq++
	seq, name := p.closeSeq, p.Name()
	p.schedule(tea.Tick(p.closeDelay, func(time.Time) tea.Msg {
		return closeAnimationDoneMsg{Name: name, Seq: seq}
	}))
}

// FinishClose ends the close animation identified by seq. Stale sequence
// numbers are ignored.
func (p *ShellPanel) FinishClose(seq int) {
	if p.State() != panel.StateClosing || seq != p.closeSeq {
		return
	}
	p.OnClosed(p.LastReason())
}

// Refresh reloads the content, building it first if needed.
func (p *ShellPanel) Refresh() { p.refresh() }

func (p *ShellPanel) refresh() {
	if p.content == nil && p.newContent != nil {
		c, err := p.newContent(p.ResourceLoader())
		p.content, p.contentErr = c, err
		if s, ok := c.(content.Sized); ok {
			s.SetSize(p.innerSize())
		}
	}
	if p.content == nil || p.schedule == nil {
		return
	}
	c, name := p.content, p.Name()
	p.schedule(func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), RefreshTimeout)
		defer cancel()
		return contentRefreshedMsg{Name: name, Err: c.Refresh(ctx)}
	})
}

// innerSize is the text area inside border, padding and title line.
func (p *ShellPanel) innerSize() (width, height int) {
	w, h := p.boxSize()
	return max(w-4, 0), max(h-3, 0)
}

func (p *ShellPanel) boxSize() (width, height int) {
	cw, ch := p.Size()
	if cw == 0 && ch == 0 {
		cw, ch = 80, 24
	}
	return panelBox(cw, ch)
}

func (p *ShellPanel) closeZoneID() string { return "panel-close-" + p.Name() }

// HandleMouse reports whether msg clicked the close button.
func (p *ShellPanel) HandleMouse(msg tea.MouseMsg) bool {
	if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
		return false
	}
	z := zone.Get(p.closeZoneID())
	return z != nil && z.InBounds(msg)
}

func (p *ShellPanel) Init() tea.Cmd { return nil }

// Update scrolls the content.
func (p *ShellPanel) Update(msg tea.Msg) (View, tea.Cmd) {
	var cmd tea.Cmd
	p.vp, cmd = p.vp.Update(msg)
	return p, cmd
}

func (p *ShellPanel) View() string {
	return p.render(p.body())
}

func (p *ShellPanel) body() string {
	w, _ := p.innerSize()
	switch {
	case p.contentErr != nil:
		return Styles.Error.Render("error: " + p.contentErr.Error())
	case p.content == nil:
		return Styles.Empty.Render("(empty)")
	}
	return p.content.Render(w)
}

// render draws the panel chrome around body.
func (p *ShellPanel) render(body string) string {
	bw, bh := p.boxSize()
	innerW, _ := p.innerSize()

	titleStyle := Styles.Title
	box := Styles.Box
	switch {
	case p.State() == panel.StateClosing:
		box = Styles.BoxClosing
		titleStyle = Styles.Muted
	case p.Priority() == panel.PriorityHigh:
		box = Styles.BoxDanger
		titleStyle = Styles.TitleWarning
	}

	closeBtn := zone.Mark(p.closeZoneID(), Styles.Hint.Render("[x]"))
	title := titleStyle.Render(textutil.Truncate(p.title, max(innerW-4, 1)))
	header := textutil.JoinEnds(title, closeBtn, innerW)

	p.vp.SetContent(body)
	return box.Width(max(bw-2, 0)).Height(max(bh-2, 0)).Render(header + "\n" + p.vp.View())
}
