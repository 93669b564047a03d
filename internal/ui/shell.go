package ui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/rs/zerolog"

	"panelshell/internal/config"
	"panelshell/internal/content"
	"panelshell/internal/control"
	"panelshell/internal/panel"
	"panelshell/internal/trace"
	"panelshell/internal/ui/textutil"
)

// Options configure a ShellModel.
type Options struct {
	Config   config.Config
	Loader   panel.ResourceLoader
	Recorder *trace.Recorder
	Board    *control.Board
	Logger   zerolog.Logger
	// Content defaults to content.FromConfig.
	Content content.Factory
}

// ShellModel is the root model. It owns the panel manager and turns
// messages into manager requests.
type ShellModel struct {
	manager    *panel.Manager
	container  *Container
	panels     map[string]OverlayPanel
	order      []string
	configured map[string]config.PanelConfig

	registry *KeybindRegistry
	keys     *KeyHandler
	home     *HomeView
	recorder *trace.Recorder
	board    *control.Board

	cfg        config.Config
	newContent content.Factory
	log        zerolog.Logger

	queued        []tea.Cmd
	width, height int
	status        string
	statusErr     bool
	detach        []func()
}

var _ tea.Model = (*ShellModel)(nil)

var reservedNames = []string{PromptPanelName, EventsPanelName}

// NewShell builds the shell and registers every configured panel.
func NewShell(opts Options) (*ShellModel, error) {
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	for _, pc := range opts.Config.Panels {
		if slices.Contains(reservedNames, pc.Name) {
			return nil, fmt.Errorf("panel %q: name is reserved: %w", pc.Name, config.ErrInvalidPanel)
		}
	}
	if opts.Content == nil {
		opts.Content = content.FromConfig
	}

	log := opts.Logger.With().Str("component", "shell").Logger()
	reserved := 0
	if opts.Config.UI.StatusBar {
		reserved = 1
	}
	m := &ShellModel{
		manager:    panel.New(panel.WithLogger(opts.Logger)),
		container:  NewContainer(reserved),
		panels:     make(map[string]OverlayPanel),
		configured: make(map[string]config.PanelConfig),
		registry:   NewKeybindRegistry(),
		home:       NewHomeView(),
		recorder:   opts.Recorder,
		board:      opts.Board,
		cfg:        opts.Config,
		newContent: opts.Content,
		log:        log,
	}
	m.keys = NewKeyHandler(m.registry)
	m.manager.SetContainerView(m.container)

	for _, pc := range opts.Config.Panels {
		m.addConfigured(pc)
	}
	if opts.Loader != nil {
		m.manager.SetResourceLoader(opts.Loader)
	}

	anim := opts.Config.UI.CloseAnimation
	m.add(NewPromptPanel(m.manager, m.schedule, anim, m.Names))
	m.add(NewEventsPanel(m.manager, m.schedule, anim, opts.Recorder))

	if opts.Recorder != nil {
		m.detach = append(m.detach, opts.Recorder.Attach(m.manager))
	}
	if opts.Board != nil {
		m.detach = append(m.detach, opts.Board.Attach(m.manager))
	}
	m.detach = append(m.detach, m.manager.Subscribe(func(panel.Event) { m.refreshHome() }))

	m.bindKeys()
	m.refreshHome()
	return m, nil
}

// Manager returns the panel manager.
func (m *ShellModel) Manager() *panel.Manager { return m.manager }

// Panel returns a panel by name.
func (m *ShellModel) Panel(name string) (OverlayPanel, bool) {
	p, ok := m.panels[name]
	return p, ok
}

// Names returns panel names in registration order.
func (m *ShellModel) Names() []string { return slices.Clone(m.order) }

// Status returns the status bar message.
func (m *ShellModel) Status() string { return m.status }

// Close detaches observers from the manager.
func (m *ShellModel) Close() {
	for _, fn := range m.detach {
		fn()
	}
	m.detach = nil
}

func (m *ShellModel) schedule(cmd tea.Cmd) {
	if cmd != nil {
		m.queued = append(m.queued, cmd)
	}
}

func (m *ShellModel) add(p OverlayPanel) {
	m.panels[p.Name()] = p
	m.order = append(m.order, p.Name())
}

func (m *ShellModel) addConfigured(pc config.PanelConfig) {
	m.configured[pc.Name] = pc
	m.add(NewShellPanel(m.manager, m.schedule, PanelOptions{
		Options: panel.Options{
			Name:         pc.Name,
			Priority:     pc.PanelPriority(),
			Suppressible: pc.Suppressible,
		},
		Title:          pc.DisplayTitle(),
		Key:            pc.Key,
		CloseAnimation: m.cfg.UI.CloseAnimation,
		Content:        m.contentFunc(pc),
	}))
}

func (m *ShellModel) remove(name string) {
	p, ok := m.panels[name]
	if !ok {
		return
	}
	m.manager.Unregister(p)
	delete(m.panels, name)
	delete(m.configured, name)
	m.order = slices.DeleteFunc(m.order, func(n string) bool { return n == name })
}

func (m *ShellModel) contentFunc(pc config.PanelConfig) ContentFunc {
	build := m.newContent
	return func(l panel.ResourceLoader) (content.Content, error) {
		return build(pc, l)
	}
}

func (m *ShellModel) bindKeys() {
	quit := func() tea.Msg { return QuitMsg{} }
	m.registry.BindWithDesc("q", quit, "Quit")
	m.registry.BindWithDesc("SPC q", quit, "Quit")
	m.registry.BindWithDesc("SPC o", showCmd(PromptPanelName), "Open…")
	m.registry.BindWithDesc("SPC e", showCmd(EventsPanelName), "Events")
	m.registry.BindWithDescForMode("SPC c", func() tea.Msg {
		return CloseAllMsg{Reason: panel.ReasonKeyPress}
	}, "Close all", []Mode{ModePanel})
	m.registry.BindWithDescForMode("SPC x", func() tea.Msg {
		return ClosePanelMsg{Reason: panel.ReasonKeyPress}
	}, "Close", []Mode{ModePanel})
	m.bindPanelKeys(nil)
}

// bindPanelKeys binds "SPC p <key>" for configured panels, dropping the
// bindings of previous.
func (m *ShellModel) bindPanelKeys(previous []config.PanelConfig) {
	for _, pc := range previous {
		if pc.Key != "" {
			m.registry.Unbind("SPC p " + pc.Key)
		}
	}
	for _, name := range m.order {
		pc, ok := m.configured[name]
		if !ok || pc.Key == "" {
			continue
		}
		m.registry.BindWithDesc("SPC p "+pc.Key, showCmd(pc.Name), pc.DisplayTitle())
	}
}

func showCmd(name string) tea.Cmd {
	return func() tea.Msg { return ShowPanelMsg{Name: name, Reason: panel.ReasonKeyPress} }
}

func (m *ShellModel) activeOverlay() OverlayPanel {
	a := m.manager.ActivePanel()
	if a == nil {
		return nil
	}
	p, _ := a.(OverlayPanel)
	return p
}

func (m *ShellModel) mode() Mode {
	if m.manager.ActivePanel() != nil {
		return ModePanel
	}
	return ModeHome
}

// Init implements tea.Model.
func (m *ShellModel) Init() tea.Cmd {
	return tea.SetWindowTitle("panelshell")
}

// Update implements tea.Model.
func (m *ShellModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	cmds := append(m.queued, cmd)
	m.queued = nil
	m.keys.Mode = m.mode()
	return m, tea.Batch(cmds...)
}

func (m *ShellModel) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.container.SetTerminalSize(msg.Width, msg.Height)
		cw, ch := m.container.Size()
		m.home.SetSize(cw, ch)
		m.manager.OnSizeChanged(cw, ch)
		return nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		a := m.activeOverlay()
		if a == nil {
			return nil
		}
		if a.HandleMouse(msg) {
			m.closePanel(a.Name(), panel.ReasonCloseButton)
			return nil
		}
		_, cmd := a.Update(msg)
		return cmd

	case ShowPanelMsg:
		m.show(msg.Name, msg.Reason)
		return nil

	case ClosePanelMsg:
		m.closePanel(msg.Name, msg.Reason)
		return nil

	case CloseAllMsg:
		m.manager.CloseAll(msg.Reason)
		m.setStatus("closed all panels", false)
		return nil

	case QuitMsg:
		m.manager.CloseAll(panel.ReasonShutdown)
		return tea.Quit

	case ControlMsg:
		return m.handleControl(msg.Command)

	case ConfigReloadedMsg:
		m.reload(msg.Config)
		return nil

	case ResourcesChangedMsg:
		m.refreshResources(msg.IDs)
		return nil

	case StatusMsg:
		m.setStatus(msg.Text, msg.Error)
		return nil

	case closeAnimationDoneMsg:
		if p, ok := m.panels[msg.Name]; ok {
			p.FinishClose(msg.Seq)
		}
		return nil

	case contentRefreshedMsg:
		if msg.Err != nil && !errors.Is(msg.Err, context.Canceled) {
			m.log.Warn().Err(msg.Err).Str("panel", msg.Name).Msg("content refresh failed")
			m.setStatus(fmt.Sprintf("%s: %v", msg.Name, msg.Err), true)
		}
		return nil
	}
	return nil
}

func (m *ShellModel) handleKey(k tea.KeyMsg) tea.Cmd {
	if k.String() == "ctrl+c" {
		return func() tea.Msg { return QuitMsg{} }
	}
	active := m.activeOverlay()
	if c, ok := active.(interface{ CapturesKeys() bool }); ok && c.CapturesKeys() {
		_, cmd := active.Update(k)
		return cmd
	}

	m.keys.Mode = m.mode()
	if consumed, cmd := m.keys.Handle(k); consumed {
		return cmd
	}

	if active == nil {
		_, cmd := m.home.Update(k)
		return cmd
	}
	if k.String() == "esc" {
		m.closePanel(active.Name(), panel.ReasonBackPress)
		return nil
	}
	_, cmd := active.Update(k)
	return cmd
}

func (m *ShellModel) handleControl(c control.Command) tea.Cmd {
	m.log.Debug().Str("request_id", c.ID).Str("panel", c.Panel).Str("action", string(c.Action)).Msg("control command")
	switch c.Action {
	case control.ActionShow:
		m.show(c.Panel, c.Reason)
	case control.ActionClose:
		m.closePanel(c.Panel, c.Reason)
	}
	return nil
}

func (m *ShellModel) show(name string, reason panel.StateChangeReason) {
	p, ok := m.panels[name]
	if !ok {
		m.setStatus(fmt.Sprintf("unknown panel %q", name)+textutil.DidYouMean(name, m.order), true)
		return
	}
	res := m.manager.RequestShow(p, reason)
	m.log.Debug().Str("panel", name).Stringer("result", res).Stringer("reason", reason).Msg("show requested")

	blocker := ""
	if a := m.manager.ActivePanel(); a != nil && a != panel.Panel(p) {
		blocker = a.Name()
	}
	switch res {
	case panel.ShowResultShown:
		m.setStatus("", false)
	case panel.ShowResultPending:
		m.setStatus(fmt.Sprintf("%s opens when %s closes", name, blocker), false)
	case panel.ShowResultSuppressed:
		m.setStatus(fmt.Sprintf("%s queued behind %s", name, blocker), false)
	case panel.ShowResultDropped:
		m.setStatus(fmt.Sprintf("%s dropped: %s is showing", name, blocker), true)
	}
}

// closePanel closes name, or the active panel when name is empty.
func (m *ShellModel) closePanel(name string, reason panel.StateChangeReason) {
	var p OverlayPanel
	if name == "" {
		p = m.activeOverlay()
	} else {
		p = m.panels[name]
	}
	if p == nil {
		if name != "" {
			m.setStatus(fmt.Sprintf("unknown panel %q", name), true)
		}
		return
	}
	m.manager.ClosePanel(p, reason, m.cfg.UI.CloseAnimation > 0)
}

// reload applies a new config: existing panels get new titles, keys and
// content, new panels are registered, removed ones are unregistered.
// Priority and suppressibility are fixed at construction.
func (m *ShellModel) reload(cfg config.Config) {
	previous := make([]config.PanelConfig, 0, len(m.configured))
	for _, pc := range m.configured {
		previous = append(previous, pc)
	}

	keep := make(map[string]bool, len(cfg.Panels))
	for _, pc := range cfg.Panels {
		if slices.Contains(reservedNames, pc.Name) {
			m.log.Warn().Str("panel", pc.Name).Msg("reserved panel name ignored")
			continue
		}
		keep[pc.Name] = true
		old, exists := m.configured[pc.Name]
		if !exists {
			m.addConfigured(pc)
			continue
		}
		if old.PanelPriority() != pc.PanelPriority() || old.Suppressible != pc.Suppressible {
			m.log.Warn().Str("panel", pc.Name).Msg("priority changes apply after restart")
		}
		m.configured[pc.Name] = pc
		if sp, ok := m.panels[pc.Name].(*ShellPanel); ok {
			sp.Reconfigure(pc.DisplayTitle(), pc.Key, m.contentFunc(pc))
		}
	}
	for _, pc := range previous {
		if !keep[pc.Name] {
			m.remove(pc.Name)
		}
	}

	m.cfg.Panels = cfg.Panels
	m.cfg.UI.CloseAnimation = cfg.UI.CloseAnimation
	for _, p := range m.panels {
		if a, ok := p.(interface{ SetCloseAnimation(d time.Duration) }); ok {
			a.SetCloseAnimation(cfg.UI.CloseAnimation)
		}
	}
	m.bindPanelKeys(previous)
	m.refreshHome()
	if m.board != nil {
		m.board.Update(control.Snapshot(m.manager))
	}
	m.setStatus("config reloaded", false)
}

func (m *ShellModel) refreshResources(ids []string) {
	for _, name := range m.order {
		p := m.panels[name]
		sp, ok := p.(interface {
			IsShowing() bool
			Content() content.Content
			Refresh()
		})
		if !ok || !sp.IsShowing() {
			continue
		}
		if r, ok := sp.Content().(*content.Resource); ok && slices.Contains(ids, r.ID()) {
			sp.Refresh()
		}
	}
}

func (m *ShellModel) refreshHome() {
	items := make([]panelItem, 0, len(m.order))
	for _, name := range m.order {
		p := m.panels[name]
		items = append(items, panelItem{
			name:         name,
			title:        p.Title(),
			key:          p.Key(),
			priority:     p.Priority(),
			suppressible: p.CanBeSuppressed(),
			state:        m.stateOf(p),
		})
	}
	m.home.SetItems(items)
}

func (m *ShellModel) stateOf(p OverlayPanel) string {
	switch {
	case m.manager.ActivePanel() == panel.Panel(p):
		if p.State() == panel.StateClosing {
			return "closing"
		}
		return "showing"
	case m.manager.PendingPanel() == panel.Panel(p):
		return "pending"
	case slices.Contains(m.manager.SuppressedPanels(), panel.Panel(p)):
		return "queued"
	}
	return ""
}

func (m *ShellModel) setStatus(text string, isErr bool) {
	m.status, m.statusErr = text, isErr
}

// View implements tea.Model.
func (m *ShellModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	cw, ch := m.container.Size()
	screen := m.home.View()
	if a := m.activeOverlay(); a != nil {
		screen = PlaceCenter(screen, a.View(), cw, ch)
	}
	if m.keys.LeaderWaiting {
		if help := RenderKeybindHelp(m.keys); help != "" {
			_, hh := blockSize(help)
			screen = Place(screen, help, 1, max(ch-hh, 0))
		}
	}
	if m.cfg.UI.StatusBar {
		screen += "\n" + m.statusBar()
	}
	return zone.Scan(screen)
}

func (m *ShellModel) statusBar() string {
	left := " panelshell"
	if a := m.manager.ActivePanel(); a != nil {
		left += " │ " + a.Name()
	}
	if p := m.manager.PendingPanel(); p != nil {
		left += " │ next: " + p.Name()
	}
	if q := m.manager.SuppressedPanels(); len(q) > 0 {
		names := make([]string, len(q))
		for i, p := range q {
			names[i] = p.Name()
		}
		left += " │ queued: " + strings.Join(names, ", ")
	}
	right := m.status
	if right != "" {
		right += " "
	}
	line := textutil.JoinEnds(left, right, m.width)
	if m.statusErr {
		return Styles.StatusBar.Foreground(Styles.Error.GetForeground()).Render(line)
	}
	return Styles.StatusBar.Render(line)
}
