package panel

// State is the visibility state of a panel.
type State int

const (
	StateClosed State = iota
	StatePeeking
	StateClosing
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StatePeeking:
		return "peeking"
	case StateClosing:
		return "closing"
	default:
		return "unknown"
	}
}

// Options fix a panel's identity and arbitration behaviour at construction.
type Options struct {
	Name         string
	Priority     Priority
	Suppressible bool
}

// Base is an embeddable Panel implementation. Embed it by value and call
// Init from the outer type's constructor:
//
//	p := &MyPanel{}
//	p.Init(manager, p, panel.Options{Name: "help", Priority: panel.PriorityLow})
//
// Outer types override Close to animate; they must end with OnClosed.
type Base struct {
	manager *Manager
	self    Panel
	opts    Options

	container     ContainerView
	loader        ResourceLoader
	width, height int

	state      State
	lastReason StateChangeReason
}

// Init binds the panel to m and registers self, the outer panel that
// embeds this Base. A nil self registers the Base itself.
func (b *Base) Init(m *Manager, self Panel, opts Options) {
	b.manager = m
	b.opts = opts
	b.self = self
	if b.self == nil {
		b.self = b
	}
	if m != nil {
		m.Register(b.self)
	}
}

func (b *Base) Name() string          { return b.opts.Name }
func (b *Base) Priority() Priority    { return b.opts.Priority }
func (b *Base) CanBeSuppressed() bool { return b.opts.Suppressible }

// Manager returns the manager the panel was initialised with.
func (b *Base) Manager() *Manager { return b.manager }

func (b *Base) SetContainerView(v ContainerView) { b.container = v }

// ContainerView returns the container handed down by the manager.
func (b *Base) ContainerView() ContainerView { return b.container }

func (b *Base) SetResourceLoader(l ResourceLoader) { b.loader = l }

// ResourceLoader returns the loader handed down by the manager.
func (b *Base) ResourceLoader() ResourceLoader { return b.loader }

func (b *Base) OnSizeChanged(width, height int) {
	b.width, b.height = width, height
}

// Size returns the last size forwarded by the manager.
func (b *Base) Size() (width, height int) { return b.width, b.height }

func (b *Base) Peek(reason StateChangeReason) {
	b.state = StatePeeking
	b.lastReason = reason
}

// Close closes immediately; animate is ignored.
func (b *Base) Close(reason StateChangeReason, animate bool) {
	b.OnClosed(reason)
}

// BeginClose marks the panel as animating out. Call OnClosed when done.
func (b *Base) BeginClose(reason StateChangeReason) {
	b.state = StateClosing
	b.lastReason = reason
}

// OnClosed finishes a close and notifies the manager.
func (b *Base) OnClosed(reason StateChangeReason) {
	b.state = StateClosed
	b.lastReason = reason
	if b.manager != nil {
		b.manager.NotifyClosed(b.self, reason)
	}
}

// RequestShow asks the manager to make this panel active.
func (b *Base) RequestShow(reason StateChangeReason) ShowResult {
	if b.manager == nil {
		return ShowResultIgnored
	}
	return b.manager.RequestShow(b.self, reason)
}

// ClosePanel asks the manager to close this panel.
func (b *Base) ClosePanel(reason StateChangeReason, animate bool) {
	if b.manager == nil {
		b.self.Close(reason, animate)
		return
	}
	b.manager.ClosePanel(b.self, reason, animate)
}

func (b *Base) State() State { return b.state }

// IsShowing reports whether the panel is on screen, including while it
// animates out.
func (b *Base) IsShowing() bool {
	return b.state == StatePeeking || b.state == StateClosing
}

// LastReason returns the reason of the most recent show or close.
func (b *Base) LastReason() StateChangeReason { return b.lastReason }

var _ Panel = (*Base)(nil)
