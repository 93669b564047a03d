package panel

import (
	"slices"
	"time"

	"github.com/rs/zerolog"
)

// Manager tracks the active panel, a panel waiting to replace it, and the
// queue of suppressed panels ordered by descending priority. Panels of
// equal priority are restored in the order they were suppressed.
type Manager struct {
	active        Panel
	pending       Panel
	pendingReason StateChangeReason
	preempting    Panel
	suppressed    []Panel
	panels        []Panel

	container     ContainerView
	loader        ResourceLoader
	width, height int
	sized         bool

	observers  []observer
	observerID int

	log zerolog.Logger
	now func() time.Time
}

type observer struct {
	id int
	fn func(Event)
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for transition logging.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) {
		m.log = l.With().Str("component", "panel-manager").Logger()
	}
}

// WithClock overrides the time source used for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// New creates an empty manager.
func New(opts ...Option) *Manager {
	m := &Manager{
		log: zerolog.Nop(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register adds p to the set of panels that receive shared resources.
// Resources already set on the manager are handed to p immediately.
// Registering the same panel twice is a no-op.
func (m *Manager) Register(p Panel) {
	if p == nil || slices.Contains(m.panels, p) {
		return
	}
	m.panels = append(m.panels, p)
	if m.container != nil {
		p.SetContainerView(m.container)
	}
	if m.loader != nil {
		p.SetResourceLoader(m.loader)
	}
	if m.sized {
		p.OnSizeChanged(m.width, m.height)
	}
	m.log.Debug().Str("panel", p.Name()).Int("registered", len(m.panels)).Msg("panel registered")
}

// Unregister forgets p. A queued or pending p is dropped from the
// bookkeeping; an active p is closed first.
func (m *Manager) Unregister(p Panel) {
	if p == nil {
		return
	}
	if m.removeSuppressed(p) {
		m.emit(EventClosed, p, ReasonReset)
	}
	if p == m.pending {
		m.pending = nil
		m.pendingReason = ReasonUnknown
		m.emit(EventClosed, p, ReasonReset)
	}
	if p == m.active {
		p.Close(ReasonReset, false)
	}
	if p == m.preempting {
		m.preempting = nil
	}
	m.panels = slices.DeleteFunc(m.panels, func(q Panel) bool { return q == p })
}

// RequestShow asks for p to become the active panel.
func (m *Manager) RequestShow(p Panel, reason StateChangeReason) ShowResult {
	if p == nil || p == m.active || p == m.pending {
		return ShowResultIgnored
	}
	m.Register(p)

	if m.active == nil {
		m.removeSuppressed(p)
		m.activate(p, reason, EventShown)
		return ShowResultShown
	}

	if p.Priority() > m.effectivePriority() {
		m.removeSuppressed(p)
		if prev := m.pending; prev != nil {
			m.pending = nil
			m.park(prev, ReasonSuppress)
		}
		m.pending = p
		m.pendingReason = reason
		m.log.Debug().
			Str("panel", p.Name()).
			Str("preempting", m.active.Name()).
			Stringer("reason", reason).
			Msg("panel preempting active panel")
		m.preempting = m.active
		m.active.Close(ReasonSuppress, false)
		if m.active == p {
			return ShowResultShown
		}
		return ShowResultPending
	}

	if !p.CanBeSuppressed() {
		m.emit(EventDropped, p, reason)
		return ShowResultDropped
	}
	if m.isSuppressed(p) {
		return ShowResultSuppressed
	}
	m.enqueue(p)
	m.emit(EventSuppressed, p, reason)
	return ShowResultSuppressed
}

// ClosePanel asks p to close if the manager is tracking it as active,
// pending or suppressed. Untracked panels are ignored.
func (m *Manager) ClosePanel(p Panel, reason StateChangeReason, animate bool) {
	if p == nil {
		return
	}
	if p != m.active && p != m.pending && !m.isSuppressed(p) {
		return
	}
	p.Close(reason, animate)
}

// NotifyClosed records that p finished closing.
//
// An active panel the manager asked to make way for a higher priority
// request is parked (or discarded if it can't be suppressed) when it
// reports ReasonSuppress, and the pending panel takes over. Any other
// close of the active panel, whatever its reason, is a plain close that
// promotes the pending panel if there is one, else the head of the
// suppressed queue. Closing a queued panel only removes it.
func (m *Manager) NotifyClosed(p Panel, reason StateChangeReason) {
	if p == nil {
		return
	}
	handoff := p == m.preempting && reason == ReasonSuppress
	if p == m.preempting {
		m.preempting = nil
	}
	switch {
	case p == m.active && handoff:
		m.active = nil
		m.park(p, reason)
		m.promoteNext()
	case p == m.active:
		m.active = nil
		m.emit(EventClosed, p, reason)
		m.promoteNext()
	case p == m.pending:
		m.pending = nil
		m.pendingReason = ReasonUnknown
		m.emit(EventClosed, p, reason)
	case m.removeSuppressed(p):
		m.emit(EventClosed, p, reason)
	}
}

// CloseAll empties the queue, cancels any pending panel and closes the
// active panel without animation.
func (m *Manager) CloseAll(reason StateChangeReason) {
	queued := m.suppressed
	m.suppressed = nil
	for _, p := range queued {
		m.emit(EventClosed, p, reason)
	}
	if p := m.pending; p != nil {
		m.pending = nil
		m.pendingReason = ReasonUnknown
		m.emit(EventClosed, p, reason)
	}
	if m.active != nil {
		m.active.Close(reason, false)
	}
}

// ActivePanel returns the active panel, or nil.
func (m *Manager) ActivePanel() Panel {
	return m.active
}

// PendingPanel returns the panel waiting for the active panel to finish
// closing, or nil.
func (m *Manager) PendingPanel() Panel {
	return m.pending
}

// SuppressedQueueSize returns the number of queued panels.
func (m *Manager) SuppressedQueueSize() int {
	return len(m.suppressed)
}

// SuppressedPanels returns a copy of the queue, next-to-restore first.
func (m *Manager) SuppressedPanels() []Panel {
	return slices.Clone(m.suppressed)
}

// Panels returns the registered panels in registration order.
func (m *Manager) Panels() []Panel {
	return slices.Clone(m.panels)
}

// SetContainerView stores v and hands it to every registered panel.
func (m *Manager) SetContainerView(v ContainerView) {
	m.container = v
	for _, p := range m.panels {
		p.SetContainerView(v)
	}
}

// ContainerView returns the shared container view, or nil.
func (m *Manager) ContainerView() ContainerView {
	return m.container
}

// SetResourceLoader stores l and hands it to every registered panel.
func (m *Manager) SetResourceLoader(l ResourceLoader) {
	m.loader = l
	for _, p := range m.panels {
		p.SetResourceLoader(l)
	}
}

// ResourceLoader returns the shared resource loader, or nil.
func (m *Manager) ResourceLoader() ResourceLoader {
	return m.loader
}

// OnSizeChanged stores the container size and forwards it to every
// registered panel.
func (m *Manager) OnSizeChanged(width, height int) {
	m.width, m.height, m.sized = width, height, true
	for _, p := range m.panels {
		p.OnSizeChanged(width, height)
	}
}

// Subscribe registers fn to receive every transition event. The returned
// func removes the subscription.
func (m *Manager) Subscribe(fn func(Event)) (unsubscribe func()) {
	m.observerID++
	id := m.observerID
	m.observers = append(m.observers, observer{id: id, fn: fn})
	return func() {
		m.observers = slices.DeleteFunc(m.observers, func(o observer) bool { return o.id == id })
	}
}

func (m *Manager) effectivePriority() Priority {
	if m.pending != nil {
		return m.pending.Priority()
	}
	return m.active.Priority()
}

func (m *Manager) activate(p Panel, reason StateChangeReason, kind EventKind) {
	m.active = p
	p.Peek(reason)
	m.emit(kind, p, reason)
}

func (m *Manager) promoteNext() {
	if p := m.pending; p != nil {
		reason := m.pendingReason
		m.pending = nil
		m.pendingReason = ReasonUnknown
		m.activate(p, reason, EventShown)
		return
	}
	if len(m.suppressed) == 0 {
		return
	}
	next := m.suppressed[0]
	m.suppressed = m.suppressed[1:]
	m.activate(next, ReasonUnsuppress, EventRestored)
}

// park queues a preempted panel, or discards it when it can't be suppressed.
func (m *Manager) park(p Panel, reason StateChangeReason) {
	if !p.CanBeSuppressed() {
		m.emit(EventDiscarded, p, reason)
		return
	}
	if m.enqueue(p) {
		m.emit(EventSuppressed, p, reason)
	}
}

// enqueue inserts p after every queued panel of equal or higher priority.
func (m *Manager) enqueue(p Panel) bool {
	if m.isSuppressed(p) {
		return false
	}
	i := len(m.suppressed)
	for j, q := range m.suppressed {
		if q.Priority() < p.Priority() {
			i = j
			break
		}
	}
	m.suppressed = slices.Insert(m.suppressed, i, p)
	return true
}

func (m *Manager) isSuppressed(p Panel) bool {
	return slices.Contains(m.suppressed, p)
}

func (m *Manager) removeSuppressed(p Panel) bool {
	i := slices.Index(m.suppressed, p)
	if i < 0 {
		return false
	}
	m.suppressed = slices.Delete(m.suppressed, i, i+1)
	return true
}

func (m *Manager) emit(kind EventKind, p Panel, reason StateChangeReason) {
	ev := Event{
		Kind:      kind,
		Panel:     p.Name(),
		Priority:  p.Priority(),
		Reason:    reason,
		QueueSize: len(m.suppressed),
		At:        m.now(),
	}
	m.log.Debug().
		Str("event", string(kind)).
		Str("panel", ev.Panel).
		Stringer("priority", ev.Priority).
		Stringer("reason", reason).
		Int("queue", ev.QueueSize).
		Msg("panel transition")
	for _, o := range slices.Clone(m.observers) {
		o.fn(ev)
	}
}
