// Package trace records panel visibility as spans of a session trace,
// keeps the most recent manager events for display, and optionally
// exports the session over OTLP.
package trace

import (
	"context"
	"strconv"
	"sync"
	"time"

	"panelshell/internal/panel"
)

// DefaultHistory is how many events Recent can return.
const DefaultHistory = 200

const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
)

// Recorder turns panel manager events into spans. Each time a panel
// becomes the active panel a span opens; it ends when the panel closes,
// is suppressed, or is discarded.
type Recorder struct {
	mu       sync.RWMutex
	trace    *Trace
	open     map[string]*Span // panel name -> span
	events   []panel.Event    // ring buffer
	next     int
	full     bool
	onChange func()
	exporter *OTLPExporter
	now      func() time.Time
}

// NewRecorder starts a session trace. exporter may be nil.
func NewRecorder(history int, exporter *OTLPExporter) *Recorder {
	if history <= 0 {
		history = DefaultHistory
	}
	r := &Recorder{
		open:     make(map[string]*Span),
		events:   make([]panel.Event, history),
		exporter: exporter,
		now:      time.Now,
	}
	r.startSession()
	return r
}

func (r *Recorder) startSession() {
	start := r.now()
	id := NewTraceID()
	r.trace = &Trace{
		ID:        id,
		StartTime: start,
		Status:    StatusRunning,
		RootSpan: &Span{
			TraceID:    id,
			SpanID:     NewSpanID(),
			Name:       "session",
			StartTime:  start,
			Attributes: map[string]string{},
		},
	}
}

// Attach subscribes the recorder to m. The returned func detaches it.
func (r *Recorder) Attach(m *panel.Manager) (detach func()) {
	return m.Subscribe(r.HandleEvent)
}

// HandleEvent records ev and opens or ends the panel's span.
func (r *Recorder) HandleEvent(ev panel.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events[r.next] = ev
	r.next = (r.next + 1) % len(r.events)
	if r.next == 0 {
		r.full = true
	}

	switch {
	case ev.Visible():
		r.endSpan(ev, "replaced")
		span := &Span{
			TraceID:   r.trace.ID,
			SpanID:    NewSpanID(),
			ParentID:  r.trace.RootSpan.SpanID,
			Name:      "panel " + ev.Panel,
			StartTime: ev.At,
			Attributes: map[string]string{
				"panel":    ev.Panel,
				"priority": ev.Priority.String(),
				"reason":   ev.Reason.String(),
				"kind":     string(ev.Kind),
			},
		}
		r.trace.RootSpan.Children = append(r.trace.RootSpan.Children, span)
		r.open[ev.Panel] = span
	case ev.Kind == panel.EventClosed, ev.Kind == panel.EventSuppressed, ev.Kind == panel.EventDiscarded:
		r.endSpan(ev, string(ev.Kind))
	}

	if r.onChange != nil {
		r.onChange()
	}
}

// endSpan must be called with r.mu held.
func (r *Recorder) endSpan(ev panel.Event, outcome string) {
	span, ok := r.open[ev.Panel]
	if !ok {
		return
	}
	delete(r.open, ev.Panel)
	span.Duration = ev.At.Sub(span.StartTime)
	span.Attributes["outcome"] = outcome
	span.Attributes["end_reason"] = ev.Reason.String()
}

// Recent returns up to n recorded events, newest first.
func (r *Recorder) Recent(n int) []panel.Event {
	r.mu.RLock()
	defer r.mu.RUnlock()

	size := r.next
	if r.full {
		size = len(r.events)
	}
	if n <= 0 || n > size {
		n = size
	}
	out := make([]panel.Event, 0, n)
	for i := 1; i <= n; i++ {
		idx := (r.next - i + len(r.events)) % len(r.events)
		out = append(out, r.events[idx])
	}
	return out
}

// Trace returns a copy of the session trace.
func (r *Recorder) Trace() Trace {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t := *r.trace
	t.RootSpan = r.trace.RootSpan.clone()
	return t
}

// OpenSpans returns how many panel spans are still open.
func (r *Recorder) OpenSpans() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.open)
}

// SetOnChange sets a callback run after every recorded event.
func (r *Recorder) SetOnChange(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onChange = fn
}

// Finish ends open spans and the session, exports the trace and shuts
// the exporter down.
func (r *Recorder) Finish(ctx context.Context) error {
	r.mu.Lock()
	if r.trace.Status == StatusCompleted {
		r.mu.Unlock()
		return nil
	}
	end := r.now()
	for name, span := range r.open {
		span.Duration = end.Sub(span.StartTime)
		span.Attributes["outcome"] = "session_end"
		delete(r.open, name)
	}
	r.trace.EndTime = end
	r.trace.Status = StatusCompleted
	r.trace.RootSpan.Duration = end.Sub(r.trace.StartTime)
	r.trace.RootSpan.Attributes["panels_shown"] = strconv.Itoa(len(r.trace.RootSpan.Children))
	t := *r.trace
	exporter := r.exporter
	r.mu.Unlock()

	if exporter == nil {
		return nil
	}
	if err := exporter.ExportTrace(ctx, &t); err != nil {
		_ = exporter.Shutdown(ctx)
		return err
	}
	return exporter.Shutdown(ctx)
}
