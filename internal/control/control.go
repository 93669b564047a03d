// Package control lets other processes show and close panels in a
// running shell over a local HTTP endpoint.
package control

import (
	"fmt"
	"slices"
	"sync"

	"panelshell/internal/panel"
)

// Action is what a request asks of a panel.
type Action string

const (
	ActionShow  Action = "show"
	ActionClose Action = "close"
)

// ParseAction validates s.
func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionShow, ActionClose:
		return a, nil
	}
	return "", fmt.Errorf("unknown action %q: want show or close", s)
}

// Request is the body of POST /panels.
type Request struct {
	Panel  string `json:"panel"`
	Action Action `json:"action"`
	Reason string `json:"reason,omitempty"`
}

// Response answers a Request.
type Response struct {
	ID       string `json:"id"`
	Accepted bool   `json:"accepted"`
	Error    string `json:"error,omitempty"`
}

// Command is a validated request handed to the Sink.
type Command struct {
	ID     string
	Panel  string
	Action Action
	Reason panel.StateChangeReason
}

// Sink receives commands. Dispatch must not block on the UI.
type Sink interface {
	Dispatch(Command)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Command)

func (f SinkFunc) Dispatch(c Command) { f(c) }

// Status is the body of GET /panels.
type Status struct {
	Active     string   `json:"active"`
	Pending    string   `json:"pending,omitempty"`
	Suppressed []string `json:"suppressed"`
	Panels     []string `json:"panels"`
}

// Board holds the latest Status. It is written from the UI goroutine
// through Attach and read by the server.
type Board struct {
	mu     sync.RWMutex
	status Status
}

// Attach snapshots m now and after every transition.
func (b *Board) Attach(m *panel.Manager) (detach func()) {
	b.Update(Snapshot(m))
	return m.Subscribe(func(panel.Event) { b.Update(Snapshot(m)) })
}

func (b *Board) Update(s Status) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status = s
}

// Status returns a copy of the latest snapshot.
func (b *Board) Status() Status {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s := b.status
	s.Suppressed = slices.Clone(s.Suppressed)
	s.Panels = slices.Clone(s.Panels)
	return s
}

// Known reports whether name is a registered panel.
func (b *Board) Known(name string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Contains(b.status.Panels, name)
}

// Snapshot reads m's state. Call it from the goroutine that owns m.
func Snapshot(m *panel.Manager) Status {
	s := Status{Suppressed: []string{}, Panels: []string{}}
	if p := m.ActivePanel(); p != nil {
		s.Active = p.Name()
	}
	if p := m.PendingPanel(); p != nil {
		s.Pending = p.Name()
	}
	for _, p := range m.SuppressedPanels() {
		s.Suppressed = append(s.Suppressed, p.Name())
	}
	for _, p := range m.Panels() {
		s.Panels = append(s.Panels, p.Name())
	}
	return s
}
