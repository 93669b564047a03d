package panel

import "time"

// ShowResult reports what a show request did.
type ShowResult int

const (
	// ShowResultShown means the panel is now active.
	ShowResultShown ShowResult = iota
	// ShowResultPending means the panel will become active once the
	// preempted panel finishes closing.
	ShowResultPending
	// ShowResultSuppressed means the panel was queued behind the active one.
	ShowResultSuppressed
	// ShowResultDropped means the panel can't be suppressed and lost to the
	// active panel. The caller may request again later.
	ShowResultDropped
	// ShowResultIgnored means the request was a no-op (nil panel, already
	// active or already pending).
	ShowResultIgnored
)

func (r ShowResult) String() string {
	switch r {
	case ShowResultShown:
		return "shown"
	case ShowResultPending:
		return "pending"
	case ShowResultSuppressed:
		return "suppressed"
	case ShowResultDropped:
		return "dropped"
	case ShowResultIgnored:
		return "ignored"
	default:
		return "unknown"
	}
}

// EventKind identifies a manager transition.
type EventKind string

const (
	EventShown      EventKind = "shown"      // panel became active on request
	EventRestored   EventKind = "restored"   // queued panel promoted after a close
	EventSuppressed EventKind = "suppressed" // panel parked in the queue
	EventDiscarded  EventKind = "discarded"  // preempted panel closed for good
	EventDropped    EventKind = "dropped"    // show request lost, panel not suppressible
	EventClosed     EventKind = "closed"     // panel left the manager's bookkeeping
)

// Event is delivered synchronously to observers after each transition.
type Event struct {
	Kind      EventKind
	Panel     string
	Priority  Priority
	Reason    StateChangeReason
	QueueSize int
	At        time.Time
}

// Visible reports whether the event starts a visible period for the panel.
func (e Event) Visible() bool {
	return e.Kind == EventShown || e.Kind == EventRestored
}
