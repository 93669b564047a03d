// Package panel arbitrates which of several competing overlay panels owns
// the screen.
//
// At most one panel is active. A show request from a panel that outranks
// the active one preempts it: the active panel is asked to close with
// ReasonSuppress and, once closed, is parked in the suppressed queue if it
// can be suppressed or discarded otherwise. Requests that do not outrank
// the active panel are queued (suppressible panels) or dropped. When the
// active panel closes, the highest-priority queued panel is restored.
//
// Panels are registered with a Manager either by embedding Base and
// calling Init, or implicitly on their first show request. Shared
// resources (container view, resource loader, size) are pushed to every
// registered panel, including panels registered after the resource was
// set.
//
// A Manager is not safe for concurrent use; drive it from a single
// goroutine such as the Bubble Tea update loop.
package panel

//go:generate mockgen -source=panel.go -destination=mocks/mock_panel.go -package=mocks

// ContainerView is the surface panels lay themselves out in.
type ContainerView interface {
	Size() (width, height int)
}

// ResourceLoader resolves named resources shared by all panels.
type ResourceLoader interface {
	Load(id string) (string, error)
}

// Panel is the capability set the Manager depends on.
// Implementations must be comparable (pointer types).
type Panel interface {
	Name() string
	Priority() Priority
	CanBeSuppressed() bool

	SetContainerView(v ContainerView)
	SetResourceLoader(l ResourceLoader)
	OnSizeChanged(width, height int)

	// Peek tells the panel it is now the active panel.
	Peek(reason StateChangeReason)
	// Close asks the panel to close. The panel must call
	// Manager.NotifyClosed once the close has finished, either before
	// returning or after its close animation completes.
	Close(reason StateChangeReason, animate bool)
}
