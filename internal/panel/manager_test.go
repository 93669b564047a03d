package panel

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePanel stands in for a real overlay panel. Close finishes
// immediately unless async is set, in which case the test calls
// finishClose to end the "animation".
type fakePanel struct {
	Base
	async     bool
	closeArgs []StateChangeReason
	peeks     []StateChangeReason
}

func newFakePanel(m *Manager, name string, priority Priority, suppressible bool) *fakePanel {
	p := &fakePanel{}
	p.Init(m, p, Options{Name: name, Priority: priority, Suppressible: suppressible})
	return p
}

func (p *fakePanel) Peek(reason StateChangeReason) {
	p.peeks = append(p.peeks, reason)
	p.Base.Peek(reason)
}

func (p *fakePanel) Close(reason StateChangeReason, animate bool) {
	p.closeArgs = append(p.closeArgs, reason)
	if p.async && p.IsShowing() {
		p.BeginClose(reason)
		return
	}
	p.OnClosed(reason)
}

func (p *fakePanel) finishClose() {
	p.OnClosed(p.LastReason())
}

type fakeContainer struct{ w, h int }

func (c *fakeContainer) Size() (int, int) { return c.w, c.h }

type fakeLoader struct{}

func (fakeLoader) Load(id string) (string, error) {
	return "", errors.New("not found")
}

func TestManager_PanelRequestingShow(t *testing.T) {
	m := New()
	p := newFakePanel(m, "contextual", PriorityMedium, false)

	res := p.RequestShow(ReasonUnknown)

	require.Equal(t, ShowResultShown, res)
	require.Equal(t, Panel(p), m.ActivePanel())
	require.True(t, p.IsShowing())
}

func TestManager_PanelClosed(t *testing.T) {
	m := New()
	p := newFakePanel(m, "contextual", PriorityMedium, false)

	p.RequestShow(ReasonUnknown)
	p.ClosePanel(ReasonUnknown, false)

	require.Nil(t, m.ActivePanel())
	require.Equal(t, StateClosed, p.State())
}

func TestManager_HighPrioritySuppressingLowPriority(t *testing.T) {
	m := New()
	low := newFakePanel(m, "low", PriorityLow, false)
	high := newFakePanel(m, "high", PriorityHigh, false)

	low.RequestShow(ReasonUnknown)
	res := high.RequestShow(ReasonUnknown)

	require.Equal(t, ShowResultShown, res)
	require.Equal(t, Panel(high), m.ActivePanel())
	require.Equal(t, []StateChangeReason{ReasonSuppress}, low.closeArgs)
}

func TestManager_SuppressedPanelRestored(t *testing.T) {
	m := New()
	low := newFakePanel(m, "low", PriorityLow, true)
	high := newFakePanel(m, "high", PriorityHigh, false)

	low.RequestShow(ReasonUnknown)
	high.RequestShow(ReasonUnknown)
	require.Equal(t, 1, m.SuppressedQueueSize())

	high.ClosePanel(ReasonUnknown, false)

	require.Equal(t, Panel(low), m.ActivePanel())
	require.Equal(t, ReasonUnsuppress, low.peeks[len(low.peeks)-1])
	require.Equal(t, 0, m.SuppressedQueueSize())
}

func TestManager_UnsuppressiblePanelNotRestored(t *testing.T) {
	m := New()
	low := newFakePanel(m, "low", PriorityLow, false)
	high := newFakePanel(m, "high", PriorityHigh, false)

	low.RequestShow(ReasonUnknown)
	high.RequestShow(ReasonUnknown)
	high.ClosePanel(ReasonUnknown, false)

	require.Nil(t, m.ActivePanel())
	require.Equal(t, 0, m.SuppressedQueueSize())
}

func TestManager_SuppressedPanelClosedBeforeRestore(t *testing.T) {
	m := New()
	low := newFakePanel(m, "low", PriorityLow, true)
	high := newFakePanel(m, "high", PriorityHigh, false)

	low.RequestShow(ReasonUnknown)
	high.RequestShow(ReasonUnknown)
	low.ClosePanel(ReasonUnknown, false)
	high.ClosePanel(ReasonUnknown, false)

	require.Nil(t, m.ActivePanel())
	require.Equal(t, 0, m.SuppressedQueueSize())
}

func TestManager_SuppressedPanelPriority(t *testing.T) {
	m := New()
	low := newFakePanel(m, "low", PriorityLow, true)
	medium := newFakePanel(m, "medium", PriorityMedium, true)
	high := newFakePanel(m, "high", PriorityHigh, false)

	// Only one panel is showing, should be medium priority.
	medium.RequestShow(ReasonUnknown)
	require.Equal(t, Panel(medium), m.ActivePanel())

	high.RequestShow(ReasonUnknown)
	require.Equal(t, Panel(high), m.ActivePanel())

	// Low priority is queued behind high.
	require.Equal(t, ShowResultSuppressed, low.RequestShow(ReasonUnknown))
	require.Equal(t, Panel(high), m.ActivePanel())

	high.ClosePanel(ReasonUnknown, false)
	require.Equal(t, Panel(medium), m.ActivePanel())

	medium.ClosePanel(ReasonUnknown, false)
	require.Equal(t, Panel(low), m.ActivePanel())

	low.ClosePanel(ReasonUnknown, false)
	require.Nil(t, m.ActivePanel())
	require.Equal(t, 0, m.SuppressedQueueSize())
}

func TestManager_SuppressedPanelOrder(t *testing.T) {
	m := New()
	low := newFakePanel(m, "low", PriorityLow, true)
	medium := newFakePanel(m, "medium", PriorityMedium, true)
	high := newFakePanel(m, "high", PriorityHigh, false)

	// Odd ordering for showing panels should still produce ordered suppression.
	high.RequestShow(ReasonUnknown)
	low.RequestShow(ReasonUnknown)
	medium.RequestShow(ReasonUnknown)

	require.Equal(t, 2, m.SuppressedQueueSize())
	require.Equal(t, []Panel{medium, low}, m.SuppressedPanels())

	high.ClosePanel(ReasonUnknown, false)
	require.Equal(t, Panel(medium), m.ActivePanel())

	medium.ClosePanel(ReasonUnknown, false)
	require.Equal(t, Panel(low), m.ActivePanel())

	low.ClosePanel(ReasonUnknown, false)
	require.Nil(t, m.ActivePanel())
	require.Equal(t, 0, m.SuppressedQueueSize())
}

func TestManager_EqualPriorityIsFIFO(t *testing.T) {
	m := New()
	high := newFakePanel(m, "high", PriorityHigh, false)
	first := newFakePanel(m, "first", PriorityMedium, true)
	second := newFakePanel(m, "second", PriorityMedium, true)
	third := newFakePanel(m, "third", PriorityMedium, true)

	high.RequestShow(ReasonUnknown)
	first.RequestShow(ReasonUnknown)
	second.RequestShow(ReasonUnknown)
	third.RequestShow(ReasonUnknown)

	require.Equal(t, []Panel{first, second, third}, m.SuppressedPanels())
}

func TestManager_EqualPriorityRequestIsSuppressed(t *testing.T) {
	m := New()
	a := newFakePanel(m, "a", PriorityMedium, true)
	b := newFakePanel(m, "b", PriorityMedium, false)
	c := newFakePanel(m, "c", PriorityMedium, true)

	a.RequestShow(ReasonUnknown)

	require.Equal(t, ShowResultDropped, b.RequestShow(ReasonUnknown))
	require.Equal(t, ShowResultSuppressed, c.RequestShow(ReasonUnknown))
	require.Equal(t, Panel(a), m.ActivePanel())
	require.Equal(t, []Panel{c}, m.SuppressedPanels())
}

func TestManager_RepeatedRequestNotQueuedTwice(t *testing.T) {
	m := New()
	high := newFakePanel(m, "high", PriorityHigh, false)
	low := newFakePanel(m, "low", PriorityLow, true)

	high.RequestShow(ReasonUnknown)
	low.RequestShow(ReasonUnknown)
	low.RequestShow(ReasonUnknown)

	require.Equal(t, 1, m.SuppressedQueueSize())
	require.Equal(t, ShowResultIgnored, high.RequestShow(ReasonUnknown))
}

func TestManager_QueuedPanelPreemptingLeavesQueue(t *testing.T) {
	m := New()
	low := newFakePanel(m, "low", PriorityLow, true)
	low.async = true
	medium := newFakePanel(m, "medium", PriorityMedium, true)
	high := newFakePanel(m, "high", PriorityHigh, false)

	low.RequestShow(ReasonUnknown)
	high.RequestShow(ReasonUnknown)
	medium.RequestShow(ReasonUnknown)
	require.Equal(t, []Panel{medium}, m.SuppressedPanels())

	// Cancel the pending panel while low is still animating out.
	high.ClosePanel(ReasonBackPress, false)
	require.Nil(t, m.PendingPanel())

	require.Equal(t, ShowResultPending, medium.RequestShow(ReasonUnknown))
	require.Equal(t, 0, m.SuppressedQueueSize())

	low.finishClose()

	require.Equal(t, Panel(medium), m.ActivePanel())
	require.Equal(t, []Panel{low}, m.SuppressedPanels())
}

func TestManager_LatePanelGetsNecessaryVars(t *testing.T) {
	m := New()
	early := newFakePanel(m, "early", PriorityMedium, true)

	container := &fakeContainer{w: 80, h: 24}
	loader := fakeLoader{}
	m.SetContainerView(container)
	m.SetResourceLoader(loader)
	m.OnSizeChanged(80, 24)

	late := newFakePanel(m, "late", PriorityMedium, true)

	require.Same(t, early.ContainerView(), late.ContainerView())
	require.Equal(t, early.ResourceLoader(), late.ResourceLoader())
	w, h := late.Size()
	require.Equal(t, 80, w)
	require.Equal(t, 24, h)
}

func TestManager_ImplicitRegistrationOnShow(t *testing.T) {
	m := New()
	container := &fakeContainer{w: 10, h: 5}
	m.SetContainerView(container)

	// Not initialised against m; the show request registers it.
	p := &fakePanel{}
	p.Init(nil, p, Options{Name: "stray", Priority: PriorityLow})

	m.RequestShow(p, ReasonUnknown)

	require.Same(t, container, p.ContainerView())
	require.Len(t, m.Panels(), 1)
}

func TestManager_AnimatedPreemptionIsPending(t *testing.T) {
	m := New()
	low := newFakePanel(m, "low", PriorityLow, true)
	low.async = true
	high := newFakePanel(m, "high", PriorityHigh, false)

	low.RequestShow(ReasonUnknown)
	res := high.RequestShow(ReasonClick)

	require.Equal(t, ShowResultPending, res)
	require.Equal(t, Panel(low), m.ActivePanel())
	require.Equal(t, Panel(high), m.PendingPanel())
	require.Equal(t, StateClosing, low.State())

	low.finishClose()

	require.Equal(t, Panel(high), m.ActivePanel())
	require.Nil(t, m.PendingPanel())
	require.Equal(t, []Panel{low}, m.SuppressedPanels())
	require.Equal(t, []StateChangeReason{ReasonClick}, high.peeks)
}

func TestManager_HigherRequestReplacesPending(t *testing.T) {
	m := New()
	low := newFakePanel(m, "low", PriorityLow, true)
	low.async = true
	medium := newFakePanel(m, "medium", PriorityMedium, true)
	high := newFakePanel(m, "high", PriorityHigh, false)

	low.RequestShow(ReasonUnknown)
	require.Equal(t, ShowResultPending, medium.RequestShow(ReasonUnknown))
	require.Equal(t, ShowResultPending, high.RequestShow(ReasonUnknown))

	require.Equal(t, Panel(high), m.PendingPanel())
	require.Equal(t, []Panel{medium}, m.SuppressedPanels())

	low.finishClose()

	require.Equal(t, Panel(high), m.ActivePanel())
	require.Equal(t, []Panel{medium, low}, m.SuppressedPanels())
}

func TestManager_ClosingPendingRestoresSuppressedActive(t *testing.T) {
	m := New()
	low := newFakePanel(m, "low", PriorityLow, true)
	low.async = true
	high := newFakePanel(m, "high", PriorityHigh, false)

	low.RequestShow(ReasonUnknown)
	high.RequestShow(ReasonUnknown)
	high.ClosePanel(ReasonBackPress, false)
	require.Nil(t, m.PendingPanel())

	low.finishClose()

	// Nothing replaced low, so it comes straight back from the queue.
	require.Equal(t, Panel(low), m.ActivePanel())
	require.Equal(t, 0, m.SuppressedQueueSize())
}

func TestManager_UntrackedCloseIgnored(t *testing.T) {
	m := New()
	a := newFakePanel(m, "a", PriorityLow, true)
	b := newFakePanel(m, "b", PriorityLow, true)

	a.RequestShow(ReasonUnknown)
	b.ClosePanel(ReasonUnknown, false)

	require.Equal(t, Panel(a), m.ActivePanel())
	require.Empty(t, b.closeArgs)
}

func TestManager_CloseAll(t *testing.T) {
	m := New()
	low := newFakePanel(m, "low", PriorityLow, true)
	medium := newFakePanel(m, "medium", PriorityMedium, true)
	high := newFakePanel(m, "high", PriorityHigh, false)

	low.RequestShow(ReasonUnknown)
	medium.RequestShow(ReasonUnknown)
	high.RequestShow(ReasonUnknown)

	m.CloseAll(ReasonShutdown)

	require.Nil(t, m.ActivePanel())
	require.Equal(t, 0, m.SuppressedQueueSize())
	require.Equal(t, ReasonShutdown, high.LastReason())
}

func TestManager_Unregister(t *testing.T) {
	m := New()
	low := newFakePanel(m, "low", PriorityLow, true)
	high := newFakePanel(m, "high", PriorityHigh, false)

	low.RequestShow(ReasonUnknown)
	high.RequestShow(ReasonUnknown)

	m.Unregister(high)

	require.Equal(t, Panel(low), m.ActivePanel())
	require.Len(t, m.Panels(), 1)

	m.Unregister(low)
	require.Nil(t, m.ActivePanel())
	require.Empty(t, m.Panels())
}

func TestManager_Events(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	m := New(WithClock(func() time.Time { return at }))
	var kinds []EventKind
	unsubscribe := m.Subscribe(func(ev Event) {
		kinds = append(kinds, ev.Kind)
		assert.Equal(t, at, ev.At)
	})

	low := newFakePanel(m, "low", PriorityLow, true)
	lowNS := newFakePanel(m, "low-ns", PriorityLow, false)
	high := newFakePanel(m, "high", PriorityHigh, false)

	low.RequestShow(ReasonUnknown)
	high.RequestShow(ReasonUnknown)
	lowNS.RequestShow(ReasonUnknown)
	high.ClosePanel(ReasonUnknown, false)

	require.Equal(t, []EventKind{
		EventShown,
		EventSuppressed, EventShown,
		EventDropped,
		EventClosed, EventRestored,
	}, kinds)

	unsubscribe()
	low.ClosePanel(ReasonUnknown, false)
	require.Len(t, kinds, 6)
}

func TestManager_DiscardEvent(t *testing.T) {
	m := New()
	var got []Event
	m.Subscribe(func(ev Event) { got = append(got, ev) })

	low := newFakePanel(m, "low", PriorityLow, false)
	high := newFakePanel(m, "high", PriorityHigh, false)
	low.RequestShow(ReasonUnknown)
	high.RequestShow(ReasonKeyPress)

	require.Len(t, got, 3)
	require.Equal(t, EventDiscarded, got[1].Kind)
	require.Equal(t, "low", got[1].Panel)
	require.Equal(t, ReasonSuppress, got[1].Reason)
	require.Equal(t, EventShown, got[2].Kind)
	require.Equal(t, ReasonKeyPress, got[2].Reason)
	require.True(t, got[2].Visible())
}

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in      string
		want    Priority
		wantErr bool
	}{
		{"low", PriorityLow, false},
		{"MEDIUM", PriorityMedium, false},
		{" High ", PriorityHigh, false},
		{"", PriorityMedium, false},
		{"urgent", PriorityLow, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePriority(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParseReason(t *testing.T) {
	require.Equal(t, ReasonBackPress, ParseReason("back_press"))
	require.Equal(t, ReasonUnknown, ParseReason("nope"))
	require.Equal(t, "remote", ReasonRemote.String())
}

func TestManager_CallerSuppressReasonIsPlainClose(t *testing.T) {
	tests := []struct {
		name         string
		suppressible bool
	}{
		{"suppressible", true},
		{"not suppressible", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New()
			var kinds []EventKind
			m.Subscribe(func(ev Event) { kinds = append(kinds, ev.Kind) })
			p := newFakePanel(m, "low", PriorityLow, tt.suppressible)

			p.RequestShow(ReasonUnknown)
			p.ClosePanel(ReasonSuppress, false)

			require.Nil(t, m.ActivePanel())
			require.Zero(t, m.SuppressedQueueSize())
			require.Equal(t, []StateChangeReason{ReasonUnknown}, p.peeks)
			require.Equal(t, []EventKind{EventShown, EventClosed}, kinds)
		})
	}
}

func TestManager_CallerSuppressReasonPromotesQueue(t *testing.T) {
	m := New()
	low := newFakePanel(m, "low", PriorityLow, true)
	high := newFakePanel(m, "high", PriorityHigh, true)

	low.RequestShow(ReasonUnknown)
	high.RequestShow(ReasonUnknown)
	require.Equal(t, []Panel{low}, m.SuppressedPanels())

	high.ClosePanel(ReasonSuppress, false)

	require.Equal(t, Panel(low), m.ActivePanel())
	require.Zero(t, m.SuppressedQueueSize(), "closed panel must not be queued")
}

func TestManager_PreemptedPanelClosingForOtherReason(t *testing.T) {
	m := New()
	low := newFakePanel(m, "low", PriorityLow, true)
	low.async = true
	high := newFakePanel(m, "high", PriorityHigh, false)

	low.RequestShow(ReasonUnknown)
	require.Equal(t, ShowResultPending, high.RequestShow(ReasonClick))

	// The panel reports a close it was already running, not the hand-off.
	low.OnClosed(ReasonBackPress)

	require.Equal(t, Panel(high), m.ActivePanel())
	require.Zero(t, m.SuppressedQueueSize())

	// A later caller close with ReasonSuppress is not a hand-off either.
	high.ClosePanel(ReasonSuppress, false)
	require.Nil(t, m.ActivePanel())
	require.Zero(t, m.SuppressedQueueSize())
}
