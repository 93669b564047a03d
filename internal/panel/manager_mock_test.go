package panel_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"panelshell/internal/panel"
	"panelshell/internal/panel/mocks"
)

func newMockPanel(ctrl *gomock.Controller, name string, prio panel.Priority, suppressible bool) *mocks.MockPanel {
	p := mocks.NewMockPanel(ctrl)
	p.EXPECT().Name().Return(name).AnyTimes()
	p.EXPECT().Priority().Return(prio).AnyTimes()
	p.EXPECT().CanBeSuppressed().Return(suppressible).AnyTimes()
	return p
}

func TestManager_PreemptionCallSequence(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := panel.New()

	low := newMockPanel(ctrl, "low", panel.PriorityLow, true)
	high := newMockPanel(ctrl, "high", panel.PriorityHigh, false)

	gomock.InOrder(
		low.EXPECT().Peek(panel.ReasonKeyPress),
		low.EXPECT().Close(panel.ReasonSuppress, false).Do(func(r panel.StateChangeReason, _ bool) {
			m.NotifyClosed(low, r)
		}),
		high.EXPECT().Peek(panel.ReasonClick),
		high.EXPECT().Close(panel.ReasonBackPress, true).Do(func(r panel.StateChangeReason, _ bool) {
			m.NotifyClosed(high, r)
		}),
		low.EXPECT().Peek(panel.ReasonUnsuppress),
	)

	require.Equal(t, panel.ShowResultShown, m.RequestShow(low, panel.ReasonKeyPress))
	require.Equal(t, panel.ShowResultShown, m.RequestShow(high, panel.ReasonClick))
	require.Equal(t, 1, m.SuppressedQueueSize())

	m.ClosePanel(high, panel.ReasonBackPress, true)

	require.Equal(t, panel.Panel(low), m.ActivePanel())
	require.Equal(t, 0, m.SuppressedQueueSize())
}

func TestManager_AnimatedCloseWaitsForNotify(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := panel.New()

	low := newMockPanel(ctrl, "low", panel.PriorityLow, false)
	high := newMockPanel(ctrl, "high", panel.PriorityHigh, false)

	low.EXPECT().Peek(gomock.Any())
	// The close is acknowledged but not finished yet.
	low.EXPECT().Close(panel.ReasonSuppress, false)

	m.RequestShow(low, panel.ReasonUnknown)
	require.Equal(t, panel.ShowResultPending, m.RequestShow(high, panel.ReasonUnknown))
	require.Equal(t, panel.Panel(low), m.ActivePanel())

	high.EXPECT().Peek(panel.ReasonUnknown)
	m.NotifyClosed(low, panel.ReasonSuppress)

	require.Equal(t, panel.Panel(high), m.ActivePanel())
	require.Equal(t, 0, m.SuppressedQueueSize(), "non-suppressible panel must not be queued")
}

func TestManager_SharedResourcesPropagate(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := panel.New()

	container := mocks.NewMockContainerView(ctrl)
	loader := mocks.NewMockResourceLoader(ctrl)

	early := newMockPanel(ctrl, "early", panel.PriorityMedium, true)
	m.Register(early)

	early.EXPECT().SetContainerView(container)
	early.EXPECT().SetResourceLoader(loader)
	early.EXPECT().OnSizeChanged(100, 30)
	m.SetContainerView(container)
	m.SetResourceLoader(loader)
	m.OnSizeChanged(100, 30)

	late := newMockPanel(ctrl, "late", panel.PriorityMedium, true)
	late.EXPECT().SetContainerView(container)
	late.EXPECT().SetResourceLoader(loader)
	late.EXPECT().OnSizeChanged(100, 30)
	m.Register(late)

	// Registering again must not hand resources out twice.
	m.Register(late)
	require.Len(t, m.Panels(), 2)
}
