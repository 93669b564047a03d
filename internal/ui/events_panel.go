package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"panelshell/internal/content"
	"panelshell/internal/panel"
	"panelshell/internal/trace"
	"panelshell/internal/ui/textutil"
)

// EventsPanelName is the registered name of the events panel.
const EventsPanelName = "events"

// NewEventsPanel creates a low priority, suppressible panel showing the
// session trace and recent manager events.
func NewEventsPanel(m *panel.Manager, schedule Scheduler, closeAnimation time.Duration, rec *trace.Recorder) *ShellPanel {
	return NewShellPanel(m, schedule, PanelOptions{
		Options: panel.Options{
			Name:         EventsPanelName,
			Priority:     panel.PriorityLow,
			Suppressible: true,
		},
		Title:          "Panel events",
		CloseAnimation: closeAnimation,
		Content: func(panel.ResourceLoader) (content.Content, error) {
			return &eventsContent{rec: rec, limit: 50}, nil
		},
	})
}

// eventsContent renders from the recorder on every frame.
type eventsContent struct {
	rec   *trace.Recorder
	limit int
}

func (c *eventsContent) Refresh(context.Context) error { return nil }

func (c *eventsContent) Render(width int) string {
	if c.rec == nil {
		return Styles.Empty.Render("tracing unavailable")
	}
	tr := c.rec.Trace()
	lines := renderTrace(&tr, width)
	lines = append(lines, "", Styles.Title.Render("Recent events"))
	events := c.rec.Recent(c.limit)
	if len(events) == 0 {
		lines = append(lines, Styles.Empty.Render("  (no events yet)"))
	}
	for _, ev := range events {
		lines = append(lines, textutil.TruncateStyled(formatEvent(ev), width))
	}
	return strings.Join(lines, "\n")
}

func formatEvent(ev panel.Event) string {
	return fmt.Sprintf("%s %-10s %-12s %s/%s q=%d",
		Styles.Muted.Render(ev.At.Format("15:04:05")),
		kindStyle(ev.Kind).Render(string(ev.Kind)),
		ev.Panel,
		ev.Priority,
		ev.Reason,
		ev.QueueSize,
	)
}

func kindStyle(k panel.EventKind) lipgloss.Style {
	switch k {
	case panel.EventShown, panel.EventRestored:
		return Styles.Status
	case panel.EventDropped, panel.EventDiscarded:
		return Styles.Error
	default:
		return Styles.Muted
	}
}

// renderTrace draws the session as a tree of panel spans.
func renderTrace(t *trace.Trace, width int) []string {
	root := t.RootSpan
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Render("✓ " + t.Status)
	if t.Status == trace.StatusRunning {
		status = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarning)).Render("● " + t.Status)
	}
	lines := []string{
		Styles.Title.Render(fmt.Sprintf("Session %s", shortTraceID(t.ID))) + " " + status,
	}
	if root == nil || len(root.Children) == 0 {
		return append(lines, Styles.Muted.Render("  (no panels shown yet)"))
	}
	for i, span := range root.Children {
		connector := "├─"
		if i == len(root.Children)-1 {
			connector = "└─"
		}
		dur := "open"
		if span.Duration > 0 {
			dur = formatDuration(span.Duration)
		}
		outcome := span.Attributes["outcome"]
		line := fmt.Sprintf("%s %s %s", connector, span.Name, Styles.Muted.Render(dur))
		if outcome != "" {
			line += " " + Styles.Hint.Render("→ "+outcome)
		}
		lines = append(lines, textutil.TruncateStyled(line, width))
	}
	return lines
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

func shortTraceID(id string) string {
	if len(id) > 16 {
		return id[:16]
	}
	return id
}
