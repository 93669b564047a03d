package ui

import (
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"panelshell/internal/panel"
)

// PromptPanelName is the registered name of the prompt.
const PromptPanelName = "prompt"

// PromptPanel asks for the name of a panel to open. It is high priority
// and can't be suppressed: a prompt that loses to another panel is gone.
type PromptPanel struct {
	ShellPanel
	input textinput.Model
	names func() []string
}

var _ OverlayPanel = (*PromptPanel)(nil)

// NewPromptPanel creates the prompt. names lists the panels it can open.
func NewPromptPanel(m *panel.Manager, schedule Scheduler, closeAnimation time.Duration, names func() []string) *PromptPanel {
	p := &PromptPanel{names: names}
	p.input = textinput.New()
	p.input.Prompt = "open › "
	p.input.Placeholder = "panel name"
	p.input.ShowSuggestions = true
	p.input.Cursor.SetMode(cursor.CursorStatic)
	p.setup(m, p, schedule, PanelOptions{
		Options: panel.Options{
			Name:     PromptPanelName,
			Priority: panel.PriorityHigh,
		},
		Title:          "Open panel",
		CloseAnimation: closeAnimation,
	})
	return p
}

// CapturesKeys reports whether key presses should go to the prompt
// before the shell's keybinds.
func (p *PromptPanel) CapturesKeys() bool {
	return p.State() == panel.StatePeeking
}

// Value returns the current input.
func (p *PromptPanel) Value() string { return p.input.Value() }

func (p *PromptPanel) Peek(reason panel.StateChangeReason) {
	p.ShellPanel.Peek(reason)
	p.input.Reset()
	p.input.SetSuggestions(p.candidates())
	p.input.Focus()
}

func (p *PromptPanel) Close(reason panel.StateChangeReason, animate bool) {
	p.input.Blur()
	p.ShellPanel.Close(reason, animate)
}

func (p *PromptPanel) OnSizeChanged(width, height int) {
	p.ShellPanel.OnSizeChanged(width, height)
	w, _ := p.innerSize()
	p.input.Width = max(w-len(p.input.Prompt)-1, 1)
}

func (p *PromptPanel) candidates() []string {
	if p.names == nil {
		return nil
	}
	return slices.DeleteFunc(slices.Clone(p.names()), func(n string) bool { return n == PromptPanelName })
}

// Update handles typing; enter closes the prompt and opens the panel.
func (p *PromptPanel) Update(msg tea.Msg) (View, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "enter":
			name := strings.TrimSpace(p.input.Value())
			if name == "" {
				return p, nil
			}
			p.ClosePanel(panel.ReasonKeyPress, false)
			return p, func() tea.Msg {
				return ShowPanelMsg{Name: name, Reason: panel.ReasonKeyPress}
			}
		case "esc":
			p.ClosePanel(panel.ReasonBackPress, true)
			return p, nil
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p *PromptPanel) View() string {
	var b strings.Builder
	b.WriteString(p.input.View())
	b.WriteString("\n\n")
	prefix := strings.TrimSpace(p.input.Value())
	var matches []string
	for _, n := range p.candidates() {
		if strings.HasPrefix(n, prefix) {
			matches = append(matches, n)
		}
	}
	if len(matches) == 0 {
		b.WriteString(Styles.Empty.Render("no matching panel"))
	} else {
		b.WriteString(Styles.Hint.Render(strings.Join(matches, "  ")))
	}
	b.WriteString("\n\n")
	b.WriteString(Styles.Hint.Render("tab: complete  enter: open  esc: cancel"))
	return p.render(b.String())
}
