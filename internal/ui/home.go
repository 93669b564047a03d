package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"panelshell/internal/panel"
)

// panelItem implements list.Item for a registered panel.
type panelItem struct {
	name         string
	title        string
	key          string
	priority     panel.Priority
	suppressible bool
	state        string
}

func (i panelItem) FilterValue() string { return i.name }

func (i panelItem) Title() string {
	key := "   "
	if i.key != "" {
		key = "[" + i.key + "]"
	}
	return fmt.Sprintf("%s %s", key, i.title)
}

func (i panelItem) Description() string {
	parts := []string{i.priority.String()}
	if i.suppressible {
		parts = append(parts, "suppressible")
	}
	if i.state != "" {
		parts = append(parts, i.state)
	}
	return "    " + strings.Join(parts, " · ")
}

// HomeView is the screen under the panels: the list of panels that can be
// opened. Enter opens the selected one.
type HomeView struct {
	list          list.Model
	width, height int
}

var _ View = (*HomeView)(nil)

// NewHomeView creates an empty home screen.
func NewHomeView() *HomeView {
	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(0)
	delegate.Styles.SelectedTitle = Styles.Selected
	delegate.Styles.SelectedDesc = Styles.Muted
	delegate.Styles.NormalTitle = Styles.Normal
	delegate.Styles.NormalDesc = Styles.Muted

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Panels"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	l.Styles.Title = Styles.Title
	return &HomeView{list: l}
}

// SetItems replaces the listed panels, keeping the selection in range.
func (v *HomeView) SetItems(items []panelItem) {
	li := make([]list.Item, len(items))
	for i, it := range items {
		li[i] = it
	}
	_ = v.list.SetItems(li)
}

// SetSize sets the drawable area.
func (v *HomeView) SetSize(width, height int) {
	v.width, v.height = width, height
	v.list.SetSize(width, max(height-2, 0))
}

// Selected returns the highlighted panel name.
func (v *HomeView) Selected() (string, bool) {
	it, ok := v.list.SelectedItem().(panelItem)
	if !ok {
		return "", false
	}
	return it.name, true
}

func (v *HomeView) Init() tea.Cmd { return nil }

func (v *HomeView) Update(msg tea.Msg) (View, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "enter" {
		name, ok := v.Selected()
		if !ok {
			return v, nil
		}
		return v, func() tea.Msg { return ShowPanelMsg{Name: name, Reason: panel.ReasonClick} }
	}
	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

// View renders exactly width x height cells so panels can be placed over it.
func (v *HomeView) View() string {
	hint := Styles.Hint.Render("SPC commands · enter open · esc close panel · q quit")
	body := v.list.View() + "\n\n" + hint
	placed := lipgloss.Place(v.width, v.height, lipgloss.Left, lipgloss.Top, body)
	return lipgloss.NewStyle().MaxWidth(v.width).MaxHeight(v.height).Render(placed)
}
