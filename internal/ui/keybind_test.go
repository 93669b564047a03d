package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeybindRegistry_Lookup(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.Bind("q", tea.Quit)
	reg.Bind("space q", tea.Quit)

	assert.NotNil(t, reg.Lookup("q"))
	assert.NotNil(t, reg.Lookup("SPC q"), "space is stored as SPC")
	assert.NotNil(t, reg.Lookup("SPC  q"))
	assert.Nil(t, reg.Lookup("SPC w"))
}

func TestKeybindRegistry_UnbindClearsGroup(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.BindWithDesc("SPC p n", tea.Quit, "Notes")
	require.True(t, reg.HasPrefix("SPC p"))

	reg.Unbind("SPC p n")
	assert.Nil(t, reg.Lookup("SPC p n"))
	assert.False(t, reg.HasPrefix("SPC p"))
}

func TestKeybindRegistry_LeaderHints(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.BindWithDesc("SPC q", tea.Quit, "Quit")
	reg.BindWithDesc("SPC p n", tea.Quit, "Notes")
	reg.BindWithDesc("SPC p h", tea.Quit, "Help")
	reg.BindWithDesc("SPC g a", tea.Quit, "A")
	reg.BindWithDescForMode("SPC x", tea.Quit, "Close", []Mode{ModePanel})
	reg.Bind("q", tea.Quit)

	assert.Equal(t, map[string]string{
		"q": "Quit",
		"p": "Panels",
		"g": "g…",
	}, reg.LeaderHints("", ModeHome))
	assert.Contains(t, reg.LeaderHints("", ModePanel), "x")
	assert.Equal(t, map[string]string{"n": "Notes", "h": "Help"}, reg.LeaderHints("SPC p", ModeHome))
}

func TestKeyHandler(t *testing.T) {
	tests := []struct {
		name     string
		mode     Mode
		keys     []string
		consumed bool
		fires    bool
		waiting  bool
	}{
		{name: "leader waits", keys: []string{" "}, consumed: true, waiting: true},
		{name: "leader sequence fires", keys: []string{" ", "x"}, mode: ModePanel, consumed: true, fires: true},
		{name: "sequence outside mode is swallowed", keys: []string{" ", "x"}, mode: ModeHome, consumed: true},
		{name: "group keeps waiting", keys: []string{" ", "p"}, consumed: true, waiting: true},
		{name: "group member fires", keys: []string{" ", "p", "n"}, consumed: true, fires: true},
		{name: "unknown leader key resets", keys: []string{" ", "z"}, consumed: true},
		{name: "esc cancels leader", keys: []string{" ", "esc"}, consumed: true},
		{name: "esc passes through", keys: []string{"esc"}},
		{name: "single key", keys: []string{"q"}, consumed: true, fires: true},
		{name: "unbound key passes through", keys: []string{"j"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewKeybindRegistry()
			reg.Bind("q", tea.Quit)
			reg.BindWithDescForMode("SPC x", tea.Quit, "Close", []Mode{ModePanel})
			reg.BindWithDesc("SPC p n", tea.Quit, "Notes")
			h := NewKeyHandler(reg)
			h.Mode = tt.mode

			var consumed bool
			var cmd tea.Cmd
			for _, k := range tt.keys {
				consumed, cmd = h.Handle(keyMsg(k))
			}
			assert.Equal(t, tt.consumed, consumed, "consumed")
			assert.Equal(t, tt.fires, cmd != nil, "fires")
			assert.Equal(t, tt.waiting, h.LeaderWaiting, "waiting")
			if !tt.waiting {
				assert.Empty(t, h.Buffer)
			}
		})
	}
}

func TestRenderKeybindHelp(t *testing.T) {
	reg := NewKeybindRegistry()
	reg.BindWithDesc("SPC p n", tea.Quit, "Notes")
	reg.BindWithDesc("SPC q", tea.Quit, "Quit")
	h := NewKeyHandler(reg)

	assert.Empty(t, RenderKeybindHelp(nil))

	h.Handle(keyMsg(" "))
	out := RenderKeybindHelp(h)
	assert.Contains(t, out, "Panels")
	assert.Contains(t, out, "Quit")
	assert.Contains(t, out, "cancel")

	h.Handle(keyMsg("p"))
	out = RenderKeybindHelp(h)
	assert.Contains(t, out, "SPC p")
	assert.Contains(t, out, "Notes")
}

// keyMsg builds the tea.KeyMsg a terminal would deliver for s.
func keyMsg(s string) tea.KeyMsg {
	switch s {
	case " ", "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}
