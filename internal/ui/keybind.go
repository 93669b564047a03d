package ui

import (
	"slices"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// LeaderSeq is the canonical name of the leader key in sequences.
const LeaderSeq = "SPC"

type binding struct {
	cmd   tea.Cmd
	desc  string
	modes []Mode
}

func (b binding) activeIn(mode Mode) bool {
	return len(b.modes) == 0 || slices.Contains(b.modes, mode)
}

// KeybindRegistry maps key sequences to commands. Sequences are space
// separated key names with the leader written as "SPC", so "SPC p n" is
// leader, then p, then n. Single keys use tea.KeyMsg names ("q", "esc").
type KeybindRegistry struct {
	bindings map[string]binding
}

func NewKeybindRegistry() *KeybindRegistry {
	return &KeybindRegistry{bindings: make(map[string]binding)}
}

// Bind registers cmd for seq in every mode, replacing an earlier binding.
func (r *KeybindRegistry) Bind(seq string, cmd tea.Cmd) {
	r.BindWithDescForMode(seq, cmd, "", nil)
}

// BindWithDesc is Bind with the label shown in the leader help box.
func (r *KeybindRegistry) BindWithDesc(seq string, cmd tea.Cmd, desc string) {
	r.BindWithDescForMode(seq, cmd, desc, nil)
}

// BindWithDescForMode limits the binding to modes. No modes means all.
func (r *KeybindRegistry) BindWithDescForMode(seq string, cmd tea.Cmd, desc string, modes []Mode) {
	r.bindings[canonicalSeq(seq)] = binding{cmd: cmd, desc: desc, modes: slices.Clone(modes)}
}

// Unbind removes seq.
func (r *KeybindRegistry) Unbind(seq string) {
	delete(r.bindings, canonicalSeq(seq))
}

// Lookup returns the command bound to seq regardless of mode.
func (r *KeybindRegistry) Lookup(seq string) tea.Cmd {
	return r.bindings[canonicalSeq(seq)].cmd
}

// LookupInMode returns the command bound to seq if it is active in mode.
func (r *KeybindRegistry) LookupInMode(seq string, mode Mode) tea.Cmd {
	b, ok := r.bindings[canonicalSeq(seq)]
	if !ok || !b.activeIn(mode) {
		return nil
	}
	return b.cmd
}

// HasPrefix reports whether some longer sequence continues seq.
func (r *KeybindRegistry) HasPrefix(seq string) bool {
	prefix := canonicalSeq(seq) + " "
	for s := range r.bindings {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

// groupLabels name first-level leader keys that open a group.
var groupLabels = map[string]string{
	"p": "Panels",
}

// LeaderHints lists the keys that may follow seq in mode, keyed by the
// next key. A key that opens a group is labelled with the group name,
// or "key…" for unnamed groups. An empty seq means right after SPC.
func (r *KeybindRegistry) LeaderHints(seq string, mode Mode) map[string]string {
	base := LeaderSeq
	if seq != "" {
		base = canonicalSeq(seq)
	}
	hints := make(map[string]string)
	for s, b := range r.bindings {
		rest, ok := strings.CutPrefix(s, base+" ")
		if !ok || b.cmd == nil || !b.activeIn(mode) {
			continue
		}
		next, _, _ := strings.Cut(rest, " ")
		switch {
		case r.HasPrefix(base + " " + next):
			if label, ok := groupLabels[next]; ok {
				hints[next] = label
			} else {
				hints[next] = next + "…"
			}
		case b.desc != "":
			hints[next] = b.desc
		default:
			hints[next] = s
		}
	}
	return hints
}

// canonicalSeq rewrites the space key, which tea reports as " " or
// "space", to SPC and collapses whitespace.
func canonicalSeq(seq string) string {
	if seq == " " {
		return LeaderSeq
	}
	parts := strings.Fields(seq)
	for i, p := range parts {
		parts[i] = seqPart(p)
	}
	return strings.Join(parts, " ")
}

func seqPart(k string) string {
	if k == " " || k == "space" {
		return LeaderSeq
	}
	return k
}

// KeyHandler tracks an in-progress leader sequence and resolves keys
// against the registry for the current Mode.
type KeyHandler struct {
	Registry      *KeybindRegistry
	Mode          Mode
	LeaderWaiting bool
	Buffer        []string
}

func NewKeyHandler(reg *KeybindRegistry) *KeyHandler {
	return &KeyHandler{Registry: reg}
}

// Sequence returns the keys typed since the leader, starting with SPC.
func (h *KeyHandler) Sequence() string {
	if len(h.Buffer) == 0 {
		return LeaderSeq
	}
	return strings.Join(h.Buffer, " ")
}

func (h *KeyHandler) reset() {
	h.LeaderWaiting = false
	h.Buffer = nil
}

// Handle resolves msg. consumed reports that the key belonged to the
// keybind layer and must not reach the focused view; cmd may be nil even
// when consumed (leader pressed, sequence incomplete or unknown).
func (h *KeyHandler) Handle(msg tea.KeyMsg) (consumed bool, cmd tea.Cmd) {
	k := seqPart(msg.String())
	switch {
	case k == "esc":
		if !h.LeaderWaiting {
			return false, nil
		}
		h.reset()
		return true, nil
	case k == LeaderSeq:
		h.LeaderWaiting = true
		h.Buffer = []string{LeaderSeq}
		return true, nil
	case h.LeaderWaiting:
		h.Buffer = append(h.Buffer, k)
		seq := h.Sequence()
		if c := h.Registry.LookupInMode(seq, h.Mode); c != nil {
			h.reset()
			return true, c
		}
		if !h.Registry.HasPrefix(seq) {
			h.reset()
		}
		return true, nil
	}
	if c := h.Registry.LookupInMode(k, h.Mode); c != nil {
		return true, c
	}
	return false, nil
}

// KeyMap adapts the handler's pending hints to help.KeyMap.
type KeyMap struct {
	handler *KeyHandler
}

var _ help.KeyMap = KeyMap{}

func NewKeyMap(h *KeyHandler) KeyMap { return KeyMap{handler: h} }

// ShortHelp returns one binding per next key, sorted, then esc.
func (km KeyMap) ShortHelp() []key.Binding {
	if km.handler == nil || km.handler.Registry == nil {
		return nil
	}
	seq := ""
	if len(km.handler.Buffer) > 0 {
		seq = km.handler.Sequence()
	}
	hints := km.handler.Registry.LeaderHints(seq, km.handler.Mode)
	if len(hints) == 0 {
		return nil
	}
	keys := make([]string, 0, len(hints))
	for k := range hints {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]key.Binding, 0, len(keys)+1)
	for _, k := range keys {
		out = append(out, key.NewBinding(key.WithKeys(k), key.WithHelp(k, hints[k])))
	}
	return append(out, key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")))
}

func (km KeyMap) FullHelp() [][]key.Binding {
	if short := km.ShortHelp(); len(short) > 0 {
		return [][]key.Binding{short}
	}
	return nil
}

// RenderKeybindHelp draws the hint box shown while a leader sequence is
// being typed, prefixed with the keys typed so far.
func RenderKeybindHelp(h *KeyHandler) string {
	if h == nil {
		return ""
	}
	bindings := NewKeyMap(h).ShortHelp()
	if len(bindings) == 0 {
		return ""
	}
	hm := help.New()
	hm.Styles.ShortKey = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHighlight)).Bold(true)
	hm.Styles.ShortDesc = Styles.Hint
	hm.Styles.ShortSeparator = Styles.Hint

	return Styles.LeaderBox.Render(Styles.Hint.Render(h.Sequence()) + " " + hm.ShortHelpView(bindings))
}
