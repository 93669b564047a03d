package ui

// Mode is what the shell is showing; keybind hints can be limited to a mode.
type Mode int

const (
	ModeHome Mode = iota
	ModePanel
)

func (m Mode) String() string {
	switch m {
	case ModeHome:
		return "Home"
	case ModePanel:
		return "Panel"
	default:
		return "Unknown"
	}
}
