package ui

import (
	"panelshell/internal/config"
	"panelshell/internal/control"
	"panelshell/internal/panel"
)

// ShowPanelMsg asks the manager to show a panel by name.
type ShowPanelMsg struct {
	Name   string
	Reason panel.StateChangeReason
}

// ClosePanelMsg closes a panel by name; an empty name means the active
// panel. The close is animated when the shell has a close animation.
type ClosePanelMsg struct {
	Name   string
	Reason panel.StateChangeReason
}

// CloseAllMsg empties the queue and closes the active panel.
type CloseAllMsg struct {
	Reason panel.StateChangeReason
}

// QuitMsg closes every panel and exits.
type QuitMsg struct{}

// ConfigReloadedMsg carries a config re-read after the file changed.
type ConfigReloadedMsg struct {
	Config config.Config
}

// ResourcesChangedMsg lists resource ids whose files changed.
type ResourcesChangedMsg struct {
	IDs []string
}

// ControlMsg wraps a command received by the control server.
type ControlMsg struct {
	Command control.Command
}

// StatusMsg replaces the status bar message.
type StatusMsg struct {
	Text  string
	Error bool
}

// closeAnimationDoneMsg ends the close animation started with seq.
type closeAnimationDoneMsg struct {
	Name string
	Seq  int
}

// contentRefreshedMsg reports a finished content refresh.
type contentRefreshedMsg struct {
	Name string
	Err  error
}
