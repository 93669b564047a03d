// Package ui is the terminal shell that hosts overlay panels.
//
// The shell draws a home screen and, on top of it, the single panel the
// panel manager has made active. Panels ask to be shown through messages
// (keybinds, the prompt, the control server); the manager decides whether
// they show now, wait for the current panel to finish closing, wait in the
// suppressed queue, or are dropped.
//
// Core pieces:
//   - ShellModel: root tea.Model, owns the manager and routes messages
//   - ShellPanel: bordered panel with scrolling content and animated close
//   - PromptPanel: high priority panel that opens other panels by name
//   - EventsPanel: trace of panel transitions for the current session
//   - Container: the drawable area handed to panels by the manager
//   - KeybindRegistry/KeyHandler: spacemacs-style leader bindings
package ui
