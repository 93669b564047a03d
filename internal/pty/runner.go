// Package pty runs commands inside a pseudo terminal so their output keeps
// the colours and layout they produce for an interactive terminal.
package pty

import (
	"context"
	"io"
	"os/exec"

	"github.com/creack/pty"
)

// Size is a terminal size in rows and columns.
type Size struct {
	Rows uint16
	Cols uint16
}

func (s Size) winsize() *pty.Winsize {
	if s.Rows == 0 {
		s.Rows = 24
	}
	if s.Cols == 0 {
		s.Cols = 80
	}
	return &pty.Winsize{Rows: s.Rows, Cols: s.Cols}
}

// Runner starts a command attached to a terminal. Closing the returned
// terminal hangs the command up.
type Runner interface {
	Start(ctx context.Context, cmd *exec.Cmd, size Size) (io.ReadWriteCloser, error)
}

// System starts commands in a real pty from the host.
type System struct{}

var _ Runner = System{}

// Start spawns cmd in a new pty. A zero Size falls back to 80x24. TERM is
// set when the caller left cmd.Env empty so programs emit colour.
func (System) Start(ctx context.Context, cmd *exec.Cmd, size Size) (io.ReadWriteCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if cmd.Env == nil {
		cmd.Env = append(cmd.Environ(), "TERM=xterm-256color")
	}
	f, err := pty.StartWithSize(cmd, size.winsize())
	if err != nil {
		return nil, err
	}
	return f, nil
}
