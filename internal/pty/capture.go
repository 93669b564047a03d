package pty

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os/exec"
	"syscall"
)

// ErrTruncated is returned by Capture when output reached the byte limit.
var ErrTruncated = errors.New("output truncated")

// Capture runs cmd in a pty and collects its output until the command
// exits, ctx is done, or limit bytes were read (limit <= 0 means no limit).
// The output read so far is returned alongside any error.
func Capture(ctx context.Context, r Runner, cmd *exec.Cmd, size Size, limit int) ([]byte, error) {
	term, err := r.Start(ctx, cmd, size)
	if err != nil {
		return nil, fmt.Errorf("starting %s: %w", cmd.Path, err)
	}
	kill := func() {
		_ = term.Close()
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
	}
	stop := context.AfterFunc(ctx, kill)
	defer stop()

	var src io.Reader = term
	if limit > 0 {
		src = io.LimitReader(term, int64(limit))
	}
	var buf bytes.Buffer
	_, readErr := io.Copy(&buf, src)
	truncated := limit > 0 && buf.Len() >= limit
	if truncated {
		kill()
	} else {
		_ = term.Close()
	}

	var waitErr error
	if cmd.Process != nil {
		waitErr = cmd.Wait()
	}

	switch {
	case ctx.Err() != nil:
		return buf.Bytes(), fmt.Errorf("%s: %w", cmd.Path, ctx.Err())
	case truncated:
		return buf.Bytes(), fmt.Errorf("%s: %w after %d bytes", cmd.Path, ErrTruncated, limit)
	case readErr != nil && !endOfTerminal(readErr):
		return buf.Bytes(), fmt.Errorf("reading %s: %w", cmd.Path, readErr)
	case waitErr != nil:
		return buf.Bytes(), fmt.Errorf("%s: %w", cmd.Path, waitErr)
	}
	return buf.Bytes(), nil
}

// endOfTerminal reports whether err is how a pty signals the child hung up.
func endOfTerminal(err error) bool {
	return errors.Is(err, syscall.EIO) || errors.Is(err, fs.ErrClosed)
}
