package content

import (
	"context"
	"os"
	"os/exec"
)

func shellCommand(ctx context.Context, command string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, "/bin/sh", "-c", command)
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")
	return cmd
}
