// Package builder runs the external build that produces the stack binary.
package builder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

var ErrNoCommand = errors.New("empty build command")

// Command is a build invocation. With CapGrant set, a successful build is
// followed by setcap cap_net_admin+ep on that path so the produced binary can
// open the tun device without running as root.
type Command struct {
	Argv     []string
	Dir      string
	CapGrant string
}

func New(argv []string, dir, capGrant string) *Command {
	return &Command{Argv: argv, Dir: dir, CapGrant: capGrant}
}

// Build runs the command and fails on any non-zero result. Build output goes
// to stderr with the rest of the supervisor's diagnostics.
func (c *Command) Build(ctx context.Context) error {
	if len(c.Argv) == 0 {
		return ErrNoCommand
	}
	cmd := exec.CommandContext(ctx, c.Argv[0], c.Argv[1:]...)
	cmd.Dir = c.Dir
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%s exited with status %d", c.Argv[0], exitErr.ExitCode())
		}
		return fmt.Errorf("run %s: %w", c.Argv[0], err)
	}
	if c.CapGrant != "" {
		if err := c.grantCaps(ctx); err != nil {
			return fmt.Errorf("grant cap_net_admin to %s: %w", c.CapGrant, err)
		}
	}
	return nil
}

func (c *Command) grantCaps(ctx context.Context) error {
	setcap, err := exec.LookPath("setcap")
	if err != nil {
		return err
	}
	cmd := exec.CommandContext(ctx, setcap, "cap_net_admin+ep", c.CapGrant)
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
