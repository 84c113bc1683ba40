// Package process launches and reaps the stack binary as a detached child.
package process

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// Start spawns the stack binary in the background and returns immediately.
// The child shares the supervisor's stderr for its diagnostics; stdin is
// closed so the stack cannot block on it.
func Start(ctx context.Context, bin string, args []string) (*Child, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cmd := exec.Command(bin, args...)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	cmd.Stdin = nil

	if err := cmd.Start(); err != nil {
		switch {
		case errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("stack binary %s not found: %w", bin, err)
		case errors.Is(err, os.ErrPermission):
			return nil, fmt.Errorf("stack binary %s not executable: %w", bin, err)
		}
		return nil, fmt.Errorf("start %s: %w", bin, err)
	}
	return &Child{cmd: cmd}, nil
}

// Child is a running stack process. It must be reaped exactly once via Wait.
type Child struct {
	cmd *exec.Cmd
}

func (c *Child) PID() int {
	return c.cmd.Process.Pid
}

func (c *Child) Signal(sig os.Signal) error {
	return c.cmd.Process.Signal(sig)
}

// Wait blocks until the child exits and returns its exit status. A child
// killed by a signal reports 128+signum, matching what a shell wait would
// have produced.
func (c *Child) Wait() (int, error) {
	err := c.cmd.Wait()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitStatus(exitErr.ProcessState), nil
	}
	return 1, fmt.Errorf("wait for %s: %w", c.cmd.Path, err)
}
