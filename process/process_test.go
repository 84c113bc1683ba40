//go:build linux

package process

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"
)

func TestStartAndReapExitStatus(t *testing.T) {
	c, err := Start(context.Background(), "sh", []string{"-c", "exit 5"})
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if c.PID() <= 0 {
		t.Errorf("PID() = %d, want > 0", c.PID())
	}
	code, err := c.Wait()
	if err != nil {
		t.Fatalf("Wait() error: %v", err)
	}
	if code != 5 {
		t.Errorf("Wait() code = %d, want 5", code)
	}
}

func TestSignalDeathReportsShellStatus(t *testing.T) {
	c, err := Start(context.Background(), "sleep", []string{"60"})
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if err := c.Signal(syscall.SIGTERM); err != nil {
		t.Fatalf("Signal() error: %v", err)
	}
	code, err := c.Wait()
	if err != nil {
		t.Fatalf("Wait() error: %v", err)
	}
	if code != 128+int(syscall.SIGTERM) {
		t.Errorf("Wait() code = %d, want %d", code, 128+int(syscall.SIGTERM))
	}
}

func TestStartMissingBinary(t *testing.T) {
	_, err := Start(context.Background(), "/no/such/stack/binary", nil)
	if err == nil {
		t.Fatal("Start() expected error for a missing binary")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Start() error = %v, want os.ErrNotExist in the chain", err)
	}
}

func TestStartNotExecutable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stack")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Start(context.Background(), path, nil)
	if err == nil {
		t.Fatal("Start() expected error for a non-executable binary")
	}
	if !errors.Is(err, os.ErrPermission) {
		t.Errorf("Start() error = %v, want os.ErrPermission in the chain", err)
	}
}

func TestStartCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Start(ctx, "true", nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("Start() error = %v, want context.Canceled", err)
	}
}
