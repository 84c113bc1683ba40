//go:build linux

package process

import (
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

func exitStatus(ps *os.ProcessState) int {
	if sws, ok := ps.Sys().(syscall.WaitStatus); ok {
		ws := unix.WaitStatus(sws)
		if ws.Signaled() {
			return 128 + int(ws.Signal())
		}
	}
	return ps.ExitCode()
}
