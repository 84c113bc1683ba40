//go:build !linux

package process

import "os"

func exitStatus(ps *os.ProcessState) int {
	return ps.ExitCode()
}
