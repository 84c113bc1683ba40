//go:build linux

package iface

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// PreflightNetAdmin reports whether the current process holds CAP_NET_ADMIN
// in its effective set. Configure will fail with ErrNotPermitted without it.
func PreflightNetAdmin() error {
	hdr := unix.CapUserHeader{Version: unix.LINUX_CAPABILITY_VERSION_3}
	var data [2]unix.CapUserData
	if err := unix.Capget(&hdr, &data[0]); err != nil {
		return fmt.Errorf("capget: %w", err)
	}
	if data[0].Effective&(1<<unix.CAP_NET_ADMIN) == 0 {
		return fmt.Errorf("%w: CAP_NET_ADMIN not in effective set", ErrNotPermitted)
	}
	return nil
}
