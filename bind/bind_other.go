//go:build !linux

package bind

import (
	"context"
	"syscall"

	"tunsup/iface"
)

func deviceControl(ifaceName string) controlFn {
	return func(ctx context.Context, network, address string, c syscall.RawConn) error {
		return iface.ErrPlatformNotSupport
	}
}
