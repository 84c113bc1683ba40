//go:build linux

package bind

import (
	"context"
	"syscall"

	"golang.org/x/sys/unix"
)

func deviceControl(ifaceName string) controlFn {
	return func(ctx context.Context, network, address string, c syscall.RawConn) error {
		var innerErr error
		err := c.Control(func(fd uintptr) {
			innerErr = unix.BindToDevice(int(fd), ifaceName)
		})
		if innerErr != nil {
			return innerErr
		}
		return err
	}
}
