// Package bind pins sockets to a network interface so probe traffic cannot
// escape through another route.
package bind

import (
	"context"
	"net"
	"syscall"

	"tunsup/iface"
)

// ToDeviceForPacket makes every socket opened through lc bind to the named
// interface. The interface must exist.
func ToDeviceForPacket(ifaceName string, lc *net.ListenConfig) error {
	ifi, err := iface.Lookup(ifaceName)
	if err != nil {
		return err
	}
	addControlToListenConfig(lc, deviceControl(ifi.Name))
	return nil
}

// ToDeviceForConn makes every connection dialed through d bind to the named
// interface.
func ToDeviceForConn(ifaceName string, d *net.Dialer) error {
	ifi, err := iface.Lookup(ifaceName)
	if err != nil {
		return err
	}
	addControlToDialer(d, deviceControl(ifi.Name))
	return nil
}

type controlFn = func(ctx context.Context, network, address string, c syscall.RawConn) error

func addControlToListenConfig(lc *net.ListenConfig, fn controlFn) {
	llc := *lc
	lc.Control = func(network, address string, c syscall.RawConn) (err error) {
		if llc.Control != nil {
			if err = llc.Control(network, address, c); err != nil {
				return
			}
		}
		return fn(context.Background(), network, address, c)
	}
}

func addControlToDialer(d *net.Dialer, fn controlFn) {
	ld := *d
	d.ControlContext = func(ctx context.Context, network, address string, c syscall.RawConn) (err error) {
		switch {
		case ld.ControlContext != nil:
			if err = ld.ControlContext(ctx, network, address, c); err != nil {
				return
			}
		case ld.Control != nil:
			if err = ld.Control(network, address, c); err != nil {
				return
			}
		}
		return fn(ctx, network, address, c)
	}
}
