//go:build linux

package iface

import (
	"errors"
	"fmt"
	"net/netip"

	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"
)

// Configure assigns addr to the named interface and brings it up. Reapplying
// the same address or state is not an error. A zero mtu leaves the device
// MTU untouched.
func Configure(name string, addr netip.Prefix, mtu uint32) error {
	link, err := netlink.LinkByName(name)
	if err != nil {
		return fmt.Errorf("%w: link %s: %v", ErrNotReady, name, err)
	}

	if mtu > 0 {
		if err := netlink.LinkSetMTU(link, int(mtu)); err != nil {
			return classify(fmt.Errorf("set mtu %d on %s: %w", mtu, name, err))
		}
	}

	nladdr, err := netlink.ParseAddr(addr.String())
	if err != nil {
		return fmt.Errorf("parse address %s: %w", addr, err)
	}
	if err := netlink.AddrReplace(link, nladdr); err != nil {
		return classify(fmt.Errorf("assign %s to %s: %w", addr, name, err))
	}

	if err := netlink.LinkSetUp(link); err != nil {
		return classify(fmt.Errorf("set %s up: %w", name, err))
	}
	return nil
}

// classify marks privilege failures distinctly from everything else.
func classify(err error) error {
	if errors.Is(err, unix.EPERM) || errors.Is(err, unix.EACCES) {
		return fmt.Errorf("%w: %w", ErrNotPermitted, err)
	}
	return err
}
