// Package iface waits for, configures and inspects the virtual interface the
// stack binary creates.
package iface

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"time"
)

var (
	// ErrNotReady reports that the interface did not exist within the
	// allowed time. Distinct from ErrNotPermitted so a privilege problem
	// is never misread as the stack failing to create the device.
	ErrNotReady = errors.New("interface not ready")

	// ErrNotPermitted reports insufficient privilege (CAP_NET_ADMIN) for
	// interface configuration.
	ErrNotPermitted = errors.New("operation not permitted")

	ErrPlatformNotSupport = errors.New("not support on this platform")
)

const pollInterval = 100 * time.Millisecond

// Interface is a point-in-time snapshot of a network interface.
type Interface struct {
	Index int
	Name  string
	MTU   int
	Up    bool
	Addrs []netip.Prefix
}

// Lookup snapshots the named interface.
func Lookup(name string) (*Interface, error) {
	ifi, err := net.InterfaceByName(name)
	if err != nil {
		return nil, fmt.Errorf("interface %q: %w", name, err)
	}
	ifaceObj := &Interface{
		Index: ifi.Index,
		Name:  ifi.Name,
		MTU:   ifi.MTU,
		Up:    ifi.Flags&net.FlagUp != 0,
	}
	addrs, err := ifi.Addrs()
	if err != nil {
		return nil, fmt.Errorf("interface %q addresses: %w", name, err)
	}
	for _, addr := range addrs {
		prefix, err := netip.ParsePrefix(addr.String())
		if err != nil {
			continue
		}
		ifaceObj.Addrs = append(ifaceObj.Addrs, prefix)
	}
	return ifaceObj, nil
}

// Exists reports whether the named interface currently exists.
func Exists(name string) bool {
	_, err := net.InterfaceByName(name)
	return err == nil
}

// VerifyConfigured checks that the interface carries exactly addr and is
// administratively up.
func VerifyConfigured(name string, addr netip.Prefix) error {
	ifi, err := Lookup(name)
	if err != nil {
		return err
	}
	if !ifi.Up {
		return fmt.Errorf("interface %s is administratively down", name)
	}
	for _, prefix := range ifi.Addrs {
		if prefix == addr {
			return nil
		}
	}
	return fmt.Errorf("interface %s does not carry %s", name, addr)
}

// pollFor is the fallback readiness wait: check-and-sleep until the interface
// exists, the deadline passes, or ctx is cancelled.
func pollFor(ctx context.Context, name string, deadline time.Time) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		if Exists(name) {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("%w: %s did not appear before the deadline", ErrNotReady, name)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
