package tunsup

import (
	"context"
	"net/netip"
	"time"

	"tunsup/iface"
	"tunsup/probe"
	"tunsup/process"
	"tunsup/route"
)

// execLauncher adapts the process package to the Launcher port.
type execLauncher struct{}

func (execLauncher) Start(ctx context.Context, bin string, args []string) (Child, error) {
	c, err := process.Start(ctx, bin, args)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// netlinkNet adapts the iface and route packages to the NetConfig port.
type netlinkNet struct {
	log Logger
}

func (n netlinkNet) Preflight() error {
	return iface.PreflightNetAdmin()
}

func (n netlinkNet) Wait(ctx context.Context, name string, timeout time.Duration) error {
	return iface.WaitFor(ctx, name, timeout)
}

func (n netlinkNet) Configure(name string, addr netip.Prefix, mtu uint32) error {
	if err := iface.Configure(name, addr, mtu); err != nil {
		return err
	}
	ifi, err := iface.Lookup(name)
	if err != nil {
		return err
	}
	// The kernel installs the connected route for the assigned prefix on
	// bring-up; its absence is diagnostic, not fatal.
	if rt, rerr := route.Connected(ifi.Index, addr); rerr != nil {
		n.log.Info("connected route not visible", "iface", name, "err", rerr)
	} else {
		n.log.Info("connected route installed", "iface", name, "dst", rt.Destination)
	}
	return nil
}

func (n netlinkNet) Verify(name string, addr netip.Prefix) error {
	return iface.VerifyConfigured(name, addr)
}

// icmpProber adapts the probe package to the Prober port.
type icmpProber struct{}

func (icmpProber) Ping(ctx context.Context, ifaceName string, src, dst netip.Addr, timeout time.Duration) error {
	return probe.Ping(ctx, ifaceName, src, dst, timeout)
}
