//go:build linux

package route

import (
	"net"
	"net/netip"

	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"
)

// Connected returns the connected route the kernel installed in the main
// table for prefix on the given link, or ErrNoRoute.
func Connected(ifindex int, prefix netip.Prefix) (*Route, error) {
	routes, err := netlink.RouteListFiltered(netlink.FAMILY_V4,
		&netlink.Route{Table: unix.RT_TABLE_MAIN}, netlink.RT_FILTER_TABLE)
	if err != nil {
		return nil, err
	}
	want := prefix.Masked()
	for _, rt := range routes {
		if rt.LinkIndex != ifindex || rt.Dst == nil {
			continue
		}
		if got, ok := prefixFromIPNet(rt.Dst); ok && got == want {
			return &Route{InterfaceIndex: ifindex, Destination: got}, nil
		}
	}
	return nil, ErrNoRoute
}

func prefixFromIPNet(n *net.IPNet) (netip.Prefix, bool) {
	ip := n.IP
	if v4 := ip.To4(); v4 != nil {
		ip = v4
	}
	addr, ok := netip.AddrFromSlice(ip)
	if !ok {
		return netip.Prefix{}, false
	}
	ones, _ := n.Mask.Size()
	return netip.PrefixFrom(addr, ones), true
}
