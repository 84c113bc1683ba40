//go:build !linux

package route

import "net/netip"

func Connected(ifindex int, prefix netip.Prefix) (*Route, error) {
	return nil, ErrPlatformNotSupport
}
