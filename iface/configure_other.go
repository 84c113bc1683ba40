//go:build !linux

package iface

import "net/netip"

func Configure(name string, addr netip.Prefix, mtu uint32) error {
	return ErrPlatformNotSupport
}

func PreflightNetAdmin() error {
	return ErrPlatformNotSupport
}
