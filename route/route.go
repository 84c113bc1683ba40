// Package route inspects the kernel routes attached to the provisioned
// interface.
package route

import (
	"errors"
	"net/netip"
)

var (
	ErrNoRoute            = errors.New("no route")
	ErrPlatformNotSupport = errors.New("not support on this platform")
)

// Route is a kernel route attached to an interface.
type Route struct {
	InterfaceIndex int
	Destination    netip.Prefix
}
