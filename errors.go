package tunsup

import (
	"errors"

	"tunsup/iface"
)

var (
	// ErrBuildFailed reports a non-zero build result. The stack binary is
	// never launched after it.
	ErrBuildFailed = errors.New("build failed")

	// ErrLaunchFailed reports that the stack binary could not be spawned.
	ErrLaunchFailed = errors.New("launch failed")

	// ErrConfigureFailed wraps any interface provisioning failure.
	ErrConfigureFailed = errors.New("interface configuration failed")
)

// Provisioning errors raised by the iface package, re-exported so callers can
// match them without importing it.
var (
	ErrInterfaceNotReady = iface.ErrNotReady
	ErrNotPermitted      = iface.ErrNotPermitted
)
