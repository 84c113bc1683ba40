package tunsup

import (
	"net/netip"
	"time"
)

const (
	DefaultInterfaceName = "tun0"
	DefaultAddress       = "192.168.0.1/24"
	DefaultReadyTimeout  = 15 * time.Second
	DefaultStopTimeout   = 10 * time.Second
	DefaultProbeTimeout  = 3 * time.Second
)

// DefaultBuildCommand produces the optimized stack binary.
func DefaultBuildCommand() []string {
	return []string{"cargo", "build", "--release"}
}

type Options struct {
	// BinaryPath is the stack executable to launch. Required.
	BinaryPath string
	BinaryArgs []string

	// BuildCommand runs before launch; a non-zero result aborts the whole
	// sequence. Nil selects DefaultBuildCommand, SkipBuild disables the
	// phase entirely.
	BuildCommand []string
	BuildDir     string
	SkipBuild    bool

	// GrantFileCaps runs setcap cap_net_admin+ep on BinaryPath after a
	// successful build, so the stack can open the tun device when later
	// run on its own.
	GrantFileCaps bool

	// InterfaceName is the tun device the stack creates on startup.
	InterfaceName string
	// Address is assigned to the interface once it appears.
	Address netip.Prefix
	// MTU zero leaves whatever the stack configured untouched.
	MTU uint32

	// ReadyTimeout bounds the wait for the stack to create the interface.
	ReadyTimeout time.Duration
	// StopTimeout bounds the wait between SIGTERM and SIGKILL on shutdown.
	StopTimeout time.Duration

	// Probe sends one ICMP echo through the configured interface. The peer
	// defaults to the host after Address.
	Probe        bool
	ProbePeer    netip.Addr
	ProbeTimeout time.Duration

	Logger Logger
}

func (o *Options) normalize() {
	if o.BuildCommand == nil {
		o.BuildCommand = DefaultBuildCommand()
	}
	if o.InterfaceName == "" {
		o.InterfaceName = DefaultInterfaceName
	}
	if !o.Address.IsValid() {
		o.Address = netip.MustParsePrefix(DefaultAddress)
	}
	if o.ReadyTimeout <= 0 {
		o.ReadyTimeout = DefaultReadyTimeout
	}
	if o.StopTimeout <= 0 {
		o.StopTimeout = DefaultStopTimeout
	}
	if o.ProbeTimeout <= 0 {
		o.ProbeTimeout = DefaultProbeTimeout
	}
	if !o.ProbePeer.IsValid() {
		o.ProbePeer = o.Address.Addr().Next()
	}
	if o.Logger == nil {
		o.Logger = NewStderrLogger()
	}
}
