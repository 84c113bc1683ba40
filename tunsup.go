package tunsup

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"os"
	"strings"
	"sync"
	"syscall"
	"time"

	"tunsup/builder"
	"tunsup/probe"
)

// State describes the supervised stack process. StateInit covers launch and
// provisioning; StateRunning is the blocking wait with the interface
// configured.
type State int32

const (
	StateInit State = iota
	StateRunning
	StateShuttingDown
	StateTerminated
)

// Builder produces the runnable stack binary.
type Builder interface {
	Build(ctx context.Context) error
}

// Child is a started stack process, exclusively owned by the Supervisor and
// reaped exactly once.
type Child interface {
	PID() int
	Signal(sig os.Signal) error
	// Wait blocks until the process exits and returns its exit status.
	// A signal death is reported as 128+signum.
	Wait() (int, error)
}

// Launcher starts the stack binary without waiting for it to finish.
type Launcher interface {
	Start(ctx context.Context, bin string, args []string) (Child, error)
}

// NetConfig provisions the virtual interface the stack creates on startup.
type NetConfig interface {
	// Preflight reports whether the supervisor holds the privilege the
	// configuration calls below will need.
	Preflight() error
	// Wait blocks until the named interface exists or timeout elapses.
	Wait(ctx context.Context, name string, timeout time.Duration) error
	// Configure assigns addr and brings the interface up. Idempotent.
	Configure(name string, addr netip.Prefix, mtu uint32) error
	// Verify checks the interface carries addr and is administratively up.
	Verify(name string, addr netip.Prefix) error
}

// Prober checks the configured interface can carry IP traffic.
type Prober interface {
	Ping(ctx context.Context, ifaceName string, src, dst netip.Addr, timeout time.Duration) error
}

// Supervisor builds and launches the stack binary, provisions the tun
// interface it creates, and then blocks until the stack exits or the context
// is cancelled. All mutable state is owned by the instance.
type Supervisor struct {
	opts Options

	builder  Builder
	launcher Launcher
	netcfg   NetConfig
	prober   Prober
	logger   Logger

	mu    sync.Mutex
	state State
}

// New returns a Supervisor wired to the real build, process and netlink
// collaborators.
func New(opts Options) *Supervisor {
	opts.normalize()
	var capGrant string
	if opts.GrantFileCaps {
		capGrant = opts.BinaryPath
	}
	b := builder.New(opts.BuildCommand, opts.BuildDir, capGrant)
	return NewWith(opts, b, execLauncher{}, netlinkNet{log: opts.Logger}, icmpProber{})
}

// NewWith wires explicit collaborators; tests substitute fakes here.
func NewWith(opts Options, b Builder, l Launcher, n NetConfig, p Prober) *Supervisor {
	opts.normalize()
	return &Supervisor{
		opts:     opts,
		builder:  b,
		launcher: l,
		netcfg:   n,
		prober:   p,
		logger:   opts.Logger,
	}
}

// State returns the current lifecycle state.
func (s *Supervisor) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

type exitResult struct {
	code int
	err  error
}

// Run executes the build, launch and provision phases, then supervises the
// stack until it exits or ctx is cancelled. The returned code is the
// supervisor's own exit code: the stack's final status on a clean run,
// 1 on any supervisor-phase failure.
func (s *Supervisor) Run(ctx context.Context) (int, error) {
	if err := s.netcfg.Preflight(); err != nil {
		// Surfaced early so a privilege problem is not misread as the
		// stack failing to create its interface.
		s.logger.Error("network-admin preflight failed", "err", err)
	}

	if s.opts.SkipBuild {
		s.logger.Info("build phase skipped")
	} else {
		s.logger.Info("building stack binary", "cmd", strings.Join(s.opts.BuildCommand, " "))
		if err := s.builder.Build(ctx); err != nil {
			return 1, fmt.Errorf("%w: %w", ErrBuildFailed, err)
		}
	}

	child, err := s.launcher.Start(ctx, s.opts.BinaryPath, s.opts.BinaryArgs)
	if err != nil {
		return 1, fmt.Errorf("%w: %w", ErrLaunchFailed, err)
	}
	s.logger.Info("stack launched", "bin", s.opts.BinaryPath, "pid", child.PID())

	exited := make(chan exitResult, 1)
	go func() {
		code, werr := child.Wait()
		exited <- exitResult{code: code, err: werr}
	}()

	if code, err := s.provision(ctx, child, exited); err != nil {
		return code, err
	}

	s.setState(StateRunning)
	s.logger.Info("supervising", "iface", s.opts.InterfaceName, "pid", child.PID())
	select {
	case r := <-exited:
		s.setState(StateTerminated)
		return s.report(r)
	case <-ctx.Done():
		s.logger.Info("shutdown requested")
		return s.report(s.stopChild(child, exited))
	}
}

// provision waits for the stack to create its interface, racing the wait
// against the stack exiting underneath us, then configures and verifies it.
// On any failure the stack is stopped before returning.
func (s *Supervisor) provision(ctx context.Context, child Child, exited <-chan exitResult) (int, error) {
	name := s.opts.InterfaceName

	wctx, cancel := context.WithCancel(ctx)
	defer cancel()
	ready := make(chan error, 1)
	go func() { ready <- s.netcfg.Wait(wctx, name, s.opts.ReadyTimeout) }()

	select {
	case r := <-exited:
		s.setState(StateTerminated)
		s.logger.Error("stack exited before interface appeared", "status", r.code)
		return r.code, fmt.Errorf("%w: stack exited with status %d before creating %s", ErrInterfaceNotReady, r.code, name)
	case err := <-ready:
		if err != nil {
			s.report(s.stopChild(child, exited))
			return 1, err
		}
	}

	if err := s.netcfg.Configure(name, s.opts.Address, s.opts.MTU); err != nil {
		s.report(s.stopChild(child, exited))
		return 1, fmt.Errorf("%w: %w", ErrConfigureFailed, err)
	}
	if err := s.netcfg.Verify(name, s.opts.Address); err != nil {
		s.report(s.stopChild(child, exited))
		return 1, fmt.Errorf("%w: %w", ErrConfigureFailed, err)
	}
	s.logger.Info("interface configured", "iface", name, "addr", s.opts.Address)

	if s.opts.Probe {
		err := s.prober.Ping(ctx, name, s.opts.Address.Addr(), s.opts.ProbePeer, s.opts.ProbeTimeout)
		switch {
		case err == nil:
			s.logger.Info("probe succeeded", "peer", s.opts.ProbePeer)
		case errors.Is(err, probe.ErrNoReply):
			// The stack is not required to answer echoes.
			s.logger.Info("probe sent, no reply", "peer", s.opts.ProbePeer)
		default:
			s.report(s.stopChild(child, exited))
			return 1, fmt.Errorf("%w: %w", ErrConfigureFailed, err)
		}
	}
	return 0, nil
}

// stopChild issues exactly one SIGTERM, escalating to SIGKILL only after
// StopTimeout, then reaps the stack. Re-entrant calls do not signal again.
func (s *Supervisor) stopChild(child Child, exited <-chan exitResult) exitResult {
	if s.beginShutdown() {
		s.logger.Info("stopping stack", "pid", child.PID(), "signal", "SIGTERM")
		if err := child.Signal(syscall.SIGTERM); err != nil {
			s.logger.Error("signal stack failed", "err", err)
		}
	}

	var r exitResult
	select {
	case r = <-exited:
	case <-time.After(s.opts.StopTimeout):
		s.logger.Error("stack did not exit in time, killing", "pid", child.PID())
		_ = child.Signal(syscall.SIGKILL)
		r = <-exited
	}
	s.setState(StateTerminated)
	return r
}

// report converts the reaped status into the supervisor's exit code. The
// stack's status is propagated, never swallowed.
func (s *Supervisor) report(r exitResult) (int, error) {
	if r.err != nil {
		return 1, fmt.Errorf("reap stack: %w", r.err)
	}
	if r.code != 0 {
		s.logger.Error("stack exited", "status", r.code)
	} else {
		s.logger.Info("stack exited", "status", 0)
	}
	return r.code, nil
}

func (s *Supervisor) beginShutdown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateShuttingDown || s.state == StateTerminated {
		return false
	}
	s.state = StateShuttingDown
	return true
}

func (s *Supervisor) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}
