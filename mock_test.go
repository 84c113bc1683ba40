package tunsup

import (
	"context"
	"net/netip"
	"os"
	"sync"
	"syscall"
	"time"
)

// mockBuilder records whether Build ran and returns a configured error.
type mockBuilder struct {
	err    error
	called bool
}

func (m *mockBuilder) Build(ctx context.Context) error {
	m.called = true
	return m.err
}

// mockChild is a fake stack process. Tests finish it by sending an exit
// status on the exit channel; with termOnSignal set, a SIGTERM delivers 143
// the way a real child dying from the signal would.
type mockChild struct {
	pid          int
	exit         chan int
	termOnSignal bool

	mu   sync.Mutex
	sigs []os.Signal
}

func newMockChild() *mockChild {
	return &mockChild{pid: 4242, exit: make(chan int, 1)}
}

func (c *mockChild) PID() int { return c.pid }

func (c *mockChild) Signal(sig os.Signal) error {
	c.mu.Lock()
	c.sigs = append(c.sigs, sig)
	c.mu.Unlock()
	if c.termOnSignal && sig == syscall.SIGTERM {
		select {
		case c.exit <- 143:
		default:
		}
	}
	return nil
}

func (c *mockChild) Wait() (int, error) {
	return <-c.exit, nil
}

func (c *mockChild) signals() []os.Signal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]os.Signal(nil), c.sigs...)
}

// mockLauncher hands out a configured child or error.
type mockLauncher struct {
	child   *mockChild
	err     error
	called  bool
	lastBin string
}

func (m *mockLauncher) Start(ctx context.Context, bin string, args []string) (Child, error) {
	m.called = true
	m.lastBin = bin
	if m.err != nil {
		return nil, m.err
	}
	return m.child, nil
}

// mockNet counts provisioning calls; fn hooks override the default success.
type mockNet struct {
	preflightErr error
	waitFn       func(ctx context.Context, name string, timeout time.Duration) error
	configureErr error
	verifyErr    error

	mu          sync.Mutex
	waitCalls   int
	cfgCalls    int
	verifyCalls int
}

func (m *mockNet) Preflight() error { return m.preflightErr }

func (m *mockNet) Wait(ctx context.Context, name string, timeout time.Duration) error {
	m.mu.Lock()
	m.waitCalls++
	m.mu.Unlock()
	if m.waitFn != nil {
		return m.waitFn(ctx, name, timeout)
	}
	return nil
}

func (m *mockNet) Configure(name string, addr netip.Prefix, mtu uint32) error {
	m.mu.Lock()
	m.cfgCalls++
	m.mu.Unlock()
	return m.configureErr
}

func (m *mockNet) Verify(name string, addr netip.Prefix) error {
	m.mu.Lock()
	m.verifyCalls++
	m.mu.Unlock()
	return m.verifyErr
}

func (m *mockNet) configureCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfgCalls
}

// mockProber records pings.
type mockProber struct {
	err    error
	called bool
}

func (m *mockProber) Ping(ctx context.Context, ifaceName string, src, dst netip.Addr, timeout time.Duration) error {
	m.called = true
	return m.err
}
