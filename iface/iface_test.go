package iface

import (
	"context"
	"errors"
	"net/netip"
	"testing"
	"time"
)

func TestLookupLoopback(t *testing.T) {
	ifi, err := Lookup("lo")
	if err != nil {
		t.Skipf("no loopback interface: %v", err)
	}
	t.Log(ifi.Name, ifi.Index, ifi.MTU, ifi.Up)
	for _, addr := range ifi.Addrs {
		t.Log("\t->", addr)
	}
	if ifi.Index <= 0 {
		t.Errorf("Index = %d, want > 0", ifi.Index)
	}
}

func TestVerifyConfiguredLoopback(t *testing.T) {
	ifi, err := Lookup("lo")
	if err != nil || !ifi.Up {
		t.Skip("loopback not available or down")
	}
	if err := VerifyConfigured("lo", netip.MustParsePrefix("127.0.0.1/8")); err != nil {
		t.Errorf("VerifyConfigured(lo) error: %v", err)
	}
	if err := VerifyConfigured("lo", netip.MustParsePrefix("192.0.2.1/24")); err == nil {
		t.Error("VerifyConfigured() expected error for an address loopback does not carry")
	}
}

func TestWaitForExistingInterface(t *testing.T) {
	if !Exists("lo") {
		t.Skip("no loopback interface")
	}
	if err := WaitFor(context.Background(), "lo", time.Second); err != nil {
		t.Fatalf("WaitFor(lo) error: %v", err)
	}
}

func TestWaitForAbsentInterfaceTimesOut(t *testing.T) {
	start := time.Now()
	err := WaitFor(context.Background(), "tunsup-nope0", 300*time.Millisecond)
	if !errors.Is(err, ErrNotReady) {
		t.Fatalf("WaitFor() error = %v, want ErrNotReady", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("WaitFor() took %s, should respect its timeout", elapsed)
	}
}

func TestWaitForCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := WaitFor(ctx, "tunsup-nope0", time.Minute)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("WaitFor() error = %v, want context.Canceled", err)
	}
}
