//go:build linux

package probe

import (
	"context"
	"errors"
	"net/netip"
	"testing"
	"time"
)

func TestPingUnknownInterface(t *testing.T) {
	err := Ping(context.Background(), "tunsup-nope0",
		netip.MustParseAddr("127.0.0.1"), netip.MustParseAddr("127.0.0.1"),
		200*time.Millisecond)
	if err == nil {
		t.Fatal("Ping() expected error for an unknown interface")
	}
}

func TestPingLoopback(t *testing.T) {
	// Raw ICMP needs privilege; without it the listen fails, which is an
	// acceptable outcome here. With it, loopback answers its own echo.
	err := Ping(context.Background(), "lo",
		netip.MustParseAddr("127.0.0.1"), netip.MustParseAddr("127.0.0.1"),
		time.Second)
	switch {
	case err == nil:
		t.Log("echo reply received")
	case errors.Is(err, ErrNoReply):
		t.Log("echo sent, no reply")
	default:
		t.Logf("probe unavailable: %v", err)
	}
}
