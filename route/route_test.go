//go:build linux

package route

import (
	"errors"
	"net"
	"net/netip"
	"testing"
)

func TestPrefixFromIPNet(t *testing.T) {
	_, ipnet, err := net.ParseCIDR("192.168.0.0/24")
	if err != nil {
		t.Fatal(err)
	}
	got, ok := prefixFromIPNet(ipnet)
	if !ok {
		t.Fatal("prefixFromIPNet() not ok")
	}
	if want := netip.MustParsePrefix("192.168.0.0/24"); got != want {
		t.Errorf("prefixFromIPNet() = %v, want %v", got, want)
	}
}

func TestConnectedAbsentRoute(t *testing.T) {
	ifi, err := net.InterfaceByName("lo")
	if err != nil {
		t.Skipf("no loopback interface: %v", err)
	}
	// TEST-NET-1 is never a connected route on loopback.
	_, err = Connected(ifi.Index, netip.MustParsePrefix("192.0.2.0/24"))
	if err == nil {
		t.Fatal("Connected() expected an error for an absent route")
	}
	if !errors.Is(err, ErrNoRoute) {
		t.Logf("Connected() error: %v", err)
	}
}
