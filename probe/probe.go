// Package probe verifies the provisioned interface carries IP traffic by
// sending a single ICMP echo through it.
package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"os"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"

	"tunsup/bind"
)

// ErrNoReply reports that the echo was sent but nothing answered within the
// timeout. Callers may treat it as advisory: the peer stack is not required
// to implement echo.
var ErrNoReply = errors.New("no echo reply")

const protocolICMP = 1

// Ping sends one ICMP echo from src out the named interface to dst and waits
// up to timeout for a reply. A send failure means the interface is not
// carrying traffic; a missing reply only yields ErrNoReply.
func Ping(ctx context.Context, ifaceName string, src, dst netip.Addr, timeout time.Duration) error {
	lc := &net.ListenConfig{}
	if err := bind.ToDeviceForPacket(ifaceName, lc); err != nil {
		return fmt.Errorf("bind to %s: %w", ifaceName, err)
	}
	conn, err := lc.ListenPacket(ctx, "ip4:icmp", src.String())
	if err != nil {
		return fmt.Errorf("listen icmp on %s: %w", src, err)
	}
	defer conn.Close()

	msg := icmp.Message{
		Type: ipv4.ICMPTypeEcho,
		Code: 0,
		Body: &icmp.Echo{
			ID:   os.Getpid() & 0xffff,
			Seq:  1,
			Data: []byte("tunsup probe"),
		},
	}
	wire, err := msg.Marshal(nil)
	if err != nil {
		return fmt.Errorf("marshal echo: %w", err)
	}
	if _, err := conn.WriteTo(wire, &net.IPAddr{IP: dst.AsSlice()}); err != nil {
		return fmt.Errorf("send echo to %s: %w", dst, err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(timeout))
	buf := make([]byte, 1500)
	for {
		n, _, err := conn.ReadFrom(buf)
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				return fmt.Errorf("%w from %s within %s", ErrNoReply, dst, timeout)
			}
			return fmt.Errorf("read echo reply: %w", err)
		}
		parsed, err := icmp.ParseMessage(protocolICMP, buf[:n])
		if err != nil {
			continue
		}
		if parsed.Type == ipv4.ICMPTypeEchoReply {
			return nil
		}
	}
}
