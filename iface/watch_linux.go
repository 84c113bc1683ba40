//go:build linux

package iface

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	nl "github.com/mdlayher/netlink"
	"golang.org/x/sys/unix"
)

// WaitFor blocks until the named interface exists, the timeout elapses, or
// ctx is cancelled. It subscribes to rtnetlink link notifications so the
// interface is seen the moment the stack creates it; if the subscription
// cannot be established it degrades to polling.
func WaitFor(ctx context.Context, name string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)

	conn, err := nl.Dial(unix.NETLINK_ROUTE, &nl.Config{Groups: unix.RTMGRP_LINK})
	if err != nil {
		return pollFor(ctx, name, deadline)
	}
	defer conn.Close()

	// Subscribed before this check, so an interface appearing in between
	// is seen either here or as a notification.
	if Exists(name) {
		return nil
	}
	if err := conn.SetReadDeadline(deadline); err != nil {
		return pollFor(ctx, name, deadline)
	}

	watchErr := make(chan error, 1)
	go func() { watchErr <- watchLinks(conn, name) }()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-watchErr:
		switch {
		case err == nil:
			return nil
		case errors.Is(err, os.ErrDeadlineExceeded):
			return fmt.Errorf("%w: %s did not appear within %s", ErrNotReady, name, timeout)
		default:
			return pollFor(ctx, name, deadline)
		}
	}
}

// watchLinks consumes RTM_NEWLINK notifications until one names the wanted
// interface.
func watchLinks(conn *nl.Conn, name string) error {
	for {
		msgs, err := conn.Receive()
		if err != nil {
			return err
		}
		for _, m := range msgs {
			if m.Header.Type != unix.RTM_NEWLINK || len(m.Data) < unix.SizeofIfInfomsg {
				continue
			}
			if got, err := linkName(m.Data[unix.SizeofIfInfomsg:]); err == nil && got == name {
				return nil
			}
		}
	}
}

func linkName(attrs []byte) (string, error) {
	ad, err := nl.NewAttributeDecoder(attrs)
	if err != nil {
		return "", err
	}
	for ad.Next() {
		if ad.Type() == unix.IFLA_IFNAME {
			return ad.String(), ad.Err()
		}
	}
	if err := ad.Err(); err != nil {
		return "", err
	}
	return "", errors.New("no IFLA_IFNAME attribute")
}
