//go:build !linux

package iface

import (
	"context"
	"time"
)

func WaitFor(ctx context.Context, name string, timeout time.Duration) error {
	return pollFor(ctx, name, time.Now().Add(timeout))
}
