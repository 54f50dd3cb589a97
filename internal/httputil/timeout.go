// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"context"
	"errors"
	"net"
)

// IsTimeout reports whether err represents an expired request deadline,
// either through context cancellation by timeout or a network-level
// timeout. Callers use it to distinguish "service too slow" from "service
// rejected the request" in diagnostics.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
