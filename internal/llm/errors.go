package llm

import (
	"context"
	"errors"
	"net"
	"strings"
)

// ErrorKind buckets a failed call for partial-failure handling.
type ErrorKind string

const (
	KindTimeout ErrorKind = "timeout"
	KindNetwork ErrorKind = "network"
	KindOther   ErrorKind = "other"
)

// ClassifyError maps a transport or provider error onto an ErrorKind.
func ClassifyError(err error) ErrorKind {
	if err == nil {
		return KindOther
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return KindTimeout
		}
		return KindNetwork
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline") {
		return KindTimeout
	}
	for _, needle := range []string{"connection", "network", "connect", "no such host", "refused"} {
		if strings.Contains(msg, needle) {
			return KindNetwork
		}
	}
	return KindOther
}
