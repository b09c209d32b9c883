package remote

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/pkg/errors"
)

// Kind classifies a failed request.
type Kind int

const (
	KindConnectivity Kind = iota
	KindNotFound
	KindServer
	KindTimeout
	KindClient
)

func (k Kind) String() string {
	switch k {
	case KindConnectivity:
		return "connection failed"
	case KindNotFound:
		return "not found"
	case KindServer:
		return "server error"
	case KindTimeout:
		return "timed out"
	case KindClient:
		return "request rejected"
	}
	return "unknown"
}

// Error is returned by Load and Save.
type Error struct {
	Op     string
	Kind   Kind
	Status int
	Err    error
}

func (e *Error) Error() string {
	msg := e.Op + ": " + e.Kind.String()
	if e.Status != 0 {
		msg += fmt.Sprintf(" (%d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of a remote error, and false for anything else.
func KindOf(err error) (Kind, bool) {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind, true
	}
	return 0, false
}

func statusError(op string, status int) *Error {
	kind := KindClient
	switch {
	case status == http.StatusNotFound:
		kind = KindNotFound
	case status >= 500:
		kind = KindServer
	}
	return &Error{Op: op, Kind: kind, Status: status}
}

// transportError classifies a failure to get any response at all.
func transportError(ctx context.Context, op string, err error) *Error {
	var ne net.Error
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded), errors.Is(err, context.DeadlineExceeded):
		return &Error{Op: op, Kind: KindTimeout, Err: errors.WithStack(err)}
	case errors.As(err, &ne) && ne.Timeout():
		return &Error{Op: op, Kind: KindTimeout, Err: errors.WithStack(err)}
	}
	return &Error{Op: op, Kind: KindConnectivity, Err: errors.WithStack(err)}
}
