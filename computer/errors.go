package computer

import (
	"errors"
	"fmt"
)

// Kind classifies execution failures. The string values are used as wire
// codes by the server.
type Kind string

const (
	KindInvalidRequest Kind = "invalid_request"
	KindUnknownKey     Kind = "unknown_key"
	KindDeviceTimeout  Kind = "device_timeout"
	KindDeviceError    Kind = "device_error"
	KindDeviceBusy     Kind = "device_busy"
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrUnknownKey     = errors.New("unknown key")
	ErrDeviceTimeout  = errors.New("device timeout")
	ErrDeviceError    = errors.New("device error")
	ErrDeviceBusy     = errors.New("device busy")
)

var sentinels = map[Kind]error{
	KindInvalidRequest: ErrInvalidRequest,
	KindUnknownKey:     ErrUnknownKey,
	KindDeviceTimeout:  ErrDeviceTimeout,
	KindDeviceError:    ErrDeviceError,
	KindDeviceBusy:     ErrDeviceBusy,
}

// Error is returned by everything in this package that can fail.
type Error struct {
	Kind Kind
	// Op is the primitive or step that failed, e.g. "move" or "press key".
	Op string
	// Token is the offending key name for KindUnknownKey.
	Token string
	Err   error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Token != "" {
		msg = fmt.Sprintf("%s %q", msg, e.Token)
	}
	if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return sentinels[e.Kind] == target
}

func invalidRequest(format string, args ...interface{}) error {
	return &Error{Kind: KindInvalidRequest, Err: fmt.Errorf(format, args...)}
}

func deviceError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindDeviceError, Op: op, Err: err}
}

// KindOf reports the Kind of err, or "" when err did not originate here.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
