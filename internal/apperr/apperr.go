// Package apperr holds the error kinds shared by the engine components.
//
// Every user-facing failure is an *Error whose Kind is one of the sentinels
// below, so callers branch with errors.Is and render Error() to the user.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation   = errors.New("validation")
	ErrRejected     = errors.New("rejected by remote service")
	ErrConnectivity = errors.New("connectivity")
	ErrInFlight     = errors.New("request already in flight")
)

const (
	MsgConnectivity = "Error de conexión. Intenta de nuevo."
	MsgInFlight     = "Ya hay una solicitud en curso. Espera un momento."
)

type Error struct {
	Kind    error
	Action  string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.Error()
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(message string) *Error {
	return &Error{Kind: ErrValidation, Message: message}
}

func Validationf(format string, args ...any) *Error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

// Rejected wraps a success:false envelope. message is the server text and may be empty.
func Rejected(action, message string) *Error {
	return &Error{Kind: ErrRejected, Action: action, Message: message}
}

func Connectivity(action string, err error) *Error {
	return &Error{Kind: ErrConnectivity, Action: action, Err: err}
}

func InFlight(action string) *Error {
	return &Error{Kind: ErrInFlight, Action: action, Message: MsgInFlight}
}

// UserMessage picks the text to show for err. Connectivity failures always get
// the generic text; a rejection without a server message gets fallback.
func UserMessage(err error, fallback string) string {
	var e *Error
	if !errors.As(err, &e) {
		if fallback != "" {
			return fallback
		}
		return err.Error()
	}
	switch {
	case errors.Is(e, ErrConnectivity):
		return MsgConnectivity
	case errors.Is(e, ErrRejected) && e.Message == "":
		if fallback != "" {
			return fallback
		}
		return e.Kind.Error()
	default:
		return e.Error()
	}
}
