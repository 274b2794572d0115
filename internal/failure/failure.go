// Package failure provides the tagged error type that decides which
// recovery view a frame interaction ends on.
package failure

import (
	"errors"
	"fmt"
)

// Kind classifies a failure by who can act on it.
type Kind int

const (
	// Unknown covers network failures, unexpected states and untagged errors.
	Unknown Kind = iota
	// Input means the user-supplied recipient or button was rejected.
	Input
	// Minting means Crossmint explicitly reported that the mint failed.
	Minting
	// Config means the deployment is missing a required setting.
	Config
)

// String returns the kind name used in logs and metric labels.
func (k Kind) String() string {
	switch k {
	case Input:
		return "input"
	case Minting:
		return "minting"
	case Config:
		return "config"
	default:
		return "unknown"
	}
}

// Error is an error tagged with its Kind at the point it is raised.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s error: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Inputf returns an Input-kind error.
func Inputf(format string, args ...any) *Error {
	return &Error{Kind: Input, Message: fmt.Sprintf(format, args...)}
}

// Mintingf returns a Minting-kind error.
func Mintingf(format string, args ...any) *Error {
	return &Error{Kind: Minting, Message: fmt.Sprintf(format, args...)}
}

// Configf returns a Config-kind error.
func Configf(format string, args ...any) *Error {
	return &Error{Kind: Config, Message: fmt.Sprintf(format, args...)}
}

// Wrap tags err with kind, keeping it reachable through errors.Is/As.
func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of the outermost tagged error in err's chain.
// Untagged errors are Unknown.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return Unknown
}
