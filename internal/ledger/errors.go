package ledger

import (
	"errors"
	"fmt"
)

// Kind classifies a ledger failure.
type Kind int

const (
	// KindValidation means the request itself is unacceptable.
	KindValidation Kind = iota + 1
	// KindConstraint means the request conflicts with the current state.
	KindConstraint
	// KindNotFound means a referenced meal, deposit or member does not exist.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConstraint:
		return "constraint"
	case KindNotFound:
		return "not found"
	default:
		return "unknown"
	}
}

// Sentinels for use with errors.Is.
var (
	ErrValidation = errors.New("validation error")
	ErrConstraint = errors.New("constraint error")
	ErrNotFound   = errors.New("not found")
)

// Error is a failure reported back to the caller. No state was changed.
type Error struct {
	Kind Kind
	// Msg is short and human-readable.
	Msg string
	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrConstraint:
		return e.Kind == KindConstraint
	case ErrNotFound:
		return e.Kind == KindNotFound
	}
	return false
}

// KindOf returns the kind of err, or 0 if err is not a ledger error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func validationf(format string, args ...any) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func constraintf(cause error, format string, args ...any) error {
	return &Error{Kind: KindConstraint, Msg: fmt.Sprintf(format, args...), Err: cause}
}

func notFoundf(cause error, format string, args ...any) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...), Err: cause}
}
