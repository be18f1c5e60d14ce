package parse

import "fmt"

// ErrKind classifies a parse failure. Failures are ordinary values: a
// MissMatch or Custom error only means "this alternative does not apply
// here" and is recoverable by trying the next one.
type ErrKind int

const (
	ErrUnknown ErrKind = iota
	ErrMissMatch
	ErrCustom
)

type Error struct {
	Kind    ErrKind
	Message string
}

func (e *Error) Error() string {
	if e == nil || e.Message == "" {
		return "unknown parse failure"
	}
	return e.Message
}

func missMatchf(format string, args ...any) *Error {
	return &Error{Kind: ErrMissMatch, Message: fmt.Sprintf(format, args...)}
}

func customf(format string, args ...any) *Error {
	return &Error{Kind: ErrCustom, Message: fmt.Sprintf(format, args...)}
}
