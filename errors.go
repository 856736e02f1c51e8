package rdme

import "fmt"

// Status codes returned by the initialize operations, mirroring the
// four-way return convention of the engine this package replaces.
const (
	StatusOK = iota
	StatusInvalidOption
	StatusInvalidBoundaryCondition
	StatusInvalidSamplingPolicy
)

// StatusError pairs one of the Status codes with a descriptive message.
// Session's Initialize methods return a StatusError rather than a bare
// int so callers that only care about success can still do the
// customary `if err != nil`, while callers that need the wire-level
// code can type-assert and call Code.
type StatusError struct {
	code int
	msg  string
}

func newStatusError(code int, format string, args ...interface{}) *StatusError {
	return &StatusError{code: code, msg: fmt.Sprintf(format, args...)}
}

func (e *StatusError) Error() string { return e.msg }

// Code returns the numeric status code associated with this error.
func (e *StatusError) Code() int { return e.code }
