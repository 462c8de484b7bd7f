package domain

import "fmt"

// ValidationError reports missing or malformed operator input. It is surfaced
// to the user immediately and never retried.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NetworkError wraps a failed collaborator call. Cart state is preserved so
// the operator can retry without re-entering data.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// PrintError means the facture was recorded but the receipt did not print.
// It is reported separately from creation success.
type PrintError struct {
	Err error
}

func (e *PrintError) Error() string {
	return "print failed: " + e.Err.Error()
}

func (e *PrintError) Unwrap() error {
	return e.Err
}
