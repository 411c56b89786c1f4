package cmd

import "fmt"

// ArgumentError marks a failure caused by invalid CLI input (missing or
// malformed arguments/flags) rather than an operational failure (I/O,
// backend, terminal). main.go maps it to exit code 2; every other error
// maps to exit code 1.
type ArgumentError struct {
	err error
}

func (e *ArgumentError) Error() string { return e.err.Error() }
func (e *ArgumentError) Unwrap() error { return e.err }

// argErrorf builds an ArgumentError the way RunE handlers report bad
// input they detect themselves (e.g. an unknown backend name). Errors that
// cobra raises on its own, such as a wrong argument count or an unknown
// flag, are not wrapped and so map to exit code 1.
func argErrorf(format string, args ...any) error {
	return &ArgumentError{err: fmt.Errorf(format, args...)}
}
