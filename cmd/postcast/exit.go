package main

import (
	"errors"
	"fmt"
)

const (
	exitSuccess = 0
	// exitFailure covers usage errors and a module that could not start.
	exitFailure = 1
	// exitCommand is returned when a command ran and failed.
	exitCommand = 2
)

type exitError struct {
	code    int
	message string
	err     error
}

func (e *exitError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.message, e.err)
	}
	return e.message
}

func (e *exitError) Unwrap() error { return e.err }

func wrapExit(code int, message string, err error) error {
	return &exitError{code: code, message: message, err: err}
}

func exitCode(err error) int {
	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	return exitFailure
}
