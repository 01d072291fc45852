package patcherr

import (
	"errors"
)

const (
	ExitCodeUnknown          = 1
	ExitCodeConfig           = 2
	ExitCodeMissingResource  = 3
	ExitCodePatchNotFound    = 4
	ExitCodeExternalToolFail = 5
)

// ExitCodeError wraps err so that the process exits with exitCode
// when it is returned from main.
func ExitCodeError(err error, exitCode int) error {
	if err == nil {
		return nil
	}

	if exitCode <= 0 || 125 < exitCode {
		exitCode = ExitCodeUnknown
	}

	return &exitCodeError{
		err:      err,
		exitCode: exitCode,
	}
}

type exitCodeError struct {
	err      error
	exitCode int
}

func (e *exitCodeError) Error() string {
	if e.err == nil {
		return ""
	}

	return e.err.Error()
}

func (e *exitCodeError) Unwrap() error {
	return e.err
}

func (e *exitCodeError) ExitCode() int {
	return e.exitCode
}

// ExitCode returns the exit code carried by err,
// 0 if err is nil and ExitCodeUnknown if it carries none.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	ecerr := &exitCodeError{}
	if errors.As(err, &ecerr) {
		return ecerr.exitCode
	}

	return ExitCodeUnknown
}
