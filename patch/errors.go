package patch

import (
	"errors"
	"fmt"
	"io/fs"
)

// MissingResourceError is returned when a file or directory that every
// decoded APK is expected to have is absent from the tree.
type MissingResourceError struct {
	Path string
	Err  error
}

func (e *MissingResourceError) Error() string {
	return "missing resource " + e.Path
}

func (e *MissingResourceError) Unwrap() error {
	return e.Err
}

// PatchFragmentNotFoundError is returned when an enabled overlay
// patch has no directory under the patches root.
type PatchFragmentNotFoundError struct {
	Name string
	Path string
}

func (e *PatchFragmentNotFoundError) Error() string {
	return fmt.Sprintf("patch %s not found at %s", e.Name, e.Path)
}

func (e *PatchFragmentNotFoundError) Unwrap() error {
	return fs.ErrNotExist
}

// OperationError is returned by Engine.Run when an operation fails.
// Operations that ran before it have already written their changes.
type OperationError struct {
	Op   string
	Path string
	Err  error
}

func (e *OperationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}

	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

func newOperationError(op string, err error) error {
	var (
		operr = &OperationError{}
		mrerr = &MissingResourceError{}
		pferr = &PatchFragmentNotFoundError{}
		perr  = &fs.PathError{}
	)
	switch {
	case errors.As(err, &operr):
		return err
	case errors.As(err, &mrerr):
		// The message already names the path.
		return &OperationError{Op: op, Err: err}
	case errors.As(err, &pferr):
		return &OperationError{Op: op, Err: err}
	case errors.As(err, &perr):
		return &OperationError{Op: op, Path: perr.Path, Err: perr.Err}
	}

	return &OperationError{Op: op, Err: err}
}
