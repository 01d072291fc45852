package command

import (
	"errors"

	"github.com/frantjc/apkpatch"
	"github.com/frantjc/apkpatch/internal/patcherr"
	"github.com/frantjc/apkpatch/internal/pipeline"
	"github.com/frantjc/apkpatch/patch"
)

// ExitCodeError attaches the exit code for err's kind so that
// the process exit status tells the failure apart.
func ExitCodeError(err error) error {
	var (
		cerr  = &apkpatch.ConfigError{}
		mrerr = &patch.MissingResourceError{}
		pferr = &patch.PatchFragmentNotFoundError{}
		eterr = &pipeline.ExternalToolError{}
	)
	switch {
	case err == nil:
		return nil
	case errors.As(err, &cerr):
		return patcherr.ExitCodeError(err, patcherr.ExitCodeConfig)
	case errors.As(err, &mrerr):
		return patcherr.ExitCodeError(err, patcherr.ExitCodeMissingResource)
	case errors.As(err, &pferr):
		return patcherr.ExitCodeError(err, patcherr.ExitCodePatchNotFound)
	case errors.As(err, &eterr):
		return patcherr.ExitCodeError(err, patcherr.ExitCodeExternalToolFail)
	}

	return patcherr.ExitCodeError(err, patcherr.ExitCodeUnknown)
}
