package patcherr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	var (
		base = errors.New("boom")
		err  = ExitCodeError(base, ExitCodeConfig)
	)

	assert.Equal(t, ExitCodeConfig, ExitCode(err))
	assert.Equal(t, ExitCodeConfig, ExitCode(fmt.Errorf("wrapped: %w", err)))
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "boom", err.Error())

	assert.Equal(t, ExitCodeUnknown, ExitCode(base))
	assert.Equal(t, 0, ExitCode(nil))
	assert.Nil(t, ExitCodeError(nil, ExitCodeConfig))
	assert.Equal(t, ExitCodeUnknown, ExitCode(ExitCodeError(base, 300)))
}
