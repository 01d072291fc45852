package apktool

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPKTool writes a script that records its arguments
// and prints a version, standing in for apktool.
func fakeAPKTool(t *testing.T, exit int) (Command, string) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	var (
		dir  = t.TempDir()
		args = filepath.Join(dir, "args")
		name = filepath.Join(dir, "apktool")
	)

	script := fmt.Sprintf("#!/bin/sh\necho \"$@\" > %s\necho 2.9.3\necho failed >&2\nexit %d\n", args, exit)
	require.NoError(t, os.WriteFile(name, []byte(script), 0o755))

	return Command(name), args
}

func TestCommandDecode(t *testing.T) {
	cmd, args := fakeAPKTool(t, 0)

	require.NoError(t, cmd.Decode(context.Background(), "twitter.apk", &DecodeOpts{
		Force:           true,
		NoSources:       true,
		OutputDirectory: "out",
	}))

	b, err := os.ReadFile(args)
	require.NoError(t, err)
	assert.Equal(t, "decode --force --no-src --output out twitter.apk\n", string(b))
}

func TestCommandBuild(t *testing.T) {
	cmd, args := fakeAPKTool(t, 0)

	require.NoError(t, cmd.Build(context.Background(), "out", &BuildOpts{OutputFile: "twitter-unsigned-patched.apk"}))

	b, err := os.ReadFile(args)
	require.NoError(t, err)
	assert.Equal(t, "build --output twitter-unsigned-patched.apk out\n", string(b))
}

func TestCommandVersion(t *testing.T) {
	cmd, _ := fakeAPKTool(t, 0)

	version, err := cmd.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2.9.3", version)
}

func TestCommandError(t *testing.T) {
	cmd, _ := fakeAPKTool(t, 1)

	err := cmd.Build(context.Background(), "out", nil)
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed")
}
