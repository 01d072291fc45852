package apktool

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Decode finds `apktool` on the PATH and runs Decode against it.
// See Command.Decode.
func Decode(ctx context.Context, name string, opts *DecodeOpts) error {
	return Command("apktool").Decode(ctx, name, opts)
}

// Build finds `apktool` on the PATH and runs Build against it.
// See Command.Build.
func Build(ctx context.Context, dir string, opts *BuildOpts) error {
	return Command("apktool").Build(ctx, dir, opts)
}

// Command represents the path to an `apktool` executable.
type Command string

func (c Command) String() string {
	return string(c)
}

// DecodeOpts represent flags that can be passed to `apktool decode`.
type DecodeOpts struct {
	Force           bool
	NoResources     bool
	NoSources       bool
	OutputDirectory string
}

// Decode executes a command against `apktool` found at Command.
// It runs `apktool decode` against the .apk at name with flags
// derived from the given DecodeOpts.
func (c Command) Decode(ctx context.Context, name string, opts *DecodeOpts) error {
	args := []string{"decode"}

	if opts != nil {
		if opts.Force {
			args = append(args, "--force")
		}

		if opts.NoResources {
			args = append(args, "--no-res")
		}

		if opts.NoSources {
			args = append(args, "--no-src")
		}

		if opts.OutputDirectory != "" {
			args = append(args, "--output", opts.OutputDirectory)
		}
	}

	args = append(args, name)

	_, err := c.run(ctx, args...)
	return err
}

// BuildOpts represent flags that can be passed to `apktool build`.
type BuildOpts struct {
	Force      bool
	UseAAPT1   bool
	OutputFile string
}

// Build executes `apktool build` against the decoded directory dir
// with flags derived from the given BuildOpts.
func (c Command) Build(ctx context.Context, dir string, opts *BuildOpts) error {
	args := []string{"build"}

	if opts != nil {
		if opts.Force {
			args = append(args, "--force-all")
		}

		if opts.UseAAPT1 {
			args = append(args, "--use-aapt1")
		}

		if opts.OutputFile != "" {
			args = append(args, "--output", opts.OutputFile)
		}
	}

	args = append(args, dir)

	_, err := c.run(ctx, args...)
	return err
}

// Version returns the output of `apktool --version`, e.g. "2.9.3".
func (c Command) Version(ctx context.Context) (string, error) {
	out, err := c.run(ctx, "--version")
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(out), nil
}

func (c Command) run(ctx context.Context, args ...string) (string, error) {
	var (
		stdout = new(bytes.Buffer)
		stderr = new(bytes.Buffer)
		//nolint:gosec
		cmd = exec.CommandContext(ctx, c.String(), args...)
	)

	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%s %s: %w: %s", c, args[0], err, msg)
		}

		return "", fmt.Errorf("%s %s: %w", c, args[0], err)
	}

	return stdout.String(), nil
}
