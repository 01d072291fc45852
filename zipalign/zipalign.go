package zipalign

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Align finds `zipalign` on the PATH and runs Align against it.
// See Command.Align.
func Align(ctx context.Context, name, out string, opts *AlignOpts) error {
	return Command("zipalign").Align(ctx, name, out, opts)
}

// Command represents the path to a `zipalign` executable.
type Command string

func (c Command) String() string {
	return string(c)
}

// AlignOpts represent flags that can be passed to `zipalign`.
type AlignOpts struct {
	Force     bool
	Verbose   bool
	Alignment int
}

// Args returns the arguments for aligning the .apk at name to out.
func (o *AlignOpts) Args(name, out string) []string {
	var (
		args      = []string{}
		alignment = 4
	)

	if o != nil {
		if o.Force {
			args = append(args, "-f")
		}

		if o.Verbose {
			args = append(args, "-v")
		}

		if o.Alignment > 0 {
			alignment = o.Alignment
		}
	}

	return append(args, strconv.Itoa(alignment), name, out)
}

// Align executes `zipalign` found at Command, writing an aligned
// copy of the .apk at name to out.
func (c Command) Align(ctx context.Context, name, out string, opts *AlignOpts) error {
	var (
		buf = new(bytes.Buffer)
		//nolint:gosec
		cmd = exec.CommandContext(ctx, c.String(), opts.Args(name, out)...)
	)

	cmd.Stderr = buf

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(buf.String()); msg != "" {
			return fmt.Errorf("zipalign %s: %w: %s", name, err, msg)
		}

		return fmt.Errorf("zipalign %s: %w", name, err)
	}

	return nil
}
