package apksigner

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Sign finds `apksigner` on the PATH and runs Sign against it.
// See Command.Sign.
func Sign(ctx context.Context, name string, opts *SignOpts) error {
	return Command("apksigner").Sign(ctx, name, opts)
}

// Command represents the path to an `apksigner` executable.
type Command string

func (c Command) String() string {
	return string(c)
}

// SignOpts represent flags that can be passed to `apksigner sign`.
// Passwords are handed over with the pass: scheme.
type SignOpts struct {
	Keystore         string
	KeystorePassword string
	KeyPassword      string
	KeyAlias         string
	OutputFile       string
}

// Args returns the arguments for signing the .apk at name.
func (o *SignOpts) Args(name string) []string {
	args := []string{"sign"}

	if o != nil {
		if o.Keystore != "" {
			args = append(args, "--ks", o.Keystore)
		}

		if o.KeystorePassword != "" {
			args = append(args, "--ks-pass", "pass:"+o.KeystorePassword)
		}

		if o.KeyPassword != "" {
			args = append(args, "--key-pass", "pass:"+o.KeyPassword)
		}

		if o.KeyAlias != "" {
			args = append(args, "--ks-key-alias", o.KeyAlias)
		}

		if o.OutputFile != "" {
			args = append(args, "--out", o.OutputFile)
		}
	}

	return append(args, name)
}

// Sign executes `apksigner sign` found at Command against the .apk
// at name with flags derived from the given SignOpts.
func (c Command) Sign(ctx context.Context, name string, opts *SignOpts) error {
	var (
		buf = new(bytes.Buffer)
		//nolint:gosec
		cmd = exec.CommandContext(ctx, c.String(), opts.Args(name)...)
	)

	cmd.Stderr = buf

	if err := cmd.Run(); err != nil {
		// Keep the arguments out of the error, they carry passwords.
		if msg := strings.TrimSpace(buf.String()); msg != "" {
			return fmt.Errorf("apksigner sign %s: %w: %s", name, err, msg)
		}

		return fmt.Errorf("apksigner sign %s: %w", name, err)
	}

	return nil
}
