package keytool

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// SHA256CertFingerprints finds `keytool` on the PATH and runs
// SHA256CertFingerprints against it.
func SHA256CertFingerprints(ctx context.Context, name string) (string, error) {
	return Command("keytool").SHA256CertFingerprints(ctx, name)
}

// Command represents the path to a `keytool` executable.
type Command string

func (c Command) String() string {
	return string(c)
}

// SHA256CertFingerprints returns the SHA-256 fingerprint of the
// certificate that signed the .apk at name.
func (c Command) SHA256CertFingerprints(ctx context.Context, name string) (string, error) {
	var (
		buf = new(bytes.Buffer)
		//nolint:gosec
		cmd = exec.CommandContext(ctx, c.String(), "-printcert", "-jarfile", name)
	)

	cmd.Stdout = buf

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("keytool -printcert %s: %w", name, err)
	}

	return ParseSHA256CertFingerprints(buf)
}

// ParseSHA256CertFingerprints finds the SHA256 line in the
// output of `keytool -printcert`.
func ParseSHA256CertFingerprints(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.Contains(line, "SHA256: ") {
			if fields := strings.Fields(line); len(fields) >= 2 {
				return fields[1], nil
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return "", err
	}

	return "", fmt.Errorf("sha256 cert fingerprints not found")
}
