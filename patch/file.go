package patch

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

func readFile(name string) (string, error) {
	b, err := os.ReadFile(name)
	if errors.Is(err, fs.ErrNotExist) {
		return "", &MissingResourceError{Path: name, Err: err}
	} else if err != nil {
		return "", err
	}

	return string(b), nil
}

// writeFile replaces name with data by writing a temporary file
// next to it and renaming it into place, so that name is never
// left partially written.
func writeFile(name, data string) error {
	perm := fs.FileMode(0o644)
	if fi, err := os.Stat(name); err == nil {
		perm = fi.Mode().Perm()
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	f, err := os.CreateTemp(filepath.Dir(name), "."+filepath.Base(name)+".*")
	if err != nil {
		return err
	}
	defer func() {
		_ = os.Remove(f.Name())
	}()

	if _, err = f.WriteString(data); err != nil {
		_ = f.Close()
		return err
	}

	if err = f.Close(); err != nil {
		return err
	}

	if err = os.Chmod(f.Name(), perm); err != nil {
		return err
	}

	return os.Rename(f.Name(), name)
}
