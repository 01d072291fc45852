package patch

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/frantjc/apkpatch"
	"github.com/frantjc/apkpatch/internal/patchregexp"
)

func removeTranslations(ctx context.Context, e *Engine) error {
	var (
		log = apkpatch.LoggerFrom(ctx)
		res = e.Tree.Res()
	)

	dirs, err := e.Tree.Dirs(res)
	if errors.Is(err, fs.ErrNotExist) {
		return &MissingResourceError{Path: res, Err: err}
	} else if err != nil {
		return err
	}

	removed := 0
	for _, dir := range dirs {
		if !patchregexp.IsTranslation(dir) {
			continue
		}

		if err := os.RemoveAll(filepath.Join(res, dir)); err != nil {
			return err
		}

		log.V(1).Info("removed " + dir)
		removed++
	}

	log.V(1).Info("removed translations", "count", removed)

	return nil
}
