package patch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/frantjc/apkpatch"
	"github.com/otiai10/copy"
)

// isPatchName reports whether name refers to a directory directly
// inside the patches directory.
func isPatchName(name string) bool {
	return filepath.IsLocal(name) && name != "." && !strings.ContainsAny(name, `/\`)
}

// applyPatches copies each enabled overlay onto the tree in config order,
// so a later patch overwrites files written by an earlier one. A missing
// overlay fails the whole run; overlays copied before it stay in place.
func applyPatches(ctx context.Context, e *Engine) error {
	var (
		log     = apkpatch.LoggerFrom(ctx)
		patches = *e.Config.Patches
	)

	for i, patch := range patches {
		log.Info(fmt.Sprintf("applying patch [%d/%d]", i+1, len(patches)), "patch", patch.Name, "enabled", patch.Enabled)

		if !patch.Enabled {
			continue
		}

		if !isPatchName(patch.Name) {
			return fmt.Errorf("invalid patch name %q", patch.Name)
		}

		src := filepath.Join(e.patchesDir, patch.Name)

		fi, err := os.Stat(src)
		if errors.Is(err, fs.ErrNotExist) || (err == nil && !fi.IsDir()) {
			return &PatchFragmentNotFoundError{Name: patch.Name, Path: src}
		} else if err != nil {
			return err
		}

		if err := copy.Copy(src, e.Tree.String(), copy.Options{
			OnSymlink: func(string) copy.SymlinkAction {
				return copy.Deep
			},
			OnDirExists: func(_, _ string) copy.DirExistsAction {
				return copy.Merge
			},
		}); err != nil {
			return fmt.Errorf("copy patch %s: %w", patch.Name, err)
		}

		e.report.Patches = append(e.report.Patches, patch.Name)
	}

	return nil
}
