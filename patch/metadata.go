package patch

import (
	"context"
	"regexp"
	"strconv"

	"github.com/frantjc/apkpatch"
)

const (
	RenameManifestPackageKey = "renameManifestPackage"
	VersionCodeKey           = "versionCode"
	VersionNameKey           = "versionName"
)

// ReplacePlaceholder replaces every line of content that reads
// `key: null` with `key: value`, keeping the line's indentation.
// It reports whether anything was replaced. Once a placeholder has
// been replaced it no longer matches, so repeated calls are no-ops.
func ReplacePlaceholder(content, key, value string) (string, bool) {
	var (
		re       = regexp.MustCompile(`(?m)^([ \t]*)` + regexp.QuoteMeta(key) + `: null[ \t]*(\r?)$`)
		replaced = false
	)

	content = re.ReplaceAllStringFunc(content, func(match string) string {
		replaced = true
		sub := re.FindStringSubmatch(match)
		return sub[1] + key + ": " + value + sub[2]
	})

	return content, replaced
}

func renamePackage(ctx context.Context, e *Engine) error {
	var (
		log  = apkpatch.LoggerFrom(ctx)
		name = e.Tree.Metadata()
	)

	content, err := readFile(name)
	if err != nil {
		return err
	}

	content, replaced := ReplacePlaceholder(content, RenameManifestPackageKey, *e.Config.PackageName)
	if !replaced {
		log.V(1).Info("no " + RenameManifestPackageKey + " placeholder, leaving package as is")
		return nil
	}

	return writeFile(name, content)
}

func rewriteVersion(ctx context.Context, e *Engine) error {
	var (
		log      = apkpatch.LoggerFrom(ctx)
		name     = e.Tree.Metadata()
		version  = e.Config.AppVersion
		replaced = false
		ok       bool
	)

	content, err := readFile(name)
	if err != nil {
		return err
	}

	if version.Code != nil {
		content, ok = ReplacePlaceholder(content, VersionCodeKey, strconv.FormatInt(*version.Code, 10))
		replaced = replaced || ok
		log.V(1).Info("rewrote "+VersionCodeKey, "replaced", ok)
	}

	if version.Name != nil {
		content, ok = ReplacePlaceholder(content, VersionNameKey, *version.Name)
		replaced = replaced || ok
		log.V(1).Info("rewrote "+VersionNameKey, "replaced", ok)
	}

	if !replaced {
		return nil
	}

	return writeFile(name, content)
}
