package patch

import (
	"context"
	"regexp"
)

var (
	appNameRe = regexp.MustCompile(`(?i)<string name="app_name">.*</string>`)
)

// RenameApp sets the text of the app_name string resource in content.
// Every element matching the pattern is replaced, not just the first.
func RenameApp(content, name string) string {
	return appNameRe.ReplaceAllLiteralString(content, `<string name="app_name">`+name+`</string>`)
}

func renameApp(_ context.Context, e *Engine) error {
	name := e.Tree.Strings()

	content, err := readFile(name)
	if err != nil {
		return err
	}

	return writeFile(name, RenameApp(content, *e.Config.AppName))
}
