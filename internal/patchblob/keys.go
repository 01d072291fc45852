package patchblob

import "path"

// APKKey is the key a patched .apk named name is uploaded to for the run id.
func APKKey(id, name string) string {
	return path.Join(id, path.Base(name))
}
