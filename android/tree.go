package android

import (
	"context"
	"encoding/xml"
	"os"
	"path/filepath"

	"github.com/frantjc/apkpatch/apktool"
	"gopkg.in/yaml.v3"
)

const (
	// AdaptiveIconDirName is the resource directory holding
	// adaptive icon descriptors, introduced in API level 26.
	AdaptiveIconDirName = "mipmap-anydpi-v26"
	StringsName         = "strings.xml"
)

// Tree is the root directory of an APK decoded by apktool.
type Tree string

func (t Tree) String() string {
	return string(t)
}

func (t Tree) Join(elem ...string) string {
	return filepath.Join(append([]string{t.String()}, elem...)...)
}

// Res is the path to the res directory.
func (t Tree) Res() string {
	return t.Join("res")
}

// Values is the path to the default values directory.
func (t Tree) Values() string {
	return t.Join("res", "values")
}

// Strings is the path to the default strings resource file.
func (t Tree) Strings() string {
	return t.Join("res", "values", StringsName)
}

// Metadata is the path to apktool.yml.
func (t Tree) Metadata() string {
	return t.Join(apktool.MetadataName)
}

// Manifest is the path to AndroidManifest.xml.
func (t Tree) Manifest() string {
	return t.Join(AndroidManifestName)
}

// AdaptiveIcon is the path to the adaptive icon descriptor
// named name, e.g. "ic_launcher" for res/mipmap-anydpi-v26/ic_launcher.xml.
func (t Tree) AdaptiveIcon(name string) string {
	return t.Join("res", AdaptiveIconDirName, name+".xml")
}

// Dirs lists the names of the immediate subdirectories of dir.
func (t Tree) Dirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	dirs := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry.Name())
		}
	}

	return dirs, nil
}

// DecodeMetadata reads apktool.yml.
func (t Tree) DecodeMetadata(_ context.Context) (*apktool.Metadata, error) {
	f, err := os.Open(t.Metadata())
	if err != nil {
		return nil, err
	}
	defer f.Close()

	metadata := &apktool.Metadata{}
	return metadata, yaml.NewDecoder(f).Decode(metadata)
}

// DecodeManifest reads AndroidManifest.xml.
func (t Tree) DecodeManifest(_ context.Context) (*Manifest, error) {
	f, err := os.Open(t.Manifest())
	if err != nil {
		return nil, err
	}
	defer f.Close()

	manifest := &Manifest{}
	return manifest, xml.NewDecoder(f).Decode(manifest)
}
