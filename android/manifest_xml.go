package android

import "encoding/xml"

const (
	AndroidManifestName = "AndroidManifest.xml"
	AndroidNamespace    = "http://schemas.android.com/apk/res/android"
)

type Manifest struct {
	XMLName        xml.Name                 `xml:"manifest"`
	UsesPermission []ManifestUsesPermission `xml:"uses-permission"`
	Application    ManifestApplication      `xml:"application"`
	Attrs          []xml.Attr               `xml:",any,attr"`
}

func attr(attrs []xml.Attr, space, local string) string {
	for _, attr := range attrs {
		if (space == "" || attr.Name.Space == space) && attr.Name.Local == local {
			return attr.Value
		}
	}

	return ""
}

// Package is the manifest's package attribute. apktool leaves it
// untouched when renaming, so after a rename it is the original package.
func (m *Manifest) Package() string {
	return attr(m.Attrs, "", "package")
}

// Icon is the application's android:icon reference, e.g. "@mipmap/ic_launcher".
func (m *Manifest) Icon() string {
	return attr(m.Application.Attrs, AndroidNamespace, "icon")
}

// RoundIcon is the application's android:roundIcon reference.
func (m *Manifest) RoundIcon() string {
	return attr(m.Application.Attrs, AndroidNamespace, "roundIcon")
}

// Label is the application's android:label, usually "@string/app_name".
func (m *Manifest) Label() string {
	return attr(m.Application.Attrs, AndroidNamespace, "label")
}

type ManifestUsesPermission struct {
	Attrs []xml.Attr `xml:",any,attr"`
}

type ManifestApplication struct {
	Activities []ManifestApplicationActivity `xml:"activity"`
	Attrs      []xml.Attr                    `xml:",any,attr"`
}

type ManifestApplicationActivity struct {
	Attrs []xml.Attr `xml:",any,attr"`
}
