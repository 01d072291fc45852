package android

import (
	"bytes"
	_ "embed"
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	//go:embed AndroidManifest.test.xml
	data []byte
)

func TestUnmarshalAndroidManifest(t *testing.T) {
	manifest := &Manifest{}
	require.NoError(t, xml.NewDecoder(bytes.NewReader(data)).Decode(manifest))

	assert.Equal(t, "com.twitter.android", manifest.Package())
	assert.Equal(t, "@mipmap/ic_launcher_twitter", manifest.Icon())
	assert.Equal(t, "@mipmap/ic_launcher_twitter_round", manifest.RoundIcon())
	assert.Equal(t, "@string/app_name", manifest.Label())
	assert.Len(t, manifest.UsesPermission, 2)
	assert.Len(t, manifest.Application.Activities, 1)
}
