package patchregexp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTranslation(t *testing.T) {
	for _, name := range []string{
		"values-de",
		"values-en-rGB",
		"values-pt-rBR",
		"values-zh-rCN",
	} {
		assert.True(t, IsTranslation(name), name)
	}

	for _, name := range []string{
		"values",
		"values-v21",
		"values-v26",
		"mipmap-anydpi-v26",
		"drawable-hdpi",
		"values-night",
		"values-land",
		"values-sw600dp",
		"values-rUS",
		"values-de-v21",
		"values-en-rGB-v26",
		"drawable-fr-hdpi",
		"values-xy-foo",
		"layout",
	} {
		assert.False(t, IsTranslation(name), name)
	}
}

func TestIsAPK(t *testing.T) {
	assert.True(t, IsAPK("twitter.apk"))
	assert.True(t, IsAPK("/tmp/apks/Twitter-10.0.APK"))
	assert.False(t, IsAPK("twitter.ipa"))
	assert.False(t, IsAPK("twitter"))
}
