package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/frantjc/apkpatch"
	"github.com/frantjc/apkpatch/apksigner"
	"github.com/frantjc/apkpatch/apktool"
	"github.com/frantjc/apkpatch/keytool"
	"github.com/frantjc/apkpatch/patch"
	"github.com/frantjc/apkpatch/zipalign"
	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPKTool decodes into a minimal tree and "builds" by
// copying the patched apktool.yml to the output file.
const fakeAPKTool = `#!/bin/sh
case "$1" in
--version)
	echo 2.9.3
	;;
decode)
	shift
	while [ $# -gt 1 ]; do
		case "$1" in
		--output) out="$2"; shift ;;
		esac
		shift
	done
	mkdir -p "$out/res/values" "$out/res/values-de" "$out/res/mipmap-anydpi-v26"
	cat > "$out/apktool.yml" <<'YML'
packageInfo:
  renameManifestPackage: null
versionInfo:
  versionCode: null
  versionName: null
YML
	cat > "$out/res/values/strings.xml" <<'XML'
<resources>
    <string name="app_name">Twitter</string>
</resources>
XML
	echo '<resources/>' > "$out/res/values-de/strings.xml"
	;;
build)
	cp "$4/apktool.yml" "$3"
	;;
esac
`

const fakeZipalign = `#!/bin/sh
for arg; do
	in="$out"
	out="$arg"
done
cp "$in" "$out"
`

const fakeAPKSigner = `#!/bin/sh
while [ $# -gt 1 ]; do
	case "$1" in
	--out) out="$2"; shift ;;
	esac
	shift
done
cp "$1" "$out"
`

const fakeKeytool = `#!/bin/sh
echo "	 SHA256: AB:CD"
`

func script(t *testing.T, dir, name, content string) string {
	t.Helper()
	name = filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(name, []byte(content), 0o755))
	return name
}

func newOpts(t *testing.T) *Opts {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	var (
		bin = t.TempDir()
		apk = filepath.Join(t.TempDir(), "twitter.apk")
	)

	require.NoError(t, os.WriteFile(apk, []byte("apk"), 0o644))

	return &Opts{
		APK:          apk,
		DecompileDir: filepath.Join(t.TempDir(), "decompiled"),
		PatchesDir:   t.TempDir(),
		APKTool:      apktool.Command(script(t, bin, "apktool", fakeAPKTool)),
		Zipalign:     zipalign.Command(script(t, bin, "zipalign", fakeZipalign)),
		APKSigner:    apksigner.Command(script(t, bin, "apksigner", fakeAPKSigner)),
		Keytool:      keytool.Command(script(t, bin, "keytool", fakeKeytool)),
	}
}

func TestOutputNames(t *testing.T) {
	unsigned, aligned, signed := OutputNames("/apks/twitter.apk")
	assert.Equal(t, "/apks/twitter-unsigned-patched.apk", unsigned)
	assert.Equal(t, "/apks/twitter-zipaligned-patched.apk", aligned)
	assert.Equal(t, "/apks/twitter-patched.apk", signed)
}

func TestResolveAPKTool(t *testing.T) {
	assets := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(assets, "apktool"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(assets, "apktool", "linux"), nil, 0o755))

	cmd, err := ResolveAPKTool(assets, "linux")
	require.NoError(t, err)
	assert.Equal(t, apktool.Command(filepath.Join(assets, "apktool", "linux")), cmd)

	cmd, err = ResolveAPKTool(assets, "darwin")
	require.NoError(t, err)
	assert.Equal(t, apktool.Command("apktool"), cmd)

	_, err = ResolveAPKTool(assets, "plan9")
	assert.Error(t, err)
}

func TestRunSigned(t *testing.T) {
	opts := newOpts(t)
	opts.Config = &apkpatch.PatchConfig{
		PackageName:        func() *string { s := "com.x"; return &s }(),
		RemoveTranslations: func() *bool { b := true; return &b }(),
		Keystore: &apkpatch.Keystore{
			Path:     "release.jks",
			Password: "hunter2",
			KeyAlias: "release",
		},
	}

	res, err := Run(context.Background(), opts)
	require.NoError(t, err)

	unsigned, aligned, signed := OutputNames(opts.APK)
	assert.Equal(t, signed, res.Output)
	assert.True(t, res.Signed)
	assert.Equal(t, "AB:CD", res.SHA256CertFingerprints)
	assert.NoFileExists(t, unsigned)
	assert.NoFileExists(t, aligned)
	assert.NoDirExists(t, opts.DecompileDir)

	b, err := os.ReadFile(signed)
	require.NoError(t, err)
	assert.Contains(t, string(b), "renameManifestPackage: com.x")
	assert.Equal(t, digest.FromBytes(b), res.Digest)

	assert.Equal(t, []string{"remove-translations", "rename-package"}, res.Report.Applied)
}

func TestRunUnsignedKeep(t *testing.T) {
	opts := newOpts(t)
	opts.Keep = true
	opts.Config = &apkpatch.PatchConfig{
		AppName: func() *string { s := "X"; return &s }(),
	}

	res, err := Run(context.Background(), opts)
	require.NoError(t, err)

	unsigned, _, _ := OutputNames(opts.APK)
	assert.Equal(t, unsigned, res.Output)
	assert.False(t, res.Signed)
	assert.DirExists(t, filepath.Join(opts.DecompileDir, "res", "values-de"))

	b, err := os.ReadFile(filepath.Join(opts.DecompileDir, "res", "values", "strings.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(b), `<string name="app_name">X</string>`)
}

func TestRunPatchFailureStopsBeforeBuild(t *testing.T) {
	opts := newOpts(t)
	opts.Config = &apkpatch.PatchConfig{
		Patches: &apkpatch.Patches{{Name: "missing", Enabled: true}},
	}

	_, err := Run(context.Background(), opts)

	pferr := &patch.PatchFragmentNotFoundError{}
	require.ErrorAs(t, err, &pferr)

	unsigned, _, _ := OutputNames(opts.APK)
	assert.NoFileExists(t, unsigned)
	assert.DirExists(t, opts.DecompileDir)
}

func TestRunInvalidConfig(t *testing.T) {
	opts := newOpts(t)
	opts.Config = &apkpatch.PatchConfig{Keystore: &apkpatch.Keystore{}}

	_, err := Run(context.Background(), opts)

	cerr := &apkpatch.ConfigError{}
	require.ErrorAs(t, err, &cerr)
	assert.NoDirExists(t, opts.DecompileDir)
}

func TestRunNoAPK(t *testing.T) {
	_, err := Run(context.Background(), &Opts{})
	assert.Error(t, err)
}

func TestRunWithoutAPKExtension(t *testing.T) {
	opts := newOpts(t)

	apk := filepath.Join(filepath.Dir(opts.APK), "twitter.bin")
	require.NoError(t, os.Rename(opts.APK, apk))
	opts.APK = apk

	res, err := Run(context.Background(), opts)
	require.NoError(t, err)

	unsigned, _, _ := OutputNames(apk)
	assert.Equal(t, unsigned, res.Output)
	assert.Equal(t, filepath.Join(filepath.Dir(apk), "twitter-unsigned-patched.apk"), res.Output)
	assert.FileExists(t, res.Output)
}
