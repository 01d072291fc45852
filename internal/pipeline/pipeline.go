package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/frantjc/apkpatch"
	"github.com/frantjc/apkpatch/apksigner"
	"github.com/frantjc/apkpatch/apktool"
	"github.com/frantjc/apkpatch/internal/patchblob"
	"github.com/frantjc/apkpatch/internal/patchregexp"
	"github.com/frantjc/apkpatch/keytool"
	"github.com/frantjc/apkpatch/patch"
	"github.com/frantjc/apkpatch/zipalign"
	xstrings "github.com/frantjc/x/strings"
	"github.com/google/uuid"
	"github.com/opencontainers/go-digest"
	"golang.org/x/mod/semver"
)

const (
	// MinAPKToolVersion is the oldest apktool known to decode
	// recent APKs correctly. Older versions only get a warning.
	MinAPKToolVersion = "v2.9.0"
)

// ExternalToolError is returned when one of the
// external tools the pipeline drives fails.
type ExternalToolError struct {
	Step string
	Err  error
}

func (e *ExternalToolError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *ExternalToolError) Unwrap() error {
	return e.Err
}

type Opts struct {
	// APK is the path to the .apk to patch.
	APK    string
	Config *apkpatch.PatchConfig
	// DecompileDir is where the .apk is decoded to. It is emptied
	// before decoding. Defaults to a directory under os.TempDir.
	DecompileDir string
	PatchesDir   string
	// AssetsDir is searched for a bundled apktool before the PATH.
	AssetsDir string
	// Keep leaves DecompileDir in place after a successful run.
	Keep bool
	// UploadURL, if set, is a gocloud.dev/blob URL the result is uploaded to.
	UploadURL string

	APKTool   apktool.Command
	Zipalign  zipalign.Command
	APKSigner apksigner.Command
	Keytool   keytool.Command
}

type Result struct {
	ID                     string
	Output                 string
	Signed                 bool
	Digest                 digest.Digest
	SHA256CertFingerprints string
	Key                    string
	Report                 *patch.Report
}

// StripExtension removes the last extension from name.
func StripExtension(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// OutputNames returns the names of the intermediate and final
// files that the pipeline writes next to the .apk at name.
func OutputNames(name string) (unsigned, aligned, signed string) {
	base := StripExtension(name)
	return base + "-unsigned-patched.apk", base + "-zipaligned-patched.apk", base + "-patched.apk"
}

// ResolveAPKTool returns the apktool wrapper bundled in assetsDir for
// goos if there is one, and `apktool` from the PATH otherwise.
func ResolveAPKTool(assetsDir, goos string) (apktool.Command, error) {
	var script string
	switch goos {
	case "windows":
		script = "win.bat"
	case "darwin":
		script = "osx"
	case "linux":
		script = "linux"
	default:
		return "", fmt.Errorf("unsupported OS: %s. Only Windows, Linux and macOS are supported", goos)
	}

	if assetsDir != "" {
		name := filepath.Join(assetsDir, "apktool", script)
		if fi, err := os.Stat(name); err == nil && !fi.IsDir() {
			return apktool.Command(name), nil
		} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
	}

	return apktool.Command("apktool"), nil
}

func (o *Opts) defaults() error {
	if o.APK == "" {
		return fmt.Errorf("no .apk given")
	}

	if o.Config == nil {
		o.Config = &apkpatch.PatchConfig{}
	}

	if o.APKTool == "" {
		var err error
		if o.APKTool, err = ResolveAPKTool(o.AssetsDir, runtime.GOOS); err != nil {
			return err
		}
	}

	if o.Zipalign == "" {
		o.Zipalign = "zipalign"
	}

	if o.APKSigner == "" {
		o.APKSigner = "apksigner"
	}

	if o.Keytool == "" {
		o.Keytool = "keytool"
	}

	if o.PatchesDir == "" {
		o.PatchesDir = patch.DefaultPatchesDir
	}

	return nil
}

// Run decodes the .apk, patches it, builds it back and, if the config
// has a keystore, aligns and signs it. Any failure stops the run before
// the next step so a partially patched tree is never built.
func Run(ctx context.Context, opts *Opts) (*Result, error) {
	if opts == nil {
		opts = &Opts{}
	}

	if err := opts.defaults(); err != nil {
		return nil, err
	}

	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}

	var (
		res = &Result{ID: uuid.NewString()}
		log = apkpatch.LoggerFrom(ctx).WithValues("id", res.ID)
		err error
	)

	apk, err := filepath.Abs(opts.APK)
	if err != nil {
		return nil, err
	}

	if !patchregexp.IsAPK(apk) {
		log.Info("WARNING: input does not have an .apk extension", "apk", apk)
	}

	dir := opts.DecompileDir
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "apkpatch-"+res.ID)
	}

	if dir, err = filepath.Abs(dir); err != nil {
		return nil, err
	}

	unsigned, aligned, signed := OutputNames(apk)

	version, err := opts.APKTool.Version(ctx)
	if err != nil {
		return nil, &ExternalToolError{Step: "apktool version", Err: err}
	}

	semVersion := xstrings.EnsurePrefix(patchregexp.APKToolVer.FindString(version), "v")
	if !semver.IsValid(semVersion) || semver.Compare(semVersion, MinAPKToolVersion) < 0 {
		log.Info("apktool may be too old", "version", version, "minimum", MinAPKToolVersion)
	}

	log.Info("starting",
		"os", runtime.GOOS,
		"go", runtime.Version(),
		"apktool", opts.APKTool.String(),
		"apktoolVersion", version,
		"apk", apk,
		"decompileDir", dir,
	)

	if err = os.RemoveAll(dir); err != nil {
		return nil, err
	}

	log.Info("decompiling " + apk)
	if err = opts.APKTool.Decode(ctx, apk, &apktool.DecodeOpts{
		Force:           true,
		NoSources:       true,
		OutputDirectory: dir,
	}); err != nil {
		return nil, &ExternalToolError{Step: "decompile", Err: err}
	}

	log.Info("patching " + dir)
	engine := patch.New(dir, opts.Config, patch.WithPatchesDir(opts.PatchesDir))
	err = engine.Run(ctx)
	res.Report = engine.Report()
	if err != nil {
		log.Info("leaving decompiled tree for inspection", "decompileDir", dir)
		return res, fmt.Errorf("patch: %w", err)
	}

	if err = ctx.Err(); err != nil {
		return res, err
	}

	log.Info("building " + unsigned)
	if err = opts.APKTool.Build(ctx, dir, &apktool.BuildOpts{OutputFile: unsigned}); err != nil {
		return res, &ExternalToolError{Step: "build", Err: err}
	}

	res.Output = unsigned

	if ks := opts.Config.Keystore; ks != nil {
		log.Info("zip aligning " + aligned)
		if err = opts.Zipalign.Align(ctx, unsigned, aligned, &zipalign.AlignOpts{
			Force:     true,
			Verbose:   log.V(2).Enabled(),
			Alignment: 4,
		}); err != nil {
			return res, &ExternalToolError{Step: "zipalign", Err: err}
		}

		if err = os.Remove(unsigned); err != nil {
			return res, err
		}

		log.Info("signing " + signed)
		if err = opts.APKSigner.Sign(ctx, aligned, &apksigner.SignOpts{
			Keystore:         ks.Path,
			KeystorePassword: ks.Password,
			KeyPassword:      ks.Password,
			KeyAlias:         ks.KeyAlias,
			OutputFile:       signed,
		}); err != nil {
			return res, &ExternalToolError{Step: "sign", Err: err}
		}

		if err = os.Remove(aligned); err != nil {
			return res, err
		}

		res.Output = signed
		res.Signed = true

		if res.SHA256CertFingerprints, err = opts.Keytool.SHA256CertFingerprints(ctx, signed); err != nil {
			// The .apk is signed either way, the fingerprint is informational.
			log.Error(err, "reading certificate fingerprints")
		}
	} else {
		log.Info("WARNING: no keystore specified, the .apk was not signed")
	}

	f, err := os.Open(res.Output)
	if err != nil {
		return res, err
	}
	defer f.Close()

	if res.Digest, err = digest.FromReader(f); err != nil {
		return res, err
	}

	if opts.UploadURL != "" {
		res.Key = patchblob.APKKey(res.ID, res.Output)

		log.Info("uploading "+res.Output, "key", res.Key)
		if err = patchblob.Upload(ctx, opts.UploadURL, res.Key, res.Output); err != nil {
			return res, fmt.Errorf("upload: %w", err)
		}
	}

	if !opts.Keep {
		log.Info("cleaning " + dir)
		if err = os.RemoveAll(dir); err != nil {
			return res, err
		}
	}

	log.Info("done", "output", res.Output, "digest", res.Digest.String(), "sha256CertFingerprints", res.SHA256CertFingerprints)

	return res, nil
}
