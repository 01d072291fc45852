package command

import (
	"fmt"
	"os"
	"strings"

	"github.com/frantjc/apkpatch"
	"github.com/frantjc/apkpatch/apksigner"
	"github.com/frantjc/apkpatch/apktool"
	"github.com/frantjc/apkpatch/internal/pipeline"
	"github.com/frantjc/apkpatch/keytool"
	"github.com/frantjc/apkpatch/patch"
	"github.com/frantjc/apkpatch/zipalign"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewAPKPatch returns the root command for
// apkpatch which acts as its CLI entrypoint.
func NewAPKPatch() *cobra.Command {
	var (
		cmd = &cobra.Command{
			Use:  "apkpatch [flags] <apk>",
			Args: cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var (
					ctx = cmd.Context()
					log = apkpatch.LoggerFrom(ctx)
				)

				v, err := NewViper(cmd)
				if err != nil {
					return err
				}
				// Names understood before flags existed.
				if err := v.BindEnv("decompile-dir", EnvPrefix+"_DECOMPILE_DIR", "DECOMPILE_FOLDER"); err != nil {
					return err
				}

				cfgName := v.GetString("config")
				log.V(1).Info("loading config " + cfgName)
				cfg, err := apkpatch.Load(cfgName)
				if err != nil {
					return ExitCodeError(err)
				}

				res, err := pipeline.Run(ctx, &pipeline.Opts{
					APK:          args[0],
					Config:       cfg,
					DecompileDir: v.GetString("decompile-dir"),
					PatchesDir:   v.GetString("patches-dir"),
					AssetsDir:    v.GetString("assets-dir"),
					Keep:         v.GetBool("keep") || strings.EqualFold(os.Getenv("ENV"), "DEV"),
					UploadURL:    v.GetString("upload"),
					APKTool:      apktool.Command(v.GetString("apktool")),
					Zipalign:     zipalign.Command(v.GetString("zipalign")),
					APKSigner:    apksigner.Command(v.GetString("apksigner")),
					Keytool:      keytool.Command(v.GetString("keytool")),
				})
				if err != nil {
					return ExitCodeError(err)
				}

				return yaml.NewEncoder(cmd.OutOrStdout()).Encode(resultSummary(res))
			},
		}
	)

	cmd.Flags().StringP("config", "c", "config.json", "path to the patch config, JSON or YAML")
	cmd.Flags().StringP("decompile-dir", "d", "", "directory to decompile the .apk to")
	cmd.Flags().String("patches-dir", patch.DefaultPatchesDir, "directory holding one subdirectory per overlay patch")
	cmd.Flags().String("assets-dir", "assets", "directory searched for a bundled apktool")
	cmd.Flags().Bool("keep", false, "keep the decompiled directory after a successful run")
	cmd.Flags().String("upload", "", "gocloud.dev/blob URL to upload the patched .apk to")
	cmd.Flags().String("apktool", "", "path to apktool, defaults to the bundled one or the PATH")
	cmd.Flags().String("zipalign", "zipalign", "path to zipalign")
	cmd.Flags().String("apksigner", "apksigner", "path to apksigner")
	cmd.Flags().String("keytool", "keytool", "path to keytool")

	cmd.AddCommand(newPatch(), newInspect())

	return cmd
}

type summary struct {
	ID                     string   `yaml:"id"`
	Output                 string   `yaml:"output,omitempty"`
	Signed                 bool     `yaml:"signed"`
	Digest                 string   `yaml:"digest,omitempty"`
	SHA256CertFingerprints string   `yaml:"sha256CertFingerprints,omitempty"`
	Key                    string   `yaml:"key,omitempty"`
	Applied                []string `yaml:"applied,omitempty"`
	Patches                []string `yaml:"patches,omitempty"`
}

func resultSummary(res *pipeline.Result) *summary {
	s := &summary{
		ID:                     res.ID,
		Output:                 res.Output,
		Signed:                 res.Signed,
		SHA256CertFingerprints: res.SHA256CertFingerprints,
		Key:                    res.Key,
	}

	if res.Digest != "" {
		s.Digest = res.Digest.String()
	}

	if res.Report != nil {
		s.Applied = res.Report.Applied
		s.Patches = res.Report.Patches
	}

	return s
}

func reportSummary(report *patch.Report) string {
	return fmt.Sprintf("applied: %s\nskipped: %s\npatches: %s\n",
		strings.Join(report.Applied, ", "),
		strings.Join(report.Skipped, ", "),
		strings.Join(report.Patches, ", "),
	)
}
