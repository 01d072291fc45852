package command

import (
	"github.com/frantjc/apkpatch/android"
	xslice "github.com/frantjc/x/slice"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type inspection struct {
	Package               string `yaml:"package"`
	RenameManifestPackage string `yaml:"renameManifestPackage,omitempty"`
	VersionCode           string `yaml:"versionCode,omitempty"`
	VersionName           string `yaml:"versionName,omitempty"`
	Label                 string `yaml:"label,omitempty"`
	Icon                  string `yaml:"icon,omitempty"`
	RoundIcon             string `yaml:"roundIcon,omitempty"`
	APKTool               string `yaml:"apktool,omitempty"`
}

// newInspect returns the command which acts as the entrypoint for
// `apkpatch inspect`, printing what a decoded directory will build as.
func newInspect() *cobra.Command {
	var (
		cmd = &cobra.Command{
			Use:  "inspect <dir>",
			Args: cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var (
					ctx  = cmd.Context()
					tree = android.Tree(args[0])
				)

				manifest, err := tree.DecodeManifest(ctx)
				if err != nil {
					return err
				}

				metadata, err := tree.DecodeMetadata(ctx)
				if err != nil {
					return err
				}

				i := &inspection{
					Package:   manifest.Package(),
					Label:     manifest.Label(),
					Icon:      manifest.Icon(),
					RoundIcon: manifest.RoundIcon(),
					APKTool:   metadata.Version,
				}

				if metadata.PackageInfo != nil {
					i.RenameManifestPackage = metadata.PackageInfo.RenameManifestPackage
				}

				if metadata.VersionInfo != nil {
					i.VersionCode = metadata.VersionInfo.VersionCode
					i.VersionName = metadata.VersionInfo.VersionName
				}

				i.Package = xslice.Coalesce(i.RenameManifestPackage, i.Package)

				return yaml.NewEncoder(cmd.OutOrStdout()).Encode(i)
			},
		}
	)

	return cmd
}
