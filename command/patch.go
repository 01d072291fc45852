package command

import (
	"fmt"

	"github.com/frantjc/apkpatch"
	"github.com/frantjc/apkpatch/patch"
	"github.com/spf13/cobra"
)

// newPatch returns the command which acts as the entrypoint for
// `apkpatch patch`, running only the patch engine against an
// already decoded directory.
func newPatch() *cobra.Command {
	var (
		cmd = &cobra.Command{
			Use:  "patch [flags] <dir>",
			Args: cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var (
					ctx = cmd.Context()
				)

				v, err := NewViper(cmd)
				if err != nil {
					return err
				}

				cfg, err := apkpatch.Load(v.GetString("config"))
				if err != nil {
					return ExitCodeError(err)
				}

				engine := patch.New(args[0], cfg, patch.WithPatchesDir(v.GetString("patches-dir")))
				err = engine.Run(ctx)
				if _, perr := fmt.Fprint(cmd.OutOrStdout(), reportSummary(engine.Report())); perr != nil && err == nil {
					err = perr
				}

				return ExitCodeError(err)
			},
		}
	)

	cmd.Flags().StringP("config", "c", "config.json", "path to the patch config, JSON or YAML")
	cmd.Flags().String("patches-dir", patch.DefaultPatchesDir, "directory holding one subdirectory per overlay patch")

	return cmd
}
