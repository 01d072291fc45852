package command

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strings"

	"github.com/frantjc/apkpatch"
	xslice "github.com/frantjc/x/slice"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "APKPATCH"
	DotEnv    = ".env"
)

func isTruthy(s string) bool {
	return xslice.Some([]string{"1", "y", "yes", "true", "t"}, func(t string, _ int) bool {
		return strings.EqualFold(s, t)
	})
}

// LoadDotEnv sets any variables from the .env file at name that are not
// already set in the environment. A missing file is not an error.
func LoadDotEnv(name string) error {
	env := viper.New()
	env.SetConfigFile(name)
	env.SetConfigType("env")

	if err := env.ReadInConfig(); errors.Is(err, fs.ErrNotExist) {
		return nil
	} else if err != nil {
		return err
	}

	for _, key := range env.AllKeys() {
		key = strings.ToUpper(key)
		if _, ok := os.LookupEnv(key); !ok {
			if err := os.Setenv(key, env.GetString(key)); err != nil {
				return err
			}
		}
	}

	return nil
}

// NewViper returns a viper.Viper bound to cmd's flags and to
// environment variables prefixed with APKPATCH_, so that
// --decompile-dir can also be set with APKPATCH_DECOMPILE_DIR.
func NewViper(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}

	return v, nil
}

func SetCommon(cmd *cobra.Command, version string) *cobra.Command {
	var verbosity int
	cmd.PersistentFlags().CountVarP(&verbosity, "verbose", "V", fmt.Sprintf("Verbosity for %s.", cmd.Name()))
	cmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if err := LoadDotEnv(DotEnv); err != nil {
			return err
		}

		if isTruthy(os.Getenv(EnvPrefix+"_VERBOSE")) && verbosity < 1 {
			verbosity = 1
		}

		cmd.SetContext(
			apkpatch.WithLogger(
				cmd.Context(), apkpatch.NewLogger(cmd.ErrOrStderr(), verbosity),
			),
		)

		return nil
	}

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	cmd.Version = version
	cmd.SetVersionTemplate("{{ .Name }}{{ .Version }} " + runtime.Version() + "\n")

	return cmd
}
