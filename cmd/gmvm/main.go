// Command gmvm runs, inspects and plays gmvm bytecode programs.
package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// app carries the configuration shared by every subcommand.
type app struct {
	v      *viper.Viper
	logger zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), logger: zerolog.Nop()}

	root := &cobra.Command{
		Use:           "gmvm",
		Short:         "Bytecode interpreter for GameMaker-style programs",
		Version:       fmt.Sprintf("%s (%s, %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.initConfig(cmd); err != nil {
				return err
			}
			return a.processGlobalFlags(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default is ./gmvm.yaml or ~/.config/gmvm/gmvm.yaml)")
	flags.String("log-level", "info", "log level (trace, debug, info, warn, error)")
	flags.Bool("no-color", false, "disable colored output")
	flags.Bool("verbose", false, "log every executed instruction")
	flags.Int("max-frame-depth", 0, "maximum script call depth (0 uses the default)")
	flags.Int64("iteration-budget", 0, "maximum instructions per invocation (0 means no limit)")
	flags.StringSlice("stub", nil, "register a built-in name that returns undefined")
	if err := a.v.BindPFlags(flags); err != nil {
		panic(err)
	}

	root.AddCommand(
		a.runCmd(),
		a.disCmd(),
		a.compileCmd(),
		a.builtinsCmd(),
		a.playCmd(),
	)
	return root
}

// initConfig reads the config file and environment. Keys use the flag
// names; environment variables use the GMVM_ prefix with underscores,
// e.g. GMVM_ITERATION_BUDGET.
func (a *app) initConfig(cmd *cobra.Command) error {
	a.v.SetEnvPrefix("gmvm")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if path := a.v.GetString("config"); path != "" {
		a.v.SetConfigFile(path)
	} else {
		a.v.SetConfigName("gmvm")
		a.v.SetConfigType("yaml")
		a.v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			a.v.AddConfigPath(filepath.Join(home, ".config", "gmvm"))
		}
	}
	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return a.v.BindPFlags(cmd.Flags())
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fatal(err)
	}
}
