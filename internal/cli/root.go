package cli

import (
	"fmt"
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"crownbind/internal/common"
	"crownbind/loaderr"
)

// version is set at build time via ldflags.
var version = "dev"

const envPrefix = "CROWNBIND"

type RootConfig struct {
	ConfigFile string
	LogLevel   string
	DebugTrail string
	Strict     bool
}

func Execute() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "crownbind:", common.ErrMessage(err))
		os.Exit(exitCodeForError(err))
	}
}

func newRootCommand() *cobra.Command {
	cfg := RootConfig{}
	cmd := &cobra.Command{
		Use:           "crownbind",
		Short:         "Load and dump records through declarative layouts",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := initConfig(cfg.ConfigFile); err != nil {
				return err
			}

			setupLogging(viper.GetString("log_level"))

			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&cfg.ConfigFile, "config", "", "Config file path")
	cmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", "info", "Log level")
	cmd.PersistentFlags().StringVar(&cfg.DebugTrail, "debug-trail", "all", "Error detail: none, first or all")
	cmd.PersistentFlags().BoolVar(&cfg.Strict, "strict", true, "Refuse lossy and textual scalar coercions")
	_ = viper.BindPFlag("log_level", cmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("debug_trail", cmd.PersistentFlags().Lookup("debug-trail"))
	_ = viper.BindPFlag("strict", cmd.PersistentFlags().Lookup("strict"))

	cmd.AddCommand(newLintCommand())
	cmd.AddCommand(newLoadCommand())
	cmd.AddCommand(newExplainCommand())
	cmd.AddCommand(newScaffoldCommand())

	return cmd
}

func initConfig(configFile string) error {
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("failed to read config file").
				WithCause(err)
		}

		return nil
	}

	viper.SetConfigName("crownbind")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.config/crownbind")

	if err := viper.ReadInConfig(); err != nil {
		log.Debug().Err(err).Msg("no config file")
	}

	return nil
}

func setupLogging(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// exitCodeForError maps load failures to 2 and configuration problems to 3.
func exitCodeForError(err error) int {
	if loaderr.Is(err) {
		return 2
	}

	switch errbuilder.CodeOf(err) {
	case errbuilder.CodeInvalidArgument:
		return 3
	case errbuilder.CodeNotFound, errbuilder.CodeFailedPrecondition:
		return 4
	case errbuilder.CodeInternal:
		return 5
	default:
		return 1
	}
}
