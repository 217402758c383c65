package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jingkaihe/skillgen/pkg/generator"
	"github.com/jingkaihe/skillgen/pkg/logger"
	"github.com/jingkaihe/skillgen/pkg/presenter"
	"github.com/jingkaihe/skillgen/pkg/version"
)

func init() {
	// Environment variables
	viper.SetEnvPrefix("SKILLGEN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	// Config file support
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.skillgen")
	viper.AddConfigPath(".")

	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_format", "fmt")
	generator.SetViperDefaults()

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (default: $HOME/.skillgen/config.yaml or ./config.yaml)")
	flags.String("log-level", "info", "Log level (panic, fatal, error, warn, info, debug, trace)")
	flags.String("log-format", "fmt", "Log format (fmt or json)")
	flags.BoolP("quiet", "q", false, "Suppress informational output")
	flags.StringP("output-dir", "d", generator.DefaultOutputDir, "Directory generated skills are placed under")
	flags.String("default-format", "full-package", "Output format used when a request does not name one")
	flags.Bool("block-dangerous", false, "Reject requests whose tools form a dangerous combination")
	flags.StringSlice("baseline", nil, "Tools considered already granted when reporting escalation")

	// Bind flags to viper
	viper.BindPFlag("config", flags.Lookup("config"))
	viper.BindPFlag("log_level", flags.Lookup("log-level"))
	viper.BindPFlag("log_format", flags.Lookup("log-format"))
	viper.BindPFlag("quiet", flags.Lookup("quiet"))
	viper.BindPFlag("output_dir", flags.Lookup("output-dir"))
	viper.BindPFlag("format", flags.Lookup("default-format"))
	viper.BindPFlag("policy.block_dangerous_combinations", flags.Lookup("block-dangerous"))
	viper.BindPFlag("policy.baseline_tools", flags.Lookup("baseline"))

	// Add subcommands
	rootCmd.AddCommand(withTracing(generateCmd))
	rootCmd.AddCommand(withTracing(validateCmd))
	rootCmd.AddCommand(withTracing(planCmd))
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(withTracing(listCmd))
	rootCmd.AddCommand(withTracing(importCmd))
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "skillgen",
	Short: "Generate skill packages from structured requests",
	Long: `skillgen validates skill requests, resolves the permissions their tools need,
selects a template family and plans the files of a skill package.

A request can be given as a JSON or YAML file, or with command line flags.`,
	Version:           version.Get().Short(),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

// setup loads the config file and applies the logging and output settings
// shared by every command.
func setup(cmd *cobra.Command, _ []string) error {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "failed to read config file %s", configFile)
		}
	} else if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return errors.Wrap(err, "failed to read config file")
		}
	}

	logger.SetLogOutput(os.Stderr)
	if err := logger.Configure(viper.GetString("log_level"), viper.GetString("log_format")); err != nil {
		return errors.Wrap(err, "invalid log level")
	}
	presenter.SetQuiet(viper.GetBool("quiet"))

	if err := startTracing(cmd.Context()); err != nil {
		logger.G(cmd.Context()).WithError(err).Warn("failed to initialize tracing")
	}

	if used := viper.ConfigFileUsed(); used != "" {
		logger.G(cmd.Context()).WithField("config", used).Debug("loaded config file")
	}
	return nil
}

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer shutdownTracing()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			presenter.Error(err, "")
		}
		return 1
	}
	return 0
}

// errReported is returned by commands that already printed their failures.
var errReported = errors.New("failures reported")

func usageError(cmd *cobra.Command, format string, args ...any) error {
	return errors.Errorf("%s (see '%s --help')", fmt.Sprintf(format, args...), cmd.CommandPath())
}
