// =============================================================================
// OpenGD77 CSV Converter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (gd77conv)
//   ├── convertCmd (gd77conv convert)
//   ├── previewCmd (gd77conv preview)
//   ├── editCmd    (gd77conv edit)
//   └── versionCmd (gd77conv version)
//
// CONFIGURATION:
//   Values are resolved in this order (first wins):
//   1. Command-line flags
//   2. GD77_* environment variables (GD77_OUTPUT, GD77_LOG_LEVEL, ...)
//   3. The YAML configuration file (--config)
//   4. Built-in defaults
//
// =============================================================================

package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ginjaninja78/opengd77-converter/internal/config"
	"github.com/ginjaninja78/opengd77-converter/internal/logging"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables verbose logging when set to true.
var verbose bool

// v resolves flag, environment and file values. Each command binds its own
// flags when it runs.
var v = viper.New()

// cfg is the resolved configuration of the running command.
var cfg *config.Config

// logger is the logger of the running command.
var logger *slog.Logger

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "gd77conv",
	Short: "Convert TYT/Retevis and DC9AL exports to OpenGD77 CSV",
	Long: `gd77conv converts contact and channel exports from TYT/Retevis CPS
software and DC9AL contact lists into the semicolon separated CSV files the
OpenGD77 CPS imports.

The input format is detected from the column headers. Contacts and channels
are selected independently of any filter, and OpenGD77 accepts at most 1024
contacts.

Example Usage:
  gd77conv preview --contacts contacts.csv
  gd77conv convert --contacts contacts.csv --channels channels.csv -o out/
  gd77conv convert --contacts dc9al.csv --contact-type Group
  gd77conv edit --contacts contacts.csv --channels channels.csv`,

	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == versionCmd.Name() {
			return nil
		}
		return initRuntime(cmd)
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)

	rootCmd.PersistentFlags().StringP("output", "o", "", "Output directory for the OpenGD77 CSV files")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text, json")
	rootCmd.PersistentFlags().StringSlice("encodings", nil, "Input encodings to try, in order (e.g. utf-8,cp1252)")
}

// initRuntime loads the configuration, applies flag and environment
// overrides and sets up logging.
func initRuntime(cmd *cobra.Command) error {
	v.SetEnvPrefix("GD77")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}

	// A config file named explicitly must exist; the default one may not.
	path := v.GetString("config")
	required := cmd.Flags().Changed("config") || os.Getenv("GD77_CONFIG") != ""

	loaded, err := config.Load(path, required)
	if err != nil {
		return err
	}

	level := v.GetString("log-level")
	if v.GetBool("verbose") {
		level = "debug"
	}

	if err := loaded.ApplyOverrides(config.Overrides{
		OutputDir: v.GetString("output"),
		LogLevel:  level,
		LogFormat: v.GetString("log-format"),
		Encodings: v.GetStringSlice("encodings"),
	}); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	cfg = loaded
	logger = logging.Setup(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
	logger.Debug("configuration loaded",
		"config", path,
		"output_dir", cfg.OutputDir,
		"encodings", cfg.Encodings,
	)
	return nil
}
