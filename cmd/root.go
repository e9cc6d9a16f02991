// =============================================================================
// Registry Converter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All other commands
// are attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (registryconv)
//   ├── convertCmd    (registryconv convert FILE)
//   ├── initConfigCmd (registryconv init-config)
//   └── versionCmd    (registryconv version)
//
// EXIT CODES:
//   0  converted, or nothing to do
//   1  any other failure
//   2  path not found
//   3  path is a directory
//   4  usage (FLK report required, unsupported file kind, bad flags)
//   5  missing field
//   6  FLK report does not match the input
//   7  FLK report lists nothing to exclude
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/registry-converter/internal/config"
	"github.com/ginjaninja78/registry-converter/internal/logging"
	"github.com/ginjaninja78/registry-converter/internal/types"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile is the JSON state file (organisation code, packet counters, FAP list).
var cfgFile string

// settingsFile is the optional YAML settings file.
var settingsFile string

// verbose forces debug logging.
var verbose bool

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	exitOK = iota
	exitFailure
	exitNotFound
	exitIsDirectory
	exitUsage
	exitMissingField
	exitMismatch
	exitNoActionable
)

// exitError carries the process exit code of an error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

// exitCode maps an error to the process exit code.
func exitCode(err error) int {
	var ee *exitError
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &ee):
		return ee.code
	case errors.Is(err, types.ErrPathNotFound):
		return exitNotFound
	case errors.Is(err, types.ErrPathIsDirectory):
		return exitIsDirectory
	case errors.Is(err, types.ErrReportRequired), errors.Is(err, types.ErrUnsupportedKind):
		return exitUsage
	case errors.Is(err, types.ErrMissingField):
		return exitMissingField
	case errors.Is(err, types.ErrValidationMismatch):
		return exitMismatch
	case errors.Is(err, types.ErrNoActionableErrors):
		return exitNoActionable
	default:
		return exitFailure
	}
}

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "registryconv",
	Short: "Registry Converter - Prepare healthcare registry XML packages",
	Long: `Registry Converter transforms registry XML files exchanged with the
territorial insurance fund:

  PRKS, OZPS  policy fields are rewritten to VPOLIS/SPOLIS/NPOLIS
  SZPM        attachment requests become numbered ATM packages (TER and FAP)
  ATM         rejected packages are corrected against their FLK report

Output is written to a "converted" directory beside the input file.

Example Usage:
  registryconv init-config
  registryconv convert SZPM390001_2610.xml
  registryconv convert ATM390001T_2610001.xml --flk FLK_ATM390001T_2610001.xml`,

	SilenceUsage:  true,
	SilenceErrors: true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command and exits with the code of the error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.json",
		"Path to the JSON state file",
	)

	rootCmd.PersistentFlags().StringVar(
		&settingsFile,
		"settings",
		"converter.yaml",
		"Path to the YAML settings file (optional)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return withCode(exitUsage, err)
	})
}

// loadSettings reads the settings file and builds the logger for a run.
func loadSettings(stderr io.Writer) (*config.Settings, *logging.Logger, error) {
	settings, err := config.LoadSettings(settingsFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load settings: %w", err)
	}

	level := settings.LogLevel
	if verbose {
		level = "debug"
	}
	logger, err := logging.New(stderr, level, settings.LogFormat)
	if err != nil {
		return nil, nil, err
	}

	return settings, logger, nil
}
