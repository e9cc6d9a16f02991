// =============================================================================
// Registry Converter - Convert Command
// =============================================================================
//
// This file defines the 'convert' command, which converts one registry file.
//
// COMMAND USAGE:
//   registryconv convert FILE [flags]
//
// FLAGS:
//   --flk          : FLK report of an ATM package (required for ATM files)
//   --exclude      : Comma separated N_ZAP values to leave out
//   --xlsx-report  : Write an XLSX list of records removed from an ATM package
//
// The file kind is taken from the file name prefix: PRKS, OZPS, SZPM or ATM.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/registry-converter/internal/config"
	"github.com/ginjaninja78/registry-converter/internal/converter"
	"github.com/ginjaninja78/registry-converter/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	flkPath    string
	excludeIDs string
	xlsxReport bool
)

// =============================================================================
// CONVERT COMMAND DEFINITION
// =============================================================================

var convertCmd = &cobra.Command{
	Use:   "convert FILE",
	Short: "Convert a PRKS, OZPS, SZPM or ATM file",
	Long: `The convert command reads one registry file and writes the converted
document(s) into the "converted" directory beside it.

  PRKS, OZPS  written under the original name
  SZPM        written as ATM<org>T_<YYMM><NNN>; records of FAP organisations
              are also written to an ATM<org>F_... package
  ATM         corrected against the FLK report given with --flk; records
              insured outside the area move to an out-of-town package

Nothing is written when the file cannot be converted.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return withCode(exitUsage, fmt.Errorf("convert expects exactly one FILE, got %d", len(args)))
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVar(
		&flkPath,
		"flk",
		"",
		"Path to the FLK report (required for ATM files)",
	)

	convertCmd.Flags().StringVar(
		&excludeIDs,
		"exclude",
		"",
		"Comma separated N_ZAP values to exclude, e.g. 3,17",
	)

	convertCmd.Flags().BoolVar(
		&xlsxReport,
		"xlsx-report",
		false,
		"Write an XLSX defect report for corrected ATM files",
	)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runConvert(ctx context.Context, stdout, stderr io.Writer, input string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	settings, logger, err := loadSettings(stderr)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	logger = logger.With("run_id", runID)

	store, err := config.OpenStore(cfgFile)
	if err != nil {
		return err
	}
	logger.Debug("Using config %s", store.Path())

	conv := converter.New(settings, store, logger)
	result, err := conv.Run(ctx, converter.Request{
		InputPath:    input,
		ReportPath:   flkPath,
		Exclude:      utils.ParseIDList(excludeIDs),
		DefectReport: xlsxReport || settings.DefectReport,
		RunID:        runID,
	})
	if err != nil {
		color.New(color.FgRed).Fprintf(stdout, "  ✗ %s: %v\n", filepath.Base(input), err)
		return err
	}

	printResult(stdout, result)
	return nil
}

// printResult writes the status line and one line per output file.
func printResult(w io.Writer, result *converter.Result) {
	name := filepath.Base(result.InputFile)

	if result.Status == converter.StatusNoop {
		color.New(color.FgCyan).Fprintf(w, "  ✓ %s: no errors in FLK report, nothing to do\n", name)
		return
	}

	color.New(color.FgGreen).Fprintf(w, "  ✓ %s (%s, %d of %d records)\n",
		name, result.Kind, result.Stats.RecordsOut, result.Stats.RecordsIn)
	for _, out := range result.OutputFiles {
		fmt.Fprintf(w, "    -> %s\n", out)
	}
	if result.ReportFile != "" {
		fmt.Fprintf(w, "    -> %s\n", result.ReportFile)
	}
	for _, warning := range result.Warnings {
		color.New(color.FgYellow).Fprintf(w, "    ! %s\n", warning)
	}
}
