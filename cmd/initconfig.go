// =============================================================================
// Registry Converter - Init Config Command
// =============================================================================
//
// COMMAND USAGE:
//   registryconv init-config [--fap-xlsx FILE]
//
// Creates the JSON state file, or adds keys introduced by newer versions to an
// existing one. Values already present are never overwritten.
//
// --fap-xlsx replaces the FAP organisation list with the first column of the
// first sheet of an XLSX workbook.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/registry-converter/internal/config"
	"github.com/ginjaninja78/registry-converter/internal/xlsxreport"
)

var fapXLSX string

var initConfigCmd = &cobra.Command{
	Use:   "init-config",
	Short: "Create or update the JSON state file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInitConfig(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(initConfigCmd)

	initConfigCmd.Flags().StringVar(
		&fapXLSX,
		"fap-xlsx",
		"",
		"XLSX workbook listing FAP organisation ids in its first column",
	)
}

func runInitConfig(w io.Writer) error {
	added, err := config.InitStore(cfgFile)
	if err != nil {
		return err
	}

	if len(added) == 0 {
		fmt.Fprintf(w, "  ✓ %s is up to date\n", cfgFile)
	} else {
		color.New(color.FgGreen).Fprintf(w, "  ✓ %s: added %s\n", cfgFile, strings.Join(added, ", "))
	}

	if fapXLSX == "" {
		return nil
	}

	ids, err := xlsxreport.ReadFapIDs(fapXLSX)
	if err != nil {
		return err
	}
	store, err := config.OpenStore(cfgFile)
	if err != nil {
		return err
	}
	store.SetFapIDs(ids)
	if err := store.Save(); err != nil {
		return err
	}
	color.New(color.FgGreen).Fprintf(w, "  ✓ %d FAP organisations imported from %s\n", len(ids), fapXLSX)

	return nil
}
