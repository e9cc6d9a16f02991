// =============================================================================
// Registry Converter - Main Entry Point
// =============================================================================
//
// USAGE:
//   registryconv convert FILE   - Convert a PRKS, OZPS, SZPM or ATM file
//   registryconv init-config    - Create or update the JSON state file
//   registryconv version        - Display the application version
//
// ARCHITECTURE:
//   - cmd/        : CLI command definitions (Cobra)
//   - internal/   : Document model, XML codec, rules, config, reports
//   - pkg/        : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/registry-converter/cmd"
)

func main() {
	cmd.Execute()
}
