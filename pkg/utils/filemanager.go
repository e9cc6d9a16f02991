// =============================================================================
// Registry Converter - File Manager Utility
// =============================================================================
//
// This module provides the file handling around a conversion:
//   - Input path checks (missing path, directory instead of file)
//   - The "converted" output directory beside the input file
//   - Output file naming
//   - Parsing of comma separated record id lists given on the command line
//
// OUTPUT LAYOUT:
//   /exchange/SZPM390001_2610.xml              <- input
//   /exchange/converted/ATM390001T_2610001.xml <- output
//
// =============================================================================

package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/registry-converter/internal/types"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager places output files beside their input.
type FileManager struct {
	// ConvertedDir is the name of the output directory created beside each
	// input file.
	ConvertedDir string
}

// NewFileManager creates a FileManager writing into convertedDir.
func NewFileManager(convertedDir string) *FileManager {
	if convertedDir == "" {
		convertedDir = "converted"
	}
	return &FileManager{ConvertedDir: convertedDir}
}

// OutputDir returns the output directory for an input file.
func (fm *FileManager) OutputDir(inputPath string) string {
	return filepath.Join(filepath.Dir(inputPath), fm.ConvertedDir)
}

// EnsureOutputDir creates the output directory for an input file.
func (fm *FileManager) EnsureOutputDir(inputPath string) (string, error) {
	dir := fm.OutputDir(inputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return dir, nil
}

// OutputPath returns the path of an output file called name.
// Names without an extension get ".xml".
func (fm *FileManager) OutputPath(inputPath, name string) string {
	if filepath.Ext(name) == "" {
		name += ".xml"
	}
	return filepath.Join(fm.OutputDir(inputPath), name)
}

// =============================================================================
// INPUT CHECKS
// =============================================================================

// CheckInputFile verifies that path exists and is a regular file.
func CheckInputFile(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", types.ErrPathNotFound, path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s", types.ErrPathIsDirectory, path)
	}
	return nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// ParseIDList splits a comma separated list of N_ZAP values.
// Blank items are dropped.
func ParseIDList(s string) []string {
	var ids []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			ids = append(ids, part)
		}
	}
	return ids
}

// BaseName returns the file name of path without its extension.
func BaseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
