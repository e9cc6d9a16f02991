// =============================================================================
// Registry Converter - Configuration Module
// =============================================================================
//
// This module loads the two configuration files used by the converter:
//
//   1. Settings (converter.yaml): runtime options that rarely change, such as
//      the output directory name, the output charset, log level and the
//      per-document-type file name suffixes. Optional; defaults apply when the
//      file does not exist.
//   2. Store (config.json): the small persisted state shared between runs:
//      organisation code, monthly packet counters, FAP allow-list and the
//      "rename corrected output" toggle. See store.go.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ginjaninja78/registry-converter/internal/xmlparser"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// SETTINGS STRUCTURE
// =============================================================================

// Settings holds the runtime options of the converter.
type Settings struct {
	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// ConvertedDir is the name of the directory created beside the input file.
	// Default: "converted"
	ConvertedDir string `yaml:"converted_dir"`

	// Encoding is the IANA charset of input files without a declaration and
	// of every output file.
	// Default: "windows-1251"
	Encoding string `yaml:"encoding"`

	// Indent is one level of indentation in output files.
	// Default: "  "
	Indent string `yaml:"indent"`

	// DefectReport writes an XLSX list of excluded records next to a
	// corrected ATM file.
	// Default: false
	DefectReport bool `yaml:"defect_report"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat selects "console" (human readable) or "json".
	// Default: "console"
	LogFormat string `yaml:"log_format"`

	// =========================================================================
	// ATTACHMENT PACKAGES
	// =========================================================================

	// DocTypes defines the file name suffix and header AREA_TYPE of every
	// generated attachment package.
	DocTypes DocTypeSettings `yaml:"doc_types"`

	// =========================================================================
	// FLK REPORTS
	// =========================================================================

	// NoErrorsResult is the FLK header RESULT value of a clean report.
	// Default: "0"
	NoErrorsResult string `yaml:"no_errors_result"`

	// OutOfTownMarkers are case-insensitive fragments of FLK messages that
	// mean "insured outside service area".
	// Default: ["за пределами", "вне зоны обслуживания"]
	OutOfTownMarkers []string `yaml:"out_of_town_markers"`
}

// DocTypeSettings groups the four attachment package types.
type DocTypeSettings struct {
	Ter          DocTypeSetting `yaml:"ter"`
	Fap          DocTypeSetting `yaml:"fap"`
	TerOutOfTown DocTypeSetting `yaml:"ter_out_of_town"`
	FapOutOfTown DocTypeSetting `yaml:"fap_out_of_town"`
}

// DocTypeSetting describes one attachment package type.
type DocTypeSetting struct {
	// Suffix follows the organisation code in the file name.
	Suffix string `yaml:"suffix"`

	// AreaType is written to the header AREA_TYPE field.
	AreaType string `yaml:"area_type"`
}

// =============================================================================
// SETTINGS LOADING FUNCTIONS
// =============================================================================

// DefaultSettings returns the settings used when no file is present.
func DefaultSettings() *Settings {
	s := &Settings{}
	applySettingsDefaults(s)
	return s
}

// LoadSettings loads the settings from a YAML file.
// A missing file is not an error: defaults are returned instead.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings file: %w", err)
	}

	applySettingsDefaults(&settings)

	if err := validateSettings(&settings); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	return &settings, nil
}

// applySettingsDefaults sets default values for any unset option.
func applySettingsDefaults(s *Settings) {
	if s.ConvertedDir == "" {
		s.ConvertedDir = "converted"
	}
	if s.Encoding == "" {
		s.Encoding = xmlparser.DefaultEncoding
	}
	if s.Indent == "" {
		s.Indent = "  "
	}
	if s.LogLevel == "" {
		s.LogLevel = "info"
	}
	if s.LogFormat == "" {
		s.LogFormat = "console"
	}
	if s.NoErrorsResult == "" {
		s.NoErrorsResult = "0"
	}
	if len(s.OutOfTownMarkers) == 0 {
		s.OutOfTownMarkers = []string{"за пределами", "вне зоны обслуживания"}
	}

	defaultDocType(&s.DocTypes.Ter, "T", "1")
	defaultDocType(&s.DocTypes.Fap, "F", "2")
	defaultDocType(&s.DocTypes.TerOutOfTown, "TI", "3")
	defaultDocType(&s.DocTypes.FapOutOfTown, "FI", "4")
}

func defaultDocType(d *DocTypeSetting, suffix, areaType string) {
	if d.Suffix == "" {
		d.Suffix = suffix
	}
	if d.AreaType == "" {
		d.AreaType = areaType
	}
}

// validateSettings rejects settings that would produce ambiguous file names
// or unreadable output.
func validateSettings(s *Settings) error {
	if _, err := xmlparser.LookupEncoding(s.Encoding); err != nil {
		return err
	}

	switch s.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("log_format must be console or json, got %q", s.LogFormat)
	}

	seen := make(map[string]bool)
	for _, d := range []DocTypeSetting{s.DocTypes.Ter, s.DocTypes.Fap, s.DocTypes.TerOutOfTown, s.DocTypes.FapOutOfTown} {
		if seen[d.Suffix] {
			return fmt.Errorf("doc type suffix %q is used twice", d.Suffix)
		}
		seen[d.Suffix] = true
	}

	return nil
}
