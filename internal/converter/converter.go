// =============================================================================
// Registry Converter - Converter Module
// =============================================================================
//
// This module orchestrates the conversion of a single registry file, from
// loading the legacy-encoded XML to writing the result beside the input.
//
// CONVERSION PIPELINE:
//   1. Check the input (and FLK report) paths
//   2. Resolve the document kind from the file name
//   3. Load the document (and the FLK report)
//   4. Apply the rule of the kind
//   5. Write every output document into the "converted" directory
//   6. Write the XLSX defect report when requested
//
// Nothing is written when a rule fails. When a write fails, the outputs
// already written for the file are removed again, so a failed file leaves no
// partial output. Packet numbers consumed before the failure stay consumed.
//
// =============================================================================

package converter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ginjaninja78/registry-converter/internal/config"
	"github.com/ginjaninja78/registry-converter/internal/types"
	"github.com/ginjaninja78/registry-converter/internal/validation"
	"github.com/ginjaninja78/registry-converter/internal/xlsxreport"
	"github.com/ginjaninja78/registry-converter/internal/xmlparser"
	"github.com/ginjaninja78/registry-converter/internal/xmlwriter"
	"github.com/ginjaninja78/registry-converter/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Status is the final state of a successful run.
type Status int

const (
	// StatusConverted means output files were written.
	StatusConverted Status = iota
	// StatusNoop means the input needed no change and nothing was written.
	StatusNoop
)

func (s Status) String() string {
	if s == StatusNoop {
		return "noop"
	}
	return "ok"
}

// Result represents the outcome of processing a single file.
type Result struct {
	// RunID identifies the run in logs and reports.
	RunID string

	// Kind is the document kind of the input.
	Kind Kind

	// InputFile is the path to the input file that was processed.
	InputFile string

	// OutputFiles are the written documents, primary output first.
	OutputFiles []string

	// ReportFile is the XLSX defect report, if one was written.
	ReportFile string

	// Status is StatusNoop when nothing had to be written.
	Status Status

	// Warnings holds non-fatal conditions such as config fallback.
	Warnings []string

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	// RecordsIn is the number of records in the input document.
	RecordsIn int

	// RecordsOut is the number of records in the primary output.
	RecordsOut int

	// Dropped counts records removed because required fields were missing.
	Dropped int

	// Excluded counts records removed by exclusion lists or FLK reports.
	Excluded int

	// ProcessingTime is the time taken to process the file.
	ProcessingTime time.Duration
}

// =============================================================================
// RULE OUTPUT
// =============================================================================

// Output is a document ready to be written.
type Output struct {
	// Name is the output file name; ".xml" is added when it has no extension.
	Name string

	DocType DocType
	Root    *types.Element
	Records int
}

// Outcome is what a rule produced for one input document.
type Outcome struct {
	Outputs  []Output
	Noop     bool
	Warnings []string

	// Dropped counts records removed for missing fields.
	Dropped int

	// Excluded lists the N_ZAP values removed on request or by FLK.
	Excluded []string

	// Defects are the rows of the XLSX defect report.
	Defects []xlsxreport.Row
}

func (o *Outcome) warn(logger Logger, msg string) {
	logger.Warn("%s", msg)
	o.Warnings = append(o.Warnings, msg)
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Request describes one conversion.
type Request struct {
	// InputPath is the registry file to convert.
	InputPath string

	// ReportPath is the FLK report; required for ATM files.
	ReportPath string

	// Exclude lists N_ZAP values to leave out of the output.
	Exclude []string

	// DefectReport writes an XLSX list of excluded records for ATM files.
	DefectReport bool

	// RunID is generated when empty.
	RunID string
}

// Converter runs conversions against one settings set and config store.
type Converter struct {
	settings *config.Settings
	store    *config.Store
	files    *utils.FileManager
	logger   Logger
	now      func() time.Time
}

// Logger is an interface for logging.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

// New creates a new Converter. A nil logger discards output.
func New(settings *config.Settings, store *config.Store, logger Logger) *Converter {
	if logger == nil {
		logger = nopLogger{}
	}
	return &Converter{
		settings: settings,
		store:    store,
		files:    utils.NewFileManager(settings.ConvertedDir),
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock replaces the clock used for packet names and reports.
func (c *Converter) WithClock(now func() time.Time) *Converter {
	c.now = now
	return c
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the conversion pipeline for one file.
func (c *Converter) Run(ctx context.Context, req Request) (*Result, error) {
	startTime := time.Now()
	result := &Result{
		RunID:     req.RunID,
		InputFile: req.InputPath,
	}
	if result.RunID == "" {
		result.RunID = uuid.NewString()
	}

	// =========================================================================
	// STEP 1: CHECK PATHS
	// =========================================================================

	if err := utils.CheckInputFile(req.InputPath); err != nil {
		return result, err
	}

	// =========================================================================
	// STEP 2: RESOLVE KIND
	// =========================================================================

	kind, err := ResolveKind(filepath.Base(req.InputPath))
	if err != nil {
		return result, err
	}
	result.Kind = kind

	if kind.NeedsReport() {
		if req.ReportPath == "" {
			return result, fmt.Errorf("%w for %s", types.ErrReportRequired, filepath.Base(req.InputPath))
		}
		if err := utils.CheckInputFile(req.ReportPath); err != nil {
			return result, err
		}
	}

	c.logger.Info("Processing %s file: %s", kind, req.InputPath)

	// =========================================================================
	// STEP 3: LOAD DOCUMENT
	// =========================================================================

	opts := xmlparser.Options{DefaultEncoding: c.settings.Encoding}
	root, err := xmlparser.ParseFile(req.InputPath, opts)
	if err != nil {
		return result, err
	}
	result.Stats.RecordsIn = countRecords(root)
	c.logger.Debug("Loaded %d records", result.Stats.RecordsIn)

	if err := ctx.Err(); err != nil {
		return result, err
	}

	// =========================================================================
	// STEP 4: APPLY RULE
	// =========================================================================

	outcome, err := c.apply(kind, root, req, opts)
	if err != nil {
		return result, err
	}
	result.Warnings = outcome.Warnings
	result.Stats.Dropped = outcome.Dropped
	result.Stats.Excluded = len(outcome.Excluded)

	if outcome.Noop {
		result.Status = StatusNoop
		result.Stats.ProcessingTime = time.Since(startTime)
		return result, nil
	}
	if len(outcome.Outputs) > 0 {
		result.Stats.RecordsOut = outcome.Outputs[0].Records
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	// =========================================================================
	// STEP 5: WRITE OUTPUT FILES
	// =========================================================================

	if _, err := c.files.EnsureOutputDir(req.InputPath); err != nil {
		return result, err
	}

	genOpts := xmlwriter.DefaultGenerateOptions()
	genOpts.Encoding = c.settings.Encoding
	genOpts.Indent = c.settings.Indent

	for _, out := range outcome.Outputs {
		path := c.files.OutputPath(req.InputPath, out.Name)
		if err := xmlwriter.WriteFile(path, out.Root, genOpts); err != nil {
			return c.discardOutputs(result, fmt.Errorf("failed to write %s: %w", out.Name, err))
		}
		result.OutputFiles = append(result.OutputFiles, path)
		if kind == KindPRKS || kind == KindOZPS {
			c.logger.Info("Wrote %d records to: %s", out.Records, path)
		} else {
			c.logger.Info("Wrote %s package with %d records to: %s", out.DocType, out.Records, path)
		}
	}

	// =========================================================================
	// STEP 6: DEFECT REPORT
	// =========================================================================

	if kind == KindATM && req.DefectReport && len(result.OutputFiles) > 0 {
		reportPath := c.files.OutputPath(req.InputPath, utils.BaseName(result.OutputFiles[0])+"_FLK.xlsx")
		summary := xlsxreport.Summary{
			RunID:       result.RunID,
			SourceFile:  filepath.Base(req.InputPath),
			ReportFile:  filepath.Base(req.ReportPath),
			OutputFile:  filepath.Base(result.OutputFiles[0]),
			GeneratedAt: c.now(),
		}
		if err := xlsxreport.WriteDefectReport(reportPath, outcome.Defects, summary); err != nil {
			return c.discardOutputs(result, err)
		}
		result.ReportFile = reportPath
		c.logger.Info("Wrote defect report to: %s", reportPath)
	}

	result.Status = StatusConverted
	result.Stats.ProcessingTime = time.Since(startTime)
	return result, nil
}

// apply runs the rule of kind against root.
func (c *Converter) apply(kind Kind, root *types.Element, req Request, opts xmlparser.Options) (*Outcome, error) {
	namer := NewNamer(c.store, c.settings.DocTypes, c.now)

	switch kind {
	case KindPRKS, KindOZPS:
		normalize := NormalizePRKS
		if kind == KindOZPS {
			normalize = NormalizeOZPS
		}
		if err := normalize(root); err != nil {
			return nil, err
		}
		return &Outcome{Outputs: []Output{{
			Name:    filepath.Base(req.InputPath),
			Root:    root,
			Records: countRecords(root),
		}}}, nil

	case KindSZPM:
		rule := &AttachmentRule{Store: c.store, Namer: namer, Logger: c.logger}
		return rule.Apply(root, types.NewIDSet(req.Exclude...))

	case KindATM:
		reportRoot, err := xmlparser.ParseFile(req.ReportPath, opts)
		if err != nil {
			return nil, err
		}
		report, err := validation.ParseReport(reportRoot)
		if err != nil {
			return nil, err
		}
		rule := &CorrectionRule{
			Store:          c.store,
			Namer:          namer,
			Classifier:     validation.NewClassifier(c.settings.OutOfTownMarkers),
			NoErrorsResult: c.settings.NoErrorsResult,
			Logger:         c.logger,
		}
		return rule.Apply(root, req.InputPath, report, types.NewIDSet(req.Exclude...))
	}

	return nil, fmt.Errorf("%w: %s", types.ErrUnsupportedKind, kind)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// discardOutputs removes the files written so far by a failed run.
func (c *Converter) discardOutputs(result *Result, err error) (*Result, error) {
	for _, path := range result.OutputFiles {
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			c.logger.Warn("failed to remove partial output %s: %v", path, rmErr)
		}
	}
	result.OutputFiles = nil
	return result, err
}

// countRecords counts PERS and REC elements under root.
func countRecords(root *types.Element) int {
	return len(root.FindAll(types.TagPerson)) + len(root.FindAll(types.TagRecord))
}

func sortedIDs(ids types.IDSet) []string {
	out := make([]string, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
