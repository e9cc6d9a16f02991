package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ginjaninja78/registry-converter/internal/types"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, exitOK},
		{errors.New("disk full"), exitFailure},
		{fmt.Errorf("open: %w", types.ErrPathNotFound), exitNotFound},
		{fmt.Errorf("open: %w", types.ErrPathIsDirectory), exitIsDirectory},
		{types.ErrReportRequired, exitUsage},
		{fmt.Errorf("x: %w", types.ErrUnsupportedKind), exitUsage},
		{&types.MissingFieldError{Element: "PERS", Field: "ENP"}, exitMissingField},
		{fmt.Errorf("wrapped: %w", types.ErrValidationMismatch), exitMismatch},
		{types.ErrNoActionableErrors, exitNoActionable},
		{withCode(exitUsage, errors.New("bad flag")), exitUsage},
	}
	for _, tt := range tests {
		if got := exitCode(tt.err); got != tt.want {
			t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func useTempConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	oldCfg, oldSettings := cfgFile, settingsFile
	cfgFile = filepath.Join(dir, "config.json")
	settingsFile = filepath.Join(dir, "converter.yaml")
	t.Cleanup(func() {
		cfgFile, settingsFile = oldCfg, oldSettings
		flkPath, excludeIDs, xlsxReport, fapXLSX = "", "", false, ""
	})
	return dir
}

func TestRunConvert_PRKS(t *testing.T) {
	dir := useTempConfig(t)
	input := filepath.Join(dir, "PRKS390001_2610.xml")
	doc := "<?xml version='1.0' encoding='windows-1251'?>\n" +
		"<PRKS><ZGLV><VERSION>0.9</VERSION></ZGLV>" +
		"<PERS><N_ZAP>1</N_ZAP><ENP>3900000000000001</ENP></PERS></PRKS>\n"
	if err := os.WriteFile(input, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	if err := runConvert(context.Background(), &stdout, &stderr, input); err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if !strings.Contains(stdout.String(), "PRKS390001_2610.xml") {
		t.Errorf("unexpected output %q", stdout.String())
	}
	if _, err := os.Stat(filepath.Join(dir, "converted", "PRKS390001_2610.xml")); err != nil {
		t.Errorf("expected output file: %v", err)
	}
	if _, err := os.Stat(cfgFile); err != nil {
		t.Errorf("expected config file to be created: %v", err)
	}
}

func TestRunConvert_ATMWithoutReport(t *testing.T) {
	dir := useTempConfig(t)
	input := filepath.Join(dir, "ATM390001T_2610001.xml")
	if err := os.WriteFile(input, []byte("<ATT/>"), 0644); err != nil {
		t.Fatal(err)
	}

	var stdout bytes.Buffer
	err := runConvert(context.Background(), &stdout, &bytes.Buffer{}, input)
	if exitCode(err) != exitUsage {
		t.Fatalf("expected usage exit, got %v", err)
	}
	if !strings.Contains(stdout.String(), "✗") {
		t.Errorf("expected failure line, got %q", stdout.String())
	}
}

func TestRunInitConfig(t *testing.T) {
	useTempConfig(t)

	var out bytes.Buffer
	if err := runInitConfig(&out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "added") {
		t.Errorf("expected added keys, got %q", out.String())
	}
	first, err := os.ReadFile(cfgFile)
	if err != nil {
		t.Fatal(err)
	}

	out.Reset()
	if err := runInitConfig(&out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "up to date") {
		t.Errorf("expected up to date, got %q", out.String())
	}
	second, _ := os.ReadFile(cfgFile)
	if !bytes.Equal(first, second) {
		t.Error("second init must not rewrite the file")
	}
}
