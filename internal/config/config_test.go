package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestLoadSettings_MissingFileGivesDefaults(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.ConvertedDir != "converted" {
		t.Errorf("expected converted dir, got %q", s.ConvertedDir)
	}
	if s.Encoding != "windows-1251" {
		t.Errorf("expected windows-1251, got %q", s.Encoding)
	}
	if s.DocTypes.Ter.Suffix != "T" || s.DocTypes.FapOutOfTown.AreaType != "4" {
		t.Errorf("unexpected doc type defaults: %+v", s.DocTypes)
	}
}

func TestLoadSettings_PartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "converter.yaml")
	yamlData := "log_level: debug\ndoc_types:\n  fap:\n    suffix: P\n"
	if err := os.WriteFile(path, []byte(yamlData), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.LogLevel != "debug" {
		t.Errorf("expected debug, got %q", s.LogLevel)
	}
	if s.DocTypes.Fap.Suffix != "P" || s.DocTypes.Fap.AreaType != "2" {
		t.Errorf("expected FAP suffix P with default area, got %+v", s.DocTypes.Fap)
	}
}

func TestLoadSettings_Invalid(t *testing.T) {
	cases := map[string]string{
		"duplicate suffix": "doc_types:\n  fap:\n    suffix: T\n",
		"bad encoding":     "encoding: klingon\n",
		"bad log format":   "log_format: xml\n",
	}

	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "converter.yaml")
			if err := os.WriteFile(path, []byte(data), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadSettings(path); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestOpenStore_CreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	s, err := OpenStore(path)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if s.LPU() != "" || !s.RenameCorrected() {
		t.Errorf("unexpected defaults: lpu=%q rename=%v", s.LPU(), s.RenameCorrected())
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected config file to be created: %v", err)
	}
}

func TestStore_SaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	s, err := OpenStore(path)
	if err != nil {
		t.Fatal(err)
	}
	s.SetLPU("390001")
	s.SetFapIDs([]string{"100", "200"})
	s.IncrementPacket(2026, time.October)
	if err := s.Save(); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	reloaded, err := OpenStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.LPU() != "390001" {
		t.Errorf("expected LPU 390001, got %q", reloaded.LPU())
	}
	if !reflect.DeepEqual(reloaded.FapIDs(), []string{"100", "200"}) {
		t.Errorf("unexpected FAP ids %v", reloaded.FapIDs())
	}
	if got := reloaded.Packet(2026, time.October); got != 1 {
		t.Errorf("expected packet 1, got %d", got)
	}
}

func TestStore_IncrementPacketPerMonth(t *testing.T) {
	s, err := OpenStore(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatal(err)
	}

	var got []int
	for i := 0; i < 3; i++ {
		got = append(got, s.IncrementPacket(2026, time.October))
	}
	if !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("expected 1,2,3, got %v", got)
	}

	if n := s.IncrementPacket(2026, time.November); n != 1 {
		t.Errorf("new month must start over, got %d", n)
	}
	if PacketKey(2026, time.March) != "2026-3" {
		t.Errorf("unexpected key %q", PacketKey(2026, time.March))
	}
}

func TestInitStore_FirstRunAndIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	added, err := InitStore(path)
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}
	want := []string{"fap_ids", "lpu", "packets", "rename_corrected"}
	if !reflect.DeepEqual(added, want) {
		t.Errorf("expected %v added, got %v", want, added)
	}

	var fields map[string]json.RawMessage
	data, _ := os.ReadFile(path)
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatal(err)
	}
	if len(fields) != len(want) {
		t.Errorf("expected exactly the default keys, got %v", fields)
	}

	before, _ := os.ReadFile(path)
	added, err = InitStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(added) != 0 {
		t.Errorf("expected nothing added, got %v", added)
	}
	after, _ := os.ReadFile(path)
	if string(before) != string(after) {
		t.Error("up-to-date config must not be rewritten")
	}
}

func TestInitStore_MergesWithoutClobbering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"lpu": "390001", "packets": {"2026-10": 7}}`), 0644); err != nil {
		t.Fatal(err)
	}

	added, err := InitStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(added, []string{"fap_ids", "rename_corrected"}) {
		t.Errorf("unexpected added keys %v", added)
	}

	s, err := OpenStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.LPU() != "390001" || s.Packet(2026, time.October) != 7 {
		t.Errorf("existing values were clobbered: lpu=%q packet=%d", s.LPU(), s.Packet(2026, time.October))
	}
}
