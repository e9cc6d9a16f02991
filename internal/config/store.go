package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// =============================================================================
// STATE STORE
// =============================================================================

// State is the JSON document persisted between runs.
type State struct {
	// LPU is the organisation code (CODE_MO) used in generated file names.
	LPU string `json:"lpu"`

	// Packets holds the last issued packet number per month, keyed "YYYY-M".
	Packets map[string]int `json:"packets"`

	// FapIDs lists MD_DEP_ID values of FAP organisations.
	FapIDs []string `json:"fap_ids"`

	// RenameCorrected writes corrected ATM files under a new packet number
	// instead of overwriting the original name.
	RenameCorrected bool `json:"rename_corrected"`
}

// DefaultState returns the state written on first run.
func DefaultState() State {
	return State{
		LPU:             "",
		Packets:         map[string]int{},
		FapIDs:          []string{},
		RenameCorrected: true,
	}
}

// Store owns the state and its file. Mutators only change memory; callers
// persist with Save.
type Store struct {
	path  string
	state State
}

// OpenStore loads the state at path, creating it with defaults when absent.
func OpenStore(path string) (*Store, error) {
	s := &Store{path: path, state: DefaultState()}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := s.Save(); err != nil {
			return nil, err
		}
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &s.state); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if s.state.Packets == nil {
		s.state.Packets = map[string]int{}
	}

	return s, nil
}

// InitStore creates the config file or merges newly introduced default keys
// into an existing one. Existing values are never overwritten. It returns the
// keys that were added; when none were, the file is left untouched.
func InitStore(path string) ([]string, error) {
	defaults, err := defaultFields()
	if err != nil {
		return nil, err
	}

	existing := map[string]json.RawMessage{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := json.Unmarshal(data, &existing); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	var added []string
	for key, value := range defaults {
		if _, ok := existing[key]; !ok {
			existing[key] = value
			added = append(added, key)
		}
	}
	sort.Strings(added)

	if len(added) == 0 {
		return nil, nil
	}

	out, err := json.MarshalIndent(existing, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	if err := writeFileAtomic(path, out); err != nil {
		return nil, err
	}

	return added, nil
}

func defaultFields() (map[string]json.RawMessage, error) {
	data, err := json.Marshal(DefaultState())
	if err != nil {
		return nil, fmt.Errorf("failed to encode default config: %w", err)
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode default config: %w", err)
	}
	return fields, nil
}

// Path returns the file backing the store.
func (s *Store) Path() string {
	return s.path
}

// LPU returns the configured organisation code.
func (s *Store) LPU() string {
	return s.state.LPU
}

// SetLPU replaces the organisation code.
func (s *Store) SetLPU(code string) {
	s.state.LPU = code
}

// FapIDs returns the FAP allow-list.
func (s *Store) FapIDs() []string {
	out := make([]string, len(s.state.FapIDs))
	copy(out, s.state.FapIDs)
	return out
}

// SetFapIDs replaces the FAP allow-list.
func (s *Store) SetFapIDs(ids []string) {
	s.state.FapIDs = append([]string(nil), ids...)
}

// RenameCorrected reports whether corrected ATM output gets a new name.
func (s *Store) RenameCorrected() bool {
	return s.state.RenameCorrected
}

// SetRenameCorrected toggles renaming of corrected ATM output.
func (s *Store) SetRenameCorrected(v bool) {
	s.state.RenameCorrected = v
}

// PacketKey returns the counter key of a month, e.g. "2026-10" or "2026-3".
func PacketKey(year int, month time.Month) string {
	return fmt.Sprintf("%d-%d", year, int(month))
}

// Packet returns the last issued packet number of a month (0 when none).
func (s *Store) Packet(year int, month time.Month) int {
	return s.state.Packets[PacketKey(year, month)]
}

// IncrementPacket bumps and returns the packet number of a month.
// A month without a key starts from 0, so its first packet is 1.
func (s *Store) IncrementPacket(year int, month time.Month) int {
	key := PacketKey(year, month)
	s.state.Packets[key]++
	return s.state.Packets[key]
}

// Save writes the state to disk.
func (s *Store) Save() error {
	data, err := json.MarshalIndent(s.state, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return writeFileAtomic(s.path, data)
}

// writeFileAtomic replaces path through a temporary file in the same directory.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp config: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace config: %w", err)
	}

	return nil
}
