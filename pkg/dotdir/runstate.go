package dotdir

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	runStateFile = "last_run.json"
)

// RunState summarizes the most recent seed run.
type RunState struct {
	FinishedAt time.Time `json:"finished_at"`
	Mode       string    `json:"mode"`
	Backend    string    `json:"backend"`
	Index      string    `json:"index"`
	Requested  int       `json:"requested"`
	Inserted   int       `json:"inserted"`
	Errors     int       `json:"errors"`

	// Unindexed lists memory ids whose relational row may exist without a
	// matching search document.
	Unindexed []string `json:"unindexed,omitempty"`
}

// LoadRunState loads the last run state from a target .memseed/last_run.json.
// Returns nil, nil if no run has been recorded.
func (m *Manager) LoadRunState(overrideDir string) (*RunState, error) {
	dir, err := m.Target(overrideDir)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(dir, runStateFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading run state: %w", err)
	}

	state := &RunState{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("parsing run state: %w", err)
	}

	return state, nil
}

// SaveRunState persists the run state, replacing any previous one.
func (m *Manager) SaveRunState(state *RunState, overrideDir string) error {
	if state == nil {
		return errors.New("cannot save nil run state")
	}

	dir, err := m.Target(overrideDir)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling run state: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, runStateFile), data, 0o600); err != nil {
		return fmt.Errorf("writing run state: %w", err)
	}

	return nil
}

// ClearRunState removes the run state file. Returns nil if it doesn't exist.
func (m *Manager) ClearRunState(overrideDir string) error {
	dir, err := m.Target(overrideDir)
	if err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(dir, runStateFile)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("removing run state: %w", err)
	}

	return nil
}
