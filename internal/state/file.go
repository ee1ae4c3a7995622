package state

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileMirror persists the snapshot as a JSON file.
type FileMirror struct {
	path string
}

// NewFileMirror builds a mirror writing to the given path.
func NewFileMirror(path string) *FileMirror {
	if path == "" {
		path = "./tapp_state.json"
	}
	return &FileMirror{path: path}
}

// Load reads the snapshot. A missing file yields an empty snapshot, not an
// error.
func (m *FileMirror) Load(_ context.Context) (Snapshot, error) {
	raw, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Snapshot{}, nil
		}
		return Snapshot{}, fmt.Errorf("read state file: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode state file: %w", err)
	}
	return snap, nil
}

// Save writes the snapshot.
func (m *FileMirror) Save(_ context.Context, snap Snapshot) error {
	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state snapshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return fmt.Errorf("prepare state directory: %w", err)
	}
	if err := os.WriteFile(m.path, raw, 0o644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}
