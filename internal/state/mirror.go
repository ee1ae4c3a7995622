// Package state persists the small subset of client state that survives a
// restart: the active session id, the active role and the mock-API toggle.
// Loading is one-directional at startup (mirror to store) and saving is
// explicit on change (store to mirror), never a continuous two-way binding.
package state

import (
	"context"

	"github.com/noah-isme/tapp-client/internal/models"
)

// Snapshot is the persisted subset.
type Snapshot struct {
	SessionID int         `json:"session_id"`
	Role      models.Role `json:"role"`
	MockAPI   bool        `json:"mock_api"`
}

// Mirror stores and restores a snapshot.
type Mirror interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
}

// NopMirror discards saves and loads an empty snapshot.
type NopMirror struct{}

// Load returns an empty snapshot.
func (NopMirror) Load(context.Context) (Snapshot, error) {
	return Snapshot{}, nil
}

// Save discards the snapshot.
func (NopMirror) Save(context.Context, Snapshot) error {
	return nil
}
