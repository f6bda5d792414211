package userkeys

import "context"

// Repository reads per-user key material.
type Repository interface {
	// GetGroupKey returns the stored group key in its textual bytea form
	// ("\x" followed by hex) or common.ErrorNotFound.
	GetGroupKey(ctx context.Context, userID string) (string, error)
}
