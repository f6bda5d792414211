package devices

import (
	"context"
	"time"

	"github.com/dmitrijs2005/deviceprov/internal/server/models"
)

// Repository persists device records.
type Repository interface {
	Create(ctx context.Context, device *models.Device) error
	// ListSettings returns the settings of every device of userID in
	// creation order.
	ListSettings(ctx context.Context, userID string) ([]models.DeviceSettingsEntry, error)
	// Activate flips a pending device to active.
	Activate(ctx context.Context, deviceID string) error
	Delete(ctx context.Context, deviceID string) error
	// DeleteStalePending removes pending devices created before cutoff and
	// returns how many were removed.
	DeleteStalePending(ctx context.Context, cutoff time.Time) (int64, error)
}
