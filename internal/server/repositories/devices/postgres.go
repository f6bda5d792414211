// Package devices stores device records in PostgreSQL.
package devices

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/deviceprov/internal/dbx"
	"github.com/dmitrijs2005/deviceprov/internal/server/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, device *models.Device) error {
	settings, err := json.Marshal(device.Settings)
	if err != nil {
		return fmt.Errorf("settings encode error: %w", err)
	}

	status := device.Status
	if status == "" {
		status = models.DeviceStatusPending
	}

	query :=
		`INSERT INTO device (deviceid, uid, settings, cert, status)
		 VALUES ($1, $2, $3, $4, $5)
		 `

	res, err := r.db.ExecContext(ctx, query, device.ID, device.UserID, settings, device.Cert, string(status))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return dbx.ExpectOneRow(res)
}

// ListSettings returns the settings document of every device of userID,
// oldest first, without decoding it.
func (r *PostgresRepository) ListSettings(ctx context.Context, userID string) ([]models.DeviceSettingsEntry, error) {
	query :=
		`SELECT deviceid, settings FROM device
		 WHERE uid = $1
		 ORDER BY created_at
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select devices: %w", err)
	}
	defer rows.Close()

	result := []models.DeviceSettingsEntry{}
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		result = append(result, models.DeviceSettingsEntry{DeviceID: id, Settings: raw})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PostgresRepository) Activate(ctx context.Context, deviceID string) error {
	query := `UPDATE device SET status = 'active' WHERE deviceid = $1 AND status = 'pending'`

	res, err := r.db.ExecContext(ctx, query, deviceID)
	if err != nil {
		return fmt.Errorf("failed to activate device: %w", err)
	}

	return dbx.ExpectOneRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, deviceID string) error {
	query := `DELETE FROM device WHERE deviceid = $1`

	res, err := r.db.ExecContext(ctx, query, deviceID)
	if err != nil {
		return fmt.Errorf("failed to delete device: %w", err)
	}

	return dbx.ExpectOneRow(res)
}

func (r *PostgresRepository) DeleteStalePending(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM device WHERE status = 'pending' AND created_at < $1`

	res, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale devices: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}

	return n, nil
}
