// Package encryptionkeys stores per-device artifact encryption keys in PostgreSQL.
package encryptionkeys

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/deviceprov/internal/dbx"
	"github.com/dmitrijs2005/deviceprov/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, rec *models.EncryptionKeyRecord) error {
	query :=
		`INSERT INTO encryption_keys (deviceid, encryption_key)
		 VALUES ($1, $2)
		 `

	res, err := r.db.ExecContext(ctx, query, rec.DeviceID, rec.EncryptionKey)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return dbx.ExpectOneRow(res)
}
