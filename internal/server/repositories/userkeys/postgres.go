// Package userkeys reads user key material (the group key) from PostgreSQL.
package userkeys

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/deviceprov/internal/common"
	"github.com/dmitrijs2005/deviceprov/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetGroupKey(ctx context.Context, userID string) (string, error) {
	query :=
		`SELECT group_key::text FROM user_keys
		 WHERE user_id = $1
		 `

	var groupKey sql.NullString
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&groupKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}

	if !groupKey.Valid {
		return "", common.ErrorNotFound
	}

	return groupKey.String, nil
}
