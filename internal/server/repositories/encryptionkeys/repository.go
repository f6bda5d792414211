package encryptionkeys

import (
	"context"

	"github.com/dmitrijs2005/deviceprov/internal/server/models"
)

// Repository persists the artifact wrapping keys produced by the build service.
type Repository interface {
	Create(ctx context.Context, rec *models.EncryptionKeyRecord) error
}
