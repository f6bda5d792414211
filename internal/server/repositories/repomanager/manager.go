package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/deviceprov/internal/dbx"
	"github.com/dmitrijs2005/deviceprov/internal/server/repositories/devices"
	"github.com/dmitrijs2005/deviceprov/internal/server/repositories/encryptionkeys"
	"github.com/dmitrijs2005/deviceprov/internal/server/repositories/userkeys"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	UserKeys(db dbx.DBTX) userkeys.Repository
	Devices(db dbx.DBTX) devices.Repository
	EncryptionKeys(db dbx.DBTX) encryptionkeys.Repository
}
