package server

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/deviceprov/internal/server/config"
	"github.com/dmitrijs2005/deviceprov/internal/server/provisioning"
	"github.com/dmitrijs2005/deviceprov/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubManager struct {
	repomanager.RepositoryManager
	migrateErr error
}

func (m *stubManager) RunMigrations(context.Context, *sql.DB) error { return m.migrateErr }

type nopObjects struct{ provisioning.ObjectStore }

func testConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.EndpointAddrGRPC = "127.0.0.1:0"
	c.EndpointAddrHTTP = "127.0.0.1:0"
	c.LogLevel = "error"
	return c
}

func withSeams(t *testing.T, migrateErr, storeErr error) sqlmock.Sqlmock {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	origOpen, origRM, origStore := sqlOpen, newRepositoryManager, newObjectStore
	t.Cleanup(func() {
		sqlOpen, newRepositoryManager, newObjectStore = origOpen, origRM, origStore
	})

	sqlOpen = func(driver, dsn string) (*sql.DB, error) {
		if driver != "pgx" {
			t.Fatalf("unexpected driver %q", driver)
		}
		return db, nil
	}
	newRepositoryManager = func() repomanager.RepositoryManager {
		return &stubManager{RepositoryManager: repomanager.NewPostgresRepositoryManager(), migrateErr: migrateErr}
	}
	newObjectStore = func(context.Context, *config.Config) (provisioning.ObjectStore, error) {
		if storeErr != nil {
			return nil, storeErr
		}
		return nopObjects{}, nil
	}
	return mock
}

func TestNewApp_OK(t *testing.T) {
	withSeams(t, nil, nil)

	app, err := NewApp(context.Background(), testConfig())
	require.NoError(t, err)
	assert.NotNil(t, app.service)
	assert.NotNil(t, app.reconciler)
}

func TestNewApp_MigrationError(t *testing.T) {
	mock := withSeams(t, errors.New("dirty"), nil)
	mock.ExpectClose()

	_, err := NewApp(context.Background(), testConfig())
	assert.EqualError(t, err, "migrations error: dirty")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewApp_ObjectStoreError(t *testing.T) {
	withSeams(t, nil, errors.New("no creds"))

	_, err := NewApp(context.Background(), testConfig())
	assert.EqualError(t, err, "object store init error: no creds")
}

func TestNewApp_OpenError(t *testing.T) {
	withSeams(t, nil, nil)
	sqlOpen = func(string, string) (*sql.DB, error) { return nil, errors.New("bad dsn") }

	_, err := NewApp(context.Background(), testConfig())
	assert.EqualError(t, err, "db init error: bad dsn")
}

func TestRun_StopsOnCancel(t *testing.T) {
	mock := withSeams(t, nil, nil)
	mock.ExpectClose()

	app, err := NewApp(context.Background(), testConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("app did not stop")
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}
