// Package server initializes and runs the provisioning service: it opens the
// database, applies migrations, wires the pipeline to its collaborators and
// serves it over gRPC and HTTP until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/deviceprov/internal/common"
	"github.com/dmitrijs2005/deviceprov/internal/logging"
	"github.com/dmitrijs2005/deviceprov/internal/server/auth"
	"github.com/dmitrijs2005/deviceprov/internal/server/broker"
	"github.com/dmitrijs2005/deviceprov/internal/server/builder"
	"github.com/dmitrijs2005/deviceprov/internal/server/config"
	"github.com/dmitrijs2005/deviceprov/internal/server/httpapi"
	"github.com/dmitrijs2005/deviceprov/internal/server/objectstore"
	"github.com/dmitrijs2005/deviceprov/internal/server/provisioning"
	"github.com/dmitrijs2005/deviceprov/internal/server/repositories/repomanager"

	gs "github.com/dmitrijs2005/deviceprov/internal/server/grpc"
)

var (
	sqlOpen              = sql.Open
	newRepositoryManager = repomanager.NewPostgresRepositoryManager
	newObjectStore       = func(ctx context.Context, c *config.Config) (provisioning.ObjectStore, error) {
		return objectstore.New(ctx, c)
	}
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	service    *provisioning.Service
	reconciler *provisioning.Reconciler
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.New(os.Stdout, c.LogFormat, c.LogLevel).With("service", common.ServiceName)

	db, err := sqlOpen("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := newRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	objects, err := newObjectStore(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("object store init error: %w", err)
	}

	tokens := auth.TokenSource{
		Service:  common.ServiceName,
		Secret:   []byte(c.ServiceSecret),
		Validity: c.ServiceTokenValidity,
	}
	httpClient := &http.Client{Timeout: c.CollaboratorTimeout}

	devices := rm.Devices(db)

	svc := provisioning.NewService(provisioning.Dependencies{
		Broker:         broker.NewClient(c.BrokerURL, httpClient, tokens),
		Builder:        builder.NewClient(c.BuilderURL, httpClient, tokens),
		Objects:        objects,
		UserKeys:       rm.UserKeys(db),
		Devices:        devices,
		EncryptionKeys: rm.EncryptionKeys(db),
		Logger:         logger,
	}, provisioning.OptionsFromConfig(c))

	return &App{
		config:     c,
		logger:     logger,
		db:         db,
		service:    svc,
		reconciler: provisioning.NewReconciler(devices, c.PendingDeviceTTL, c.ReconcileInterval, logger),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.service)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.service)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled, a signal arrives or a server fails.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(3)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.reconciler.Run(ctx)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
