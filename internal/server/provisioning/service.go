// Package provisioning implements the device provisioning pipeline: broker
// registration, group key sealing, device record and settings sync, the
// per-device build and artifact publication.
package provisioning

import (
	"context"
	"time"

	"github.com/dmitrijs2005/deviceprov/internal/logging"
	sc "github.com/dmitrijs2005/deviceprov/internal/server/config"
	"github.com/dmitrijs2005/deviceprov/internal/server/broker"
	"github.com/dmitrijs2005/deviceprov/internal/server/builder"
	"github.com/dmitrijs2005/deviceprov/internal/server/models"
	"github.com/dmitrijs2005/deviceprov/internal/server/repositories/devices"
	"github.com/dmitrijs2005/deviceprov/internal/server/repositories/encryptionkeys"
	"github.com/dmitrijs2005/deviceprov/internal/server/repositories/userkeys"
	"github.com/google/uuid"
)

// Broker registers devices and receives their settings.
type Broker interface {
	AddDevice(ctx context.Context, uid string) (*broker.AddDeviceResult, error)
	PubSettings(ctx context.Context, settings []models.DeviceSettingsEntry, uid string) (int, error)
}

// Builder produces device binaries. A nil artifact with a nil error means
// the build service declined.
type Builder interface {
	Build(ctx context.Context, req builder.BuildRequest) (*builder.Artifact, error)
}

// ObjectStore holds published artifacts.
type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	PresignGet(ctx context.Context, key string, expires time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

// Dependencies are the collaborators of a Service.
type Dependencies struct {
	Broker         Broker
	Builder        Builder
	Objects        ObjectStore
	UserKeys       userkeys.Repository
	Devices        devices.Repository
	EncryptionKeys encryptionkeys.Repository
	Logger         logging.Logger

	// Now and NewID default to time.Now and random v4 UUIDs.
	Now   func() time.Time
	NewID func() string
}

// Options are the tunables of the pipeline.
type Options struct {
	GroupKeySize      int
	DefaultNickname   string
	DefaultCacheTime  int
	ObjectKeyPrefix   string
	DownloadURLExpiry time.Duration
}

// OptionsFromConfig extracts pipeline Options from the server configuration.
func OptionsFromConfig(cfg *sc.Config) Options {
	return Options{
		GroupKeySize:      cfg.GroupKeySize,
		DefaultNickname:   cfg.DefaultNickname,
		DefaultCacheTime:  cfg.DefaultCacheTime,
		ObjectKeyPrefix:   cfg.ObjectKeyPrefix,
		DownloadURLExpiry: cfg.DownloadURLExpiry,
	}
}

// Result is a successful provisioning outcome.
type Result struct {
	DeviceID    string
	DownloadURL string
	ExpiresAt   time.Time
}

// Service runs provisioning requests. It is safe for concurrent use; each
// call to Provision is independent.
type Service struct {
	deps     Dependencies
	opts     Options
	resolver *GroupKeyResolver
	log      logging.Logger
}

func NewService(deps Dependencies, opts Options) *Service {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.NewID == nil {
		deps.NewID = newDeviceID
	}
	if deps.Logger == nil {
		deps.Logger = logging.Nop()
	}
	if opts.DownloadURLExpiry <= 0 {
		opts.DownloadURLExpiry = 300 * time.Second
	}

	return &Service{
		deps:     deps,
		opts:     opts,
		resolver: NewGroupKeyResolver(deps.UserKeys, opts.GroupKeySize),
		log:      deps.Logger.With("module", "provisioning"),
	}
}

func newDeviceID() string {
	return uuid.NewString()
}
