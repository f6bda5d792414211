package provisioning

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/deviceprov/internal/cryptox"
	"github.com/dmitrijs2005/deviceprov/internal/server/builder"
	"github.com/dmitrijs2005/deviceprov/internal/server/models"
	"github.com/dmitrijs2005/deviceprov/internal/shared"
)

// State names a pipeline stage. They run strictly in the order of
// pipelineSteps.
type State string

const (
	StateRegisterDevice       State = "RegisterDevice"
	StateResolveGroupKey      State = "ResolveGroupKey"
	StateSealGroupKey         State = "SealGroupKey"
	StateGenerateDeviceID     State = "GenerateDeviceId"
	StateWriteDeviceRecord    State = "WriteDeviceRecord"
	StateFetchSettings        State = "FetchSettings"
	StateSyncSettings         State = "SyncSettings"
	StateBuildArtifact        State = "BuildArtifact"
	StatePersistEncryptionKey State = "PersistEncryptionKey"
	StatePublishArtifact      State = "PublishArtifact"
	StateSuccess              State = "Success"
	StateFailed               State = "Failed"
)

// run is the state shared by the steps of one request.
type run struct {
	uid      string
	platform models.Platform

	cert string
	key  string

	groupKey []byte
	sealed   []byte

	deviceID      string
	deviceWritten bool

	settings []models.DeviceSettingsEntry
	artifact *builder.Artifact

	objectKey   string
	downloadURL string
	expiresAt   time.Time
}

type step struct {
	state State
	fn    func(s *Service, ctx context.Context, r *run) error
}

var pipelineSteps = []step{
	{StateRegisterDevice, (*Service).registerDevice},
	{StateResolveGroupKey, (*Service).resolveGroupKey},
	{StateSealGroupKey, (*Service).sealGroupKey},
	{StateGenerateDeviceID, (*Service).generateDeviceID},
	{StateWriteDeviceRecord, (*Service).writeDeviceRecord},
	{StateFetchSettings, (*Service).fetchSettings},
	{StateSyncSettings, (*Service).syncSettings},
	{StateBuildArtifact, (*Service).buildArtifact},
	{StatePersistEncryptionKey, (*Service).persistEncryptionKey},
	{StatePublishArtifact, (*Service).publishArtifact},
}

// Provision runs the whole pipeline for uid and platform. On failure the
// returned error is a *Error; partial state written after the device record
// is removed on a best-effort basis. Broker registration and the settings
// push are not undone.
func (s *Service) Provision(ctx context.Context, uid, platform string) (*Result, error) {
	r, err := validate(uid, platform)
	if err != nil {
		s.log.Warn(ctx, "rejected request", "uid", uid, "platform", platform, "error", err)
		return nil, err
	}
	defer func() { shared.WipeAll(r.groupKey, r.sealed) }()

	log := s.log.With("uid", r.uid, "platform", string(r.platform))

	for _, st := range pipelineSteps {
		log.Debug(ctx, "pipeline state", "state", string(st.state))
		if err := st.fn(s, ctx, r); err != nil {
			log.Error(ctx, "pipeline failed", "state", string(st.state), "next", string(StateFailed), "device_id", r.deviceID, "error", err)
			s.compensate(ctx, r)
			return nil, err
		}
	}

	if err := s.activateDevice(ctx, r); err != nil {
		log.Error(ctx, "pipeline failed", "state", "ActivateDevice", "next", string(StateFailed), "device_id", r.deviceID, "error", err)
		s.compensate(ctx, r)
		return nil, err
	}

	log.Info(ctx, "device provisioned", "state", string(StateSuccess), "device_id", r.deviceID, "object_key", r.objectKey)

	return &Result{
		DeviceID:    r.deviceID,
		DownloadURL: r.downloadURL,
		ExpiresAt:   r.expiresAt,
	}, nil
}

func validate(uid, platform string) (*run, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return nil, newError(KindInvalidRequest, MsgEmptyUserID, "", nil)
	}
	p, err := models.ParsePlatform(platform)
	if err != nil {
		return nil, newError(KindInvalidRequest, MsgBadPlatform, "", err)
	}
	return &run{uid: uid, platform: p}, nil
}

func (s *Service) registerDevice(ctx context.Context, r *run) error {
	res, err := s.deps.Broker.AddDevice(ctx, r.uid)
	if err != nil {
		return newError(KindBroker, MsgAddDevice, "", err)
	}
	if res.StatusCode != 200 {
		return newError(KindBroker, MsgAddDevice, fmt.Sprintf("broker status %d: %s", res.StatusCode, res.Body), nil)
	}
	if res.Cert == "" || res.Key == "" {
		return newError(KindBroker, MsgCertKeyMissing, "", nil)
	}
	r.cert = res.Cert
	r.key = res.Key
	return nil
}

func (s *Service) resolveGroupKey(ctx context.Context, r *run) error {
	key, err := s.resolver.Resolve(ctx, r.uid)
	if err != nil {
		return err
	}
	r.groupKey = key
	return nil
}

func (s *Service) sealGroupKey(_ context.Context, r *run) error {
	sealed, err := cryptox.SealForCertificate(r.groupKey, r.cert)
	if err != nil {
		return newError(KindCrypto, MsgSeal, "", err)
	}
	r.sealed = sealed
	return nil
}

func (s *Service) generateDeviceID(_ context.Context, r *run) error {
	r.deviceID = s.deps.NewID()
	return nil
}

func (s *Service) buildArtifact(ctx context.Context, r *run) error {
	art, err := s.deps.Builder.Build(ctx, builder.BuildRequest{
		Platform:       r.platform,
		DeviceID:       r.deviceID,
		Cert:           r.cert,
		Key:            r.key,
		SealedGroupKey: r.sealed,
	})
	// the device private key only travels to the build service
	r.key = ""
	if err != nil {
		return newError(KindBuild, MsgBuild, "", err)
	}
	if art == nil || len(art.Binary) == 0 || art.EncryptionKey == "" {
		return newError(KindBuild, MsgBuild, "", nil)
	}
	r.artifact = art
	return nil
}

// compensate removes what this request wrote. Failures are logged and never
// replace the original error.
func (s *Service) compensate(ctx context.Context, r *run) {
	ctx = context.WithoutCancel(ctx)

	if r.objectKey != "" {
		if err := s.deps.Objects.Delete(ctx, r.objectKey); err != nil {
			s.log.Warn(ctx, "compensation: delete object failed", "object_key", r.objectKey, "error", err)
		}
	}

	if r.deviceWritten {
		// encryption_keys rows go with the device via ON DELETE CASCADE
		if err := s.deps.Devices.Delete(ctx, r.deviceID); err != nil {
			s.log.Warn(ctx, "compensation: delete device failed", "device_id", r.deviceID, "error", err)
		}
	}
}
