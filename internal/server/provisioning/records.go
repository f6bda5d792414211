package provisioning

import (
	"context"

	"github.com/dmitrijs2005/deviceprov/internal/server/models"
)

func (s *Service) writeDeviceRecord(ctx context.Context, r *run) error {
	device := &models.Device{
		ID:       r.deviceID,
		UserID:   r.uid,
		Settings: models.DefaultSettings(s.opts.DefaultNickname, s.opts.DefaultCacheTime),
		Cert:     r.cert,
		Status:   models.DeviceStatusPending,
	}

	if err := s.deps.Devices.Create(ctx, device); err != nil {
		return newError(KindStore, MsgInsertDevice, "", err)
	}
	r.deviceWritten = true
	return nil
}

func (s *Service) activateDevice(ctx context.Context, r *run) error {
	if err := s.deps.Devices.Activate(ctx, r.deviceID); err != nil {
		return newError(KindStore, MsgActivate, "", err)
	}
	return nil
}
