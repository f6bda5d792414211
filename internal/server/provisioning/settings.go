package provisioning

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

func (s *Service) fetchSettings(ctx context.Context, r *run) error {
	entries, err := s.deps.Devices.ListSettings(ctx, r.uid)
	if err != nil {
		return newError(KindBroker, MsgSettings, "", err)
	}
	r.settings = entries[:0]
	for _, e := range entries {
		if !json.Valid(e.Settings) {
			s.log.Warn(ctx, "skipping device with unreadable settings", "device_id", e.DeviceID)
			continue
		}
		r.settings = append(r.settings, e)
	}
	return nil
}

func (s *Service) syncSettings(ctx context.Context, r *run) error {
	status, err := s.deps.Broker.PubSettings(ctx, r.settings, r.uid)
	if err != nil {
		return newError(KindBroker, MsgSettings, "", err)
	}
	if status != http.StatusOK {
		return newError(KindBroker, MsgSettings, fmt.Sprintf("broker status %d", status), nil)
	}
	return nil
}
