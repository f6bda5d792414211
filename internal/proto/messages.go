package proto

import (
	"errors"
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/structpb"
)

// Trailer keys carrying failure details next to the gRPC status.
const (
	TrailerErrorKind   = "x-error-kind"
	TrailerErrorDetail = "x-error-detail"
)

type ProvisionRequest struct {
	UID      string
	Platform string
}

func (r ProvisionRequest) ToStruct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"uid":      r.UID,
		"platform": r.Platform,
	})
}

func ProvisionRequestFromStruct(s *structpb.Struct) (ProvisionRequest, error) {
	uid, err := stringField(s, "uid")
	if err != nil {
		return ProvisionRequest{}, err
	}
	platform, err := stringField(s, "platform")
	if err != nil {
		return ProvisionRequest{}, err
	}
	return ProvisionRequest{UID: uid, Platform: platform}, nil
}

// ProvisionResponse is a successful provisioning outcome. DownloadURL is
// the only field callers are guaranteed to get and decoding fails without
// it; DeviceID and ExpiresAt are informational and left out of the wire
// message when empty.
type ProvisionResponse struct {
	DownloadURL string
	DeviceID    string
	ExpiresAt   time.Time
}

func (r ProvisionResponse) ToStruct() (*structpb.Struct, error) {
	m := map[string]any{"download_url": r.DownloadURL}
	if r.DeviceID != "" {
		m["device_id"] = r.DeviceID
	}
	if !r.ExpiresAt.IsZero() {
		m["expires_at"] = r.ExpiresAt.UTC().Format(time.RFC3339)
	}
	return structpb.NewStruct(m)
}

func ProvisionResponseFromStruct(s *structpb.Struct) (ProvisionResponse, error) {
	var resp ProvisionResponse
	var err error

	if resp.DownloadURL, err = stringField(s, "download_url"); err != nil {
		return resp, err
	}
	if resp.DownloadURL == "" {
		return resp, errors.New(`field "download_url": missing`)
	}
	if resp.DeviceID, err = stringField(s, "device_id"); err != nil {
		return resp, err
	}
	exp, err := stringField(s, "expires_at")
	if err != nil {
		return resp, err
	}
	if exp != "" {
		if resp.ExpiresAt, err = time.Parse(time.RFC3339, exp); err != nil {
			return resp, fmt.Errorf("expires_at: %w", err)
		}
	}
	return resp, nil
}

// stringField returns s[name] as a string; a missing field yields "".
func stringField(s *structpb.Struct, name string) (string, error) {
	v, ok := s.GetFields()[name]
	if !ok || v == nil {
		return "", nil
	}
	if _, isNull := v.GetKind().(*structpb.Value_NullValue); isNull {
		return "", nil
	}
	sv, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", fmt.Errorf("field %q: expected string", name)
	}
	return sv.StringValue, nil
}
