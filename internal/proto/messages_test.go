package proto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestProvisionRequest_Struct(t *testing.T) {
	s, err := ProvisionRequest{UID: "u-1", Platform: "linux"}.ToStruct()
	require.NoError(t, err)
	assert.Equal(t, "u-1", s.Fields["uid"].GetStringValue())

	got, err := ProvisionRequestFromStruct(s)
	require.NoError(t, err)
	assert.Equal(t, ProvisionRequest{UID: "u-1", Platform: "linux"}, got)
}

func TestProvisionRequest_WrongType(t *testing.T) {
	s, err := structpb.NewStruct(map[string]any{"uid": 12.0, "platform": "linux"})
	require.NoError(t, err)

	_, err = ProvisionRequestFromStruct(s)
	assert.EqualError(t, err, `field "uid": expected string`)
}

func TestProvisionRequest_MissingFieldsAreEmpty(t *testing.T) {
	got, err := ProvisionRequestFromStruct(&structpb.Struct{})
	require.NoError(t, err)
	assert.Equal(t, ProvisionRequest{}, got)
}

func TestProvisionResponse_Struct(t *testing.T) {
	exp := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	s, err := ProvisionResponse{DeviceID: "d", DownloadURL: "https://x", ExpiresAt: exp}.ToStruct()
	require.NoError(t, err)
	assert.Equal(t, "2026-03-04T05:06:07Z", s.Fields["expires_at"].GetStringValue())

	got, err := ProvisionResponseFromStruct(s)
	require.NoError(t, err)
	assert.Equal(t, "https://x", got.DownloadURL)
	assert.True(t, exp.Equal(got.ExpiresAt))
}

func TestProvisionResponse_BadExpiry(t *testing.T) {
	s, err := structpb.NewStruct(map[string]any{"download_url": "u", "expires_at": "yesterday"})
	require.NoError(t, err)

	_, err = ProvisionResponseFromStruct(s)
	assert.ErrorContains(t, err, "expires_at")
}

func TestProvisionResponse_OnlyDownloadURL(t *testing.T) {
	s, err := ProvisionResponse{DownloadURL: "https://x"}.ToStruct()
	require.NoError(t, err)
	assert.Len(t, s.Fields, 1)

	got, err := ProvisionResponseFromStruct(s)
	require.NoError(t, err)
	assert.Equal(t, ProvisionResponse{DownloadURL: "https://x"}, got)
}

func TestProvisionResponse_MissingDownloadURL(t *testing.T) {
	s, err := structpb.NewStruct(map[string]any{"device_id": "d", "expires_at": "2026-03-04T05:06:07Z"})
	require.NoError(t, err)

	_, err = ProvisionResponseFromStruct(s)
	assert.EqualError(t, err, `field "download_url": missing`)
}
