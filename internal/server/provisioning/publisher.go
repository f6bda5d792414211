package provisioning

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/deviceprov/internal/server/models"
)

const artifactContentType = "application/octet-stream"

// ObjectKey names the stored artifact of deviceID built at unix time ts.
func ObjectKey(prefix, deviceID string, ts int64) string {
	if prefix == "" {
		return fmt.Sprintf("%s_%d.bin", deviceID, ts)
	}
	return fmt.Sprintf("%s/%s_%d.bin", prefix, deviceID, ts)
}

func (s *Service) persistEncryptionKey(ctx context.Context, r *run) error {
	err := s.deps.EncryptionKeys.Create(ctx, &models.EncryptionKeyRecord{
		DeviceID:      r.deviceID,
		EncryptionKey: r.artifact.EncryptionKey,
	})
	if err != nil {
		return newError(KindStore, MsgInsertKey, "", err)
	}
	return nil
}

func (s *Service) publishArtifact(ctx context.Context, r *run) error {
	key := ObjectKey(s.opts.ObjectKeyPrefix, r.deviceID, s.deps.Now().Unix())

	if err := s.deps.Objects.Put(ctx, key, r.artifact.Binary, artifactContentType); err != nil {
		return newError(KindStorage, err.Error(), "", err)
	}
	r.objectKey = key

	issued := s.deps.Now()
	url, err := s.deps.Objects.PresignGet(ctx, key, s.opts.DownloadURLExpiry)
	if err != nil {
		return newError(KindStorage, err.Error(), "", err)
	}

	r.downloadURL = url
	r.expiresAt = issued.Add(s.opts.DownloadURLExpiry)
	return nil
}
