package models

// EncryptionKeyRecord maps a device to the artifact wrapping key returned by
// the build service (base64, as received).
type EncryptionKeyRecord struct {
	DeviceID      string
	EncryptionKey string
}
