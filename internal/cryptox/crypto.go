// Package cryptox holds the key handling used during provisioning: decoding
// the stored group key and sealing it to a device certificate.
package cryptox

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"
)

// EscapePrefix is how PostgreSQL renders bytea values in hex output mode.
const EscapePrefix = `\x`

var (
	ErrBadKeyFormat   = errors.New("bad key format")
	ErrBadCertificate = errors.New("bad certificate")
	ErrNotRSA         = errors.New("public key is not RSA")
	ErrBadPrivateKey  = errors.New("bad private key")
)

// DecodeEscapedHex decodes s, which must be EscapePrefix followed by an even
// number of hex digits. Upper and lower case digits are accepted.
func DecodeEscapedHex(s string) ([]byte, error) {
	if !strings.HasPrefix(s, EscapePrefix) {
		return nil, ErrBadKeyFormat
	}
	b, err := hex.DecodeString(s[len(EscapePrefix):])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadKeyFormat, err)
	}
	return b, nil
}

// SealForCertificate encrypts plain with RSA-OAEP (SHA-256 digest and MGF1,
// empty label) under the public key of the PEM certificate certPEM.
//
// The result is randomized: sealing the same input twice yields different
// ciphertexts. plain may be at most k-66 bytes where k is the modulus size.
func SealForCertificate(plain []byte, certPEM string) ([]byte, error) {
	pub, err := publicKeyFromCertificate(certPEM)
	if err != nil {
		return nil, err
	}
	return rsa.EncryptOAEP(sha256.New(), rand.Reader, pub, plain, nil)
}

// OpenWithPrivateKey reverses SealForCertificate with the device's PEM
// private key (PKCS#1 or PKCS#8).
func OpenWithPrivateKey(sealed []byte, keyPEM string) ([]byte, error) {
	priv, err := parsePrivateKey(keyPEM)
	if err != nil {
		return nil, err
	}
	return rsa.DecryptOAEP(sha256.New(), nil, priv, sealed, nil)
}

func publicKeyFromCertificate(certPEM string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(certPEM))
	if block == nil || block.Type != "CERTIFICATE" {
		return nil, ErrBadCertificate
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadCertificate, err)
	}
	pub, ok := cert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return nil, ErrNotRSA
	}
	return pub, nil
}

func parsePrivateKey(keyPEM string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(keyPEM))
	if block == nil {
		return nil, ErrBadPrivateKey
	}
	if k, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return k, nil
	}
	k, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPrivateKey, err)
	}
	rk, ok := k.(*rsa.PrivateKey)
	if !ok {
		return nil, ErrNotRSA
	}
	return rk, nil
}
