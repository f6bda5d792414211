// Package auth issues and verifies the HS256 bearer tokens the service
// presents to the broker and the build service.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/deviceprov/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the standard registered claims plus the calling service name.
type Claims struct {
	jwt.RegisteredClaims
	Service string `json:"svc"`
}

func GenerateToken(service string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   service,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		Service: service,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetServiceFromToken validates tokenString and returns the service it was
// issued for.
func GetServiceFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrorTokenExpired
		}
		return "", err
	}

	if !token.Valid {
		return "", common.ErrorInvalidToken
	}

	return claims.Service, nil
}

// TokenSource mints a fresh token for every outgoing request.
type TokenSource struct {
	Service  string
	Secret   []byte
	Validity time.Duration
}

func (s TokenSource) Token() (string, error) {
	return GenerateToken(s.Service, s.Secret, s.Validity)
}
