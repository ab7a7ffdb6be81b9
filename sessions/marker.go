package sessions

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	apperrors "github.com/jrsteele09/go-clients-dashboard/internal/errors"
	"golang.org/x/crypto/hkdf"
)

const (
	markerIssuer = "clients-dashboard"
	keyInfo      = "session-marker-v1"
	keyLength    = 32
)

// DeriveKey stretches the configured secret into an HMAC signing key
func DeriveKey(secret []byte) ([]byte, error) {
	if len(secret) == 0 {
		return nil, errors.New("[sessions DeriveKey] secret is required")
	}
	key := make([]byte, keyLength)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(keyInfo)), key); err != nil {
		return nil, fmt.Errorf("[sessions DeriveKey] %w", err)
	}
	return key, nil
}

// MarkerIssuer signs and verifies the session marker cookie value.
// A marker is an HS256 JWT whose subject is the session id.
type MarkerIssuer struct {
	key []byte
	now func() time.Time
}

func NewMarkerIssuer(secret []byte) (*MarkerIssuer, error) {
	key, err := DeriveKey(secret)
	if err != nil {
		return nil, err
	}
	return &MarkerIssuer{key: key, now: time.Now}, nil
}

// Issue returns a marker for sessionID valid until expiresAt
func (m *MarkerIssuer) Issue(sessionID string, expiresAt time.Time) (string, error) {
	if sessionID == "" {
		return "", errors.New("[MarkerIssuer Issue] sessionID is required")
	}
	now := m.now()
	claims := jwt.RegisteredClaims{
		Issuer:    markerIssuer,
		Subject:   sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.key)
	if err != nil {
		return "", fmt.Errorf("[MarkerIssuer Issue] failed to sign marker: %w", err)
	}
	return signed, nil
}

// Verify returns the session id carried by a well formed, unexpired marker
func (m *MarkerIssuer) Verify(marker string) (string, error) {
	if marker == "" {
		return "", apperrors.ErrInvalidMarker
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(marker, claims, func(t *jwt.Token) (interface{}, error) {
		return m.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(markerIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", apperrors.Kind(apperrors.ErrSessionExpired, err)
		}
		return "", apperrors.Kind(apperrors.ErrInvalidMarker, err)
	}
	if claims.Subject == "" {
		return "", apperrors.ErrInvalidMarker
	}
	return claims.Subject, nil
}
