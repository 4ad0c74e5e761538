package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrKeyNotJWT = errors.New("api key is not a jwt")

// KeyInfo is what the anon key reveals about the project it belongs to.
type KeyInfo struct {
	Role      string
	Ref       string
	ExpiresAt time.Time
}

func (k KeyInfo) Expired(now time.Time) bool {
	return !k.ExpiresAt.IsZero() && now.After(k.ExpiresAt)
}

// InspectKey decodes the claims of a legacy JWT anon key without verifying the
// signature. Publishable keys (sb_publishable_...) are opaque and yield ErrKeyNotJWT.
func InspectKey(key string) (KeyInfo, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(key, claims); err != nil {
		return KeyInfo{}, fmt.Errorf("%w: %v", ErrKeyNotJWT, err)
	}

	info := KeyInfo{}
	info.Role, _ = claims["role"].(string)
	info.Ref, _ = claims["ref"].(string)

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return KeyInfo{}, fmt.Errorf("read exp claim: %w", err)
	}
	if exp != nil {
		info.ExpiresAt = exp.Time
	}
	return info, nil
}
