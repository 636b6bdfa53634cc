// Package revocation records refresh-token jtis that may no longer be used.
package revocation

import (
	"context"
	"fmt"
	"time"
)

const (
	keyPrefix  = "revoked:"
	DefaultTTL = 7 * 24 * time.Hour
)

type store interface {
	SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error
	SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	Exists(ctx context.Context, key string) (bool, error)
}

type Registry struct {
	store store
}

func NewRegistry(s store) *Registry {
	return &Registry{store: s}
}

// Revoke marks jti revoked for ttl, which should be the token's remaining
// lifetime. A non-positive ttl falls back to DefaultTTL.
func (r *Registry) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if err := r.store.SetWithTTL(ctx, keyPrefix+jti, "1", markerTTL(ttl)); err != nil {
		return fmt.Errorf("revoke %s: %w", jti, err)
	}
	return nil
}

// Claim revokes jti only if it was not already revoked and reports whether
// this call did it. Of two concurrent rotations of one token, one wins.
func (r *Registry) Claim(ctx context.Context, jti string, ttl time.Duration) (bool, error) {
	ok, err := r.store.SetIfAbsent(ctx, keyPrefix+jti, "1", markerTTL(ttl))
	if err != nil {
		return false, fmt.Errorf("claim %s: %w", jti, err)
	}
	return ok, nil
}

func (r *Registry) IsRevoked(ctx context.Context, jti string) (bool, error) {
	ok, err := r.store.Exists(ctx, keyPrefix+jti)
	if err != nil {
		return false, fmt.Errorf("check revocation %s: %w", jti, err)
	}
	return ok, nil
}

func markerTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return DefaultTTL
	}
	if ttl < time.Second {
		return time.Second
	}
	return ttl
}
