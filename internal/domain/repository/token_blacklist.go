package repository

import (
	"context"
	"time"
)

// TokenBlacklist marks individual token ids (jti) as revoked before their
// natural expiry. Revocation is scoped to the single token, never the user.
type TokenBlacklist interface {
	// Revoke marks jti as invalid for ttl. Idempotent.
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
