package security

import (
	"errors"
	"fmt"
	"strconv"
	"time"
	"userpanel/internal/common"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenDetails describes a freshly minted token.
type TokenDetails struct {
	Token     string
	JTI       string
	ExpiresAt time.Time
}

// RefreshClaims are the fields recovered from a token presented for refresh.
// The token may already be expired; the grace-window check has been applied.
type RefreshClaims struct {
	UserID    int64
	JTI       string
	ExpiresAt time.Time
}

// JWTManager issues and verifies signed bearer tokens. Tokens carry the
// subject user id, the role at issuance time, and a unique jti used for
// revocation.
type JWTManager struct {
	auth   *jwtauth.JWTAuth
	secret []byte
	ttl    time.Duration
	grace  time.Duration
}

func NewJWTManager(secret []byte, ttl, refreshGrace time.Duration) *JWTManager {
	return &JWTManager{
		auth:   jwtauth.New("HS256", secret, nil),
		secret: secret,
		ttl:    ttl,
		grace:  refreshGrace,
	}
}

// Auth exposes the verifier used by the router middleware.
func (m *JWTManager) Auth() *jwtauth.JWTAuth {
	return m.auth
}

// TTL is the configured token lifetime.
func (m *JWTManager) TTL() time.Duration {
	return m.ttl
}

// RefreshGrace is the window after expiry during which refresh is accepted.
func (m *JWTManager) RefreshGrace() time.Duration {
	return m.grace
}

// Issue mints a token for the given subject. The role claim reflects the
// role at issuance time; authorization decisions re-read the stored role.
func (m *JWTManager) Issue(userID int64, role string) (*TokenDetails, error) {
	now := time.Now()
	expiresAt := now.Add(m.ttl)
	jti := uuid.NewString()

	claims := map[string]interface{}{
		"sub":  strconv.FormatInt(userID, 10),
		"role": role,
		"jti":  jti,
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}
	_, tokenString, err := m.auth.Encode(claims)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &TokenDetails{Token: tokenString, JTI: jti, ExpiresAt: expiresAt}, nil
}

// ParseForRefresh validates a token's signature while tolerating expiry, as
// long as the expiry lies within the refresh grace window. Anything else
// (bad signature, malformed claims, expired beyond grace) is unauthorized.
func (m *JWTManager) ParseForRefresh(tokenString string) (*RefreshClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithoutClaimsValidation(),
	)
	token, err := parser.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("refresh token rejected: %w", common.ErrUnauthorized)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("refresh token has no claims: %w", common.ErrUnauthorized)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, fmt.Errorf("refresh token missing expiry: %w", common.ErrUnauthorized)
	}
	if time.Now().After(exp.Time.Add(m.grace)) {
		return nil, fmt.Errorf("refresh window elapsed: %w", common.ErrUnauthorized)
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return nil, fmt.Errorf("refresh token missing subject: %w", common.ErrUnauthorized)
	}
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("refresh token subject malformed: %w", common.ErrUnauthorized)
	}
	jti, ok := claims["jti"].(string)
	if !ok || jti == "" {
		return nil, fmt.Errorf("refresh token missing jti: %w", common.ErrUnauthorized)
	}

	return &RefreshClaims{UserID: userID, JTI: jti, ExpiresAt: exp.Time}, nil
}

// Claim helpers for the verified-claims map produced by the router's
// jwtauth verifier.

func UserIDFromClaims(claims map[string]interface{}) (int64, error) {
	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, errors.New("sub claim is missing or not a string")
	}
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, errors.New("sub claim is not a valid user id")
	}
	return id, nil
}

func JTIFromClaims(claims map[string]interface{}) (string, error) {
	jti, ok := claims["jti"].(string)
	if !ok || jti == "" {
		return "", errors.New("jti claim is missing or not a string")
	}
	return jti, nil
}

// ExpiryFromClaims tolerates both representations seen across the two JWT
// libraries in use: time.Time (jwx verifier) and unix seconds.
func ExpiryFromClaims(claims map[string]interface{}) (time.Time, error) {
	switch v := claims["exp"].(type) {
	case time.Time:
		return v, nil
	case float64:
		return time.Unix(int64(v), 0), nil
	case int64:
		return time.Unix(v, 0), nil
	}
	return time.Time{}, errors.New("exp claim is missing or malformed")
}
