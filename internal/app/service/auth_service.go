package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"userpanel/internal/common"
	"userpanel/internal/common/security"
	"userpanel/internal/domain/model"
	"userpanel/internal/domain/repository"
)

type AuthService struct {
	userRepo  repository.UserRepository
	blacklist repository.TokenBlacklist
	jwt       *security.JWTManager
	audit     *AuditService
}

func NewAuthService(
	userRepo repository.UserRepository,
	blacklist repository.TokenBlacklist,
	jwt *security.JWTManager,
	audit *AuditService,
) *AuthService {
	return &AuthService{userRepo: userRepo, blacklist: blacklist, jwt: jwt, audit: audit}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	Message string      `json:"message"`
	User    *model.User `json:"user"`
	Token   string      `json:"token"`
}

// TokenResponse mirrors the login/refresh payload shape.
type TokenResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresIn   int64       `json:"expires_in"`
	User        *model.User `json:"user"`
}

func validateCredentials(name, email, password string, requireName bool) *common.ValidationError {
	fields := map[string]string{}
	if requireName && strings.TrimSpace(name) == "" {
		fields["name"] = "name is required"
	}
	if email == "" {
		fields["email"] = "email is required"
	} else if _, err := mail.ParseAddress(email); err != nil {
		fields["email"] = "email is not a valid address"
	}
	if password == "" {
		fields["password"] = "password is required"
	} else if len(password) < 6 {
		fields["password"] = "password must be at least 6 characters"
	}
	if len(fields) > 0 {
		return common.NewValidationError(fields)
	}
	return nil
}

// Register creates a self-registered account. The role is always forced to
// the non-privileged role regardless of the payload.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	if ve := validateCredentials(req.Name, req.Email, req.Password, true); ve != nil {
		return nil, ve
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Name:           req.Name,
		Email:          req.Email,
		HashedPassword: hashedPassword,
		Role:           model.RoleUser, // Default role
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.audit.Record(ctx, model.ActionRegister,
		fmt.Sprintf("user #%d registered with email %q", user.ID, user.Email), &user.ID)

	details, err := s.jwt.Issue(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	user.HashedPassword = ""
	return &RegisterResponse{
		Message: "user registered successfully",
		User:    user,
		Token:   details.Token,
	}, nil
}

// Login verifies credentials and mints a bearer token. Every attempt,
// successful or not, produces exactly one audit record.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	if ve := validateCredentials("", req.Email, req.Password, false); ve != nil {
		return nil, ve
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.audit.Record(ctx, model.ActionLoginFailed,
				fmt.Sprintf("failed login attempt for email %q", req.Email), nil)
			return nil, common.ErrUnauthorized // Generic message for security
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		s.audit.Record(ctx, model.ActionLoginFailed,
			fmt.Sprintf("failed login attempt for email %q", req.Email), nil)
		return nil, common.ErrUnauthorized
	}

	s.audit.Record(ctx, model.ActionLoginSuccess,
		fmt.Sprintf("user #%d logged in", user.ID), &user.ID)

	return s.tokenResponse(user)
}

// Logout revokes the presented token's jti so that verification fails until
// its natural expiry. Other tokens held by the same user stay valid.
func (s *AuthService) Logout(ctx context.Context, userID int64, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt) + s.jwt.RefreshGrace()
	if err := s.blacklist.Revoke(ctx, jti, ttl); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	s.audit.Record(ctx, model.ActionLogout,
		fmt.Sprintf("user #%d logged out", userID), &userID)
	return nil
}

// Refresh exchanges a token that is valid, or expired within the grace
// window, for a fresh one bound to the same subject. The old token is
// revoked so it cannot be replayed or refreshed again.
func (s *AuthService) Refresh(ctx context.Context, rawToken string) (*TokenResponse, error) {
	claims, err := s.jwt.ParseForRefresh(rawToken)
	if err != nil {
		return nil, err
	}

	revoked, err := s.blacklist.IsRevoked(ctx, claims.JTI)
	if err != nil {
		return nil, fmt.Errorf("failed to check token revocation: %w", err)
	}
	if revoked {
		return nil, fmt.Errorf("token already revoked: %w", common.ErrUnauthorized)
	}

	// Re-read the user so the new token carries the current role.
	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("token subject no longer exists: %w", common.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	ttl := time.Until(claims.ExpiresAt) + s.jwt.RefreshGrace()
	if err := s.blacklist.Revoke(ctx, claims.JTI, ttl); err != nil {
		return nil, fmt.Errorf("failed to revoke old token: %w", err)
	}

	s.audit.Record(ctx, model.ActionTokenRefresh,
		fmt.Sprintf("user #%d refreshed their token", user.ID), &user.ID)

	return s.tokenResponse(user)
}

func (s *AuthService) tokenResponse(user *model.User) (*TokenResponse, error) {
	details, err := s.jwt.Issue(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	user.HashedPassword = ""
	return &TokenResponse{
		AccessToken: details.Token,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.jwt.TTL().Seconds()),
		User:        user,
	}, nil
}
