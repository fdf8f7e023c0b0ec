package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"userpanel/internal/common"
	"userpanel/internal/common/authctx"
	"userpanel/internal/common/security"
	"userpanel/internal/domain/repository"

	"github.com/go-chi/jwtauth/v5"
)

// Verification failures all produce the same message so a caller cannot
// distinguish expiry from signature failure from revocation.
const unauthorizedMessage = "invalid or missing token"

// Authenticator resolves the bearer token placed in the context by the
// jwtauth verifier, rejects revoked tokens, and loads the live user row.
// All downstream authorization decides on the persisted role, not the
// token's role claim.
func Authenticator(userRepo repository.UserRepository, blacklist repository.TokenBlacklist) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				common.RespondWithError(w, http.StatusUnauthorized, unauthorizedMessage)
				return
			}

			jti, err := security.JTIFromClaims(claims)
			if err != nil {
				common.RespondWithError(w, http.StatusUnauthorized, unauthorizedMessage)
				return
			}
			revoked, err := blacklist.IsRevoked(r.Context(), jti)
			if err != nil {
				slog.Error("failed to check token revocation", "error", err)
				common.RespondWithError(w, http.StatusInternalServerError, common.ErrInternalServer.Error())
				return
			}
			if revoked {
				common.RespondWithError(w, http.StatusUnauthorized, unauthorizedMessage)
				return
			}

			userID, err := security.UserIDFromClaims(claims)
			if err != nil {
				common.RespondWithError(w, http.StatusUnauthorized, unauthorizedMessage)
				return
			}
			user, err := userRepo.FindByID(r.Context(), userID)
			if err != nil {
				if errors.Is(err, common.ErrNotFound) {
					common.RespondWithError(w, http.StatusUnauthorized, unauthorizedMessage)
					return
				}
				slog.Error("failed to load authenticated user", "error", err)
				common.RespondWithError(w, http.StatusInternalServerError, common.ErrInternalServer.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(authctx.WithUser(r.Context(), user)))
		})
	}
}

// AdminOnly gates a subtree on the live role of the authenticated user.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := authctx.User(r.Context())
		if !ok || !user.IsAdmin() {
			common.RespondWithError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
