package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"userpanel/internal/app/service"
	"userpanel/internal/common"
	"userpanel/internal/common/authctx"
	"userpanel/internal/common/security"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRoutes mounts the unauthenticated endpoints. Refresh accepts a
// token expired within the grace window, so it cannot sit behind the normal
// authenticator.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
	r.Post("/refresh", h.refresh)
}

// RegisterProtectedRoutes mounts the endpoints requiring a valid token.
func (h *AuthHandler) RegisterProtectedRoutes(r chi.Router) {
	r.Post("/logout", h.logout)
	r.Get("/me", h.me)
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	resp, err := h.authService.Register(r.Context(), req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, resp)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	resp, err := h.authService.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			common.RespondWithError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) refresh(w http.ResponseWriter, r *http.Request) {
	raw := jwtauth.TokenFromHeader(r)
	if raw == "" {
		common.RespondWithError(w, http.StatusUnauthorized, "invalid or missing token")
		return
	}

	resp, err := h.authService.Refresh(r.Context(), raw)
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			common.RespondWithError(w, http.StatusUnauthorized, "invalid or missing token")
			return
		}
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	user, ok := authctx.User(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "invalid or missing token")
		return
	}
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		common.RespondWithError(w, http.StatusUnauthorized, "invalid or missing token")
		return
	}
	jti, err := security.JTIFromClaims(claims)
	if err != nil {
		common.RespondWithError(w, http.StatusUnauthorized, "invalid or missing token")
		return
	}
	expiresAt, err := security.ExpiryFromClaims(claims)
	if err != nil {
		common.RespondWithError(w, http.StatusUnauthorized, "invalid or missing token")
		return
	}

	if err := h.authService.Logout(r.Context(), user.ID, jti, expiresAt); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "logged out successfully"})
}

func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	user, ok := authctx.User(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "invalid or missing token")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user)
}
