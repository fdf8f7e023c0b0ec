package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"userpanel/internal/app/service"
	"userpanel/internal/common"
	"userpanel/internal/common/authctx"
	"userpanel/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

func actorFromContext(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	actor, ok := authctx.User(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "invalid or missing token")
		return nil, false
	}
	return actor, true
}

func idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func (h *UserHandler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"data": users})
}

func (h *UserHandler) create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(w, r)
	if !ok {
		return
	}
	var req service.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	user, err := h.userService.Create(r.Context(), actor, req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "user created successfully",
		"data":    user,
	})
}

func (h *UserHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		common.RespondWithError(w, http.StatusNotFound, "resource not found")
		return
	}
	user, err := h.userService.Get(r.Context(), id)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user)
}

func (h *UserHandler) update(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(w, r)
	if !ok {
		return
	}
	id, err := idParam(r)
	if err != nil {
		common.RespondWithError(w, http.StatusNotFound, "resource not found")
		return
	}
	var req service.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	user, err := h.userService.Update(r.Context(), actor, id, req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "user updated successfully",
		"data":    user,
	})
}

func (h *UserHandler) delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(w, r)
	if !ok {
		return
	}
	id, err := idParam(r)
	if err != nil {
		common.RespondWithError(w, http.StatusNotFound, "resource not found")
		return
	}

	if err := h.userService.Delete(r.Context(), actor, id); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "user deleted successfully"})
}
