package handler

import (
	"net/http"
	"userpanel/internal/app/service"
	"userpanel/internal/common"

	"github.com/go-chi/chi/v5"
)

type AuditHandler struct {
	auditService *service.AuditService
}

func NewAuditHandler(auditService *service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.list)
}

func (h *AuditHandler) list(w http.ResponseWriter, r *http.Request) {
	records, err := h.auditService.ListRecent(r.Context())
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"data": records})
}
