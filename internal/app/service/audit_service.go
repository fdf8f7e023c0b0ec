package service

import (
	"context"
	"log/slog"
	"userpanel/internal/common/authctx"
	"userpanel/internal/domain/model"
	"userpanel/internal/domain/repository"
)

// AuditService appends audit records on a strictly best-effort basis.
// A failure to record an action must never affect the action itself, so
// Record has no error return; persistence failures go to operational logs.
type AuditService struct {
	repo repository.AuditRepository
}

func NewAuditService(repo repository.AuditRepository) *AuditService {
	return &AuditService{repo: repo}
}

// Record appends one audit record. The actor is resolved in order: the
// explicit actorID override, then the authenticated identity on ctx, then
// none. An empty action is a no-op.
func (s *AuditService) Record(ctx context.Context, action, detail string, actorID *int64) {
	if action == "" {
		slog.Warn("audit record with empty action ignored", "detail", detail)
		return
	}

	if actorID == nil {
		if u, ok := authctx.User(ctx); ok {
			id := u.ID
			actorID = &id
		}
	}

	record := &model.AuditRecord{
		ActorID: actorID,
		Action:  action,
		Detail:  detail,
	}
	if err := s.repo.Append(ctx, record); err != nil {
		slog.Error("failed to append audit record", "action", action, "error", err)
	}
}

// ListRecent returns the 50 most recent records, newest first.
func (s *AuditService) ListRecent(ctx context.Context) ([]model.AuditRecord, error) {
	return s.repo.ListRecent(ctx, 50)
}
