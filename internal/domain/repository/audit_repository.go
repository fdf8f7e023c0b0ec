package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
	"userpanel/internal/domain/model"
)

type AuditRepository interface {
	// Append inserts a new record. Records are never updated or deleted
	// by the application.
	Append(ctx context.Context, record *model.AuditRecord) error
	// ListRecent returns at most limit records, newest first, with the
	// actor row joined in where it still exists.
	ListRecent(ctx context.Context, limit int) ([]model.AuditRecord, error)
	Count(ctx context.Context) (int64, error)
	CreatedSince(ctx context.Context, cutoff time.Time) ([]time.Time, error)
}

type pgAuditRepository struct {
	db *sql.DB
}

func NewPgAuditRepository(db *sql.DB) AuditRepository {
	return &pgAuditRepository{db: db}
}

func (r *pgAuditRepository) Append(ctx context.Context, record *model.AuditRecord) error {
	query := `INSERT INTO audit_records (actor_id, action, detail)
	          VALUES ($1, $2, $3)
	          RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, record.ActorID, record.Action, record.Detail).
		Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		return fmt.Errorf("pgAuditRepository.Append: %w", err)
	}
	return nil
}

func (r *pgAuditRepository) ListRecent(ctx context.Context, limit int) ([]model.AuditRecord, error) {
	query := `SELECT a.id, a.actor_id, a.action, a.detail, a.created_at,
	                 u.id, u.name, u.email, u.role, u.created_at, u.updated_at
	          FROM audit_records a
	          LEFT JOIN users u ON u.id = a.actor_id
	          ORDER BY a.created_at DESC
	          LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("pgAuditRepository.ListRecent: %w", err)
	}
	defer rows.Close()

	records := []model.AuditRecord{}
	for rows.Next() {
		var rec model.AuditRecord
		var (
			actorID        sql.NullInt64
			actorName      sql.NullString
			actorEmail     sql.NullString
			actorRole      sql.NullString
			actorCreatedAt sql.NullTime
			actorUpdatedAt sql.NullTime
		)
		if err := rows.Scan(
			&rec.ID, &rec.ActorID, &rec.Action, &rec.Detail, &rec.CreatedAt,
			&actorID, &actorName, &actorEmail, &actorRole, &actorCreatedAt, &actorUpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("pgAuditRepository.ListRecent scan: %w", err)
		}
		if actorID.Valid {
			rec.Actor = &model.User{
				ID:        actorID.Int64,
				Name:      actorName.String,
				Email:     actorEmail.String,
				Role:      actorRole.String,
				CreatedAt: actorCreatedAt.Time,
				UpdatedAt: actorUpdatedAt.Time,
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgAuditRepository.ListRecent rows: %w", err)
	}
	return records, nil
}

func (r *pgAuditRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_records`).Scan(&count); err != nil {
		return 0, fmt.Errorf("pgAuditRepository.Count: %w", err)
	}
	return count, nil
}

func (r *pgAuditRepository) CreatedSince(ctx context.Context, cutoff time.Time) ([]time.Time, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT created_at FROM audit_records WHERE created_at >= $1 ORDER BY created_at ASC`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("pgAuditRepository.CreatedSince: %w", err)
	}
	defer rows.Close()

	var stamps []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("pgAuditRepository.CreatedSince scan: %w", err)
		}
		stamps = append(stamps, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgAuditRepository.CreatedSince rows: %w", err)
	}
	return stamps, nil
}
