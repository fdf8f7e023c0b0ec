package service

import (
	"context"
	"sync"
	"time"
	"userpanel/internal/common"
	"userpanel/internal/domain/model"
)

// --- mocks ---

type mockUserRepo struct {
	createFn       func(ctx context.Context, user *model.User) error
	findByEmailFn  func(ctx context.Context, email string) (*model.User, error)
	findByIDFn     func(ctx context.Context, id int64) (*model.User, error)
	listFn         func(ctx context.Context) ([]model.User, error)
	updateFn       func(ctx context.Context, user *model.User) error
	deleteFn       func(ctx context.Context, id int64) error
	countFn        func(ctx context.Context) (int64, error)
	createdSinceFn func(ctx context.Context, cutoff time.Time) ([]time.Time, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	user.ID = 1
	return nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, common.ErrNotFound
}

func (m *mockUserRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, common.ErrNotFound
}

func (m *mockUserRepo) List(ctx context.Context) ([]model.User, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *model.User) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockUserRepo) Count(ctx context.Context) (int64, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

func (m *mockUserRepo) CreatedSince(ctx context.Context, cutoff time.Time) ([]time.Time, error) {
	if m.createdSinceFn != nil {
		return m.createdSinceFn(ctx, cutoff)
	}
	return nil, nil
}

type mockAuditRepo struct {
	mu        sync.Mutex
	appendErr error
	records   []model.AuditRecord

	listRecentFn   func(ctx context.Context, limit int) ([]model.AuditRecord, error)
	countFn        func(ctx context.Context) (int64, error)
	createdSinceFn func(ctx context.Context, cutoff time.Time) ([]time.Time, error)
}

func (m *mockAuditRepo) Append(_ context.Context, record *model.AuditRecord) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	record.ID = int64(len(m.records) + 1)
	record.CreatedAt = time.Now()
	m.records = append(m.records, *record)
	return nil
}

func (m *mockAuditRepo) ListRecent(ctx context.Context, limit int) ([]model.AuditRecord, error) {
	if m.listRecentFn != nil {
		return m.listRecentFn(ctx, limit)
	}
	return nil, nil
}

func (m *mockAuditRepo) Count(ctx context.Context) (int64, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

func (m *mockAuditRepo) CreatedSince(ctx context.Context, cutoff time.Time) ([]time.Time, error) {
	if m.createdSinceFn != nil {
		return m.createdSinceFn(ctx, cutoff)
	}
	return nil, nil
}

func (m *mockAuditRepo) recorded() []model.AuditRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.AuditRecord, len(m.records))
	copy(out, m.records)
	return out
}
