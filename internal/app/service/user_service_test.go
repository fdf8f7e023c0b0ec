package service

import (
	"context"
	"errors"
	"testing"
	"userpanel/internal/common"
	"userpanel/internal/domain/model"
)

func adminActor() *model.User {
	return &model.User{ID: 1, Name: "Admin", Email: "admin@x.com", Role: model.RoleAdmin}
}

func TestDeleteSelfForbidden(t *testing.T) {
	deleted := false
	userRepo := &mockUserRepo{
		deleteFn: func(_ context.Context, _ int64) error {
			deleted = true
			return nil
		},
	}
	svc := NewUserService(userRepo, NewAuditService(&mockAuditRepo{}))

	err := svc.Delete(context.Background(), adminActor(), 1)
	if !errors.Is(err, common.ErrForbidden) {
		t.Fatalf("expected forbidden for self-delete, got %v", err)
	}
	if deleted {
		t.Fatalf("self-delete must never reach the store")
	}
}

func TestDeleteOtherUser(t *testing.T) {
	userRepo := &mockUserRepo{}
	auditRepo := &mockAuditRepo{}
	svc := NewUserService(userRepo, NewAuditService(auditRepo))

	if err := svc.Delete(context.Background(), adminActor(), 2); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	records := auditRepo.recorded()
	if len(records) != 1 || records[0].Action != model.ActionDeleteUserAdmin {
		t.Fatalf("expected a delete audit record, got %+v", records)
	}
}

func TestDeleteMissingUser(t *testing.T) {
	userRepo := &mockUserRepo{
		deleteFn: func(_ context.Context, _ int64) error {
			return common.ErrNotFound
		},
	}
	svc := NewUserService(userRepo, NewAuditService(&mockAuditRepo{}))

	if err := svc.Delete(context.Background(), adminActor(), 99); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected not found for missing target, got %v", err)
	}
}

func TestUpdateSelfDemotionForbidden(t *testing.T) {
	actor := adminActor()
	userRepo := &mockUserRepo{
		findByIDFn: func(_ context.Context, id int64) (*model.User, error) {
			u := *actor
			return &u, nil
		},
	}
	svc := NewUserService(userRepo, NewAuditService(&mockAuditRepo{}))

	role := model.RoleUser
	_, err := svc.Update(context.Background(), actor, actor.ID, UpdateUserRequest{Role: &role})
	if !errors.Is(err, common.ErrForbidden) {
		t.Fatalf("expected forbidden for self-demotion, got %v", err)
	}
}

func TestUpdatePromotesOtherUser(t *testing.T) {
	target := &model.User{ID: 2, Name: "B", Email: "b@x.com", Role: model.RoleUser}
	var updated *model.User
	userRepo := &mockUserRepo{
		findByIDFn: func(_ context.Context, _ int64) (*model.User, error) {
			u := *target
			return &u, nil
		},
		updateFn: func(_ context.Context, u *model.User) error {
			updated = u
			return nil
		},
	}
	svc := NewUserService(userRepo, NewAuditService(&mockAuditRepo{}))

	role := model.RoleAdmin
	user, err := svc.Update(context.Background(), adminActor(), target.ID, UpdateUserRequest{Role: &role})
	if err != nil {
		t.Fatalf("update error: %v", err)
	}
	if updated == nil || updated.Role != model.RoleAdmin {
		t.Fatalf("expected role to be persisted as admin")
	}
	if user.HashedPassword != "" {
		t.Fatalf("update response must not carry the hashed secret")
	}
}

func TestCreateValidatesRole(t *testing.T) {
	svc := NewUserService(&mockUserRepo{}, NewAuditService(&mockAuditRepo{}))

	_, err := svc.Create(context.Background(), adminActor(), CreateUserRequest{
		Name: "B", Email: "b@x.com", Password: "abcdef", Role: "superuser",
	})
	var ve *common.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected a validation error, got %v", err)
	}
	if _, ok := ve.Fields["role"]; !ok {
		t.Fatalf("expected a role field error, got %v", ve.Fields)
	}
}

func TestCreateDefaultsRoleAndAllowsAdmin(t *testing.T) {
	var created *model.User
	userRepo := &mockUserRepo{
		createFn: func(_ context.Context, u *model.User) error {
			u.ID = 3
			created = u
			return nil
		},
	}
	auditRepo := &mockAuditRepo{}
	svc := NewUserService(userRepo, NewAuditService(auditRepo))

	if _, err := svc.Create(context.Background(), adminActor(), CreateUserRequest{
		Name: "B", Email: "b@x.com", Password: "abcdef",
	}); err != nil {
		t.Fatalf("create error: %v", err)
	}
	if created.Role != model.RoleUser {
		t.Fatalf("expected default role user, got %q", created.Role)
	}

	if _, err := svc.Create(context.Background(), adminActor(), CreateUserRequest{
		Name: "C", Email: "c@x.com", Password: "abcdef", Role: model.RoleAdmin,
	}); err != nil {
		t.Fatalf("create error: %v", err)
	}
	if created.Role != model.RoleAdmin {
		t.Fatalf("admin create must honor an explicit admin role, got %q", created.Role)
	}

	records := auditRepo.recorded()
	if len(records) != 2 || records[0].Action != model.ActionCreateUserAdmin {
		t.Fatalf("expected create audit records, got %+v", records)
	}
}

func TestCreateDuplicateEmailConflict(t *testing.T) {
	userRepo := &mockUserRepo{
		createFn: func(_ context.Context, _ *model.User) error {
			return common.ErrConflict
		},
	}
	svc := NewUserService(userRepo, NewAuditService(&mockAuditRepo{}))

	_, err := svc.Create(context.Background(), adminActor(), CreateUserRequest{
		Name: "B", Email: "b@x.com", Password: "abcdef",
	})
	if !errors.Is(err, common.ErrConflict) {
		t.Fatalf("expected conflict for duplicate email, got %v", err)
	}
}
