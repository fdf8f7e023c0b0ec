package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"userpanel/internal/common"
	"userpanel/internal/common/security"
	"userpanel/internal/domain/model"
	"userpanel/internal/domain/repository"
)

// UserService implements the admin-facing user CRUD. The acting admin is
// always passed in explicitly; the self-protection rules (no self-delete,
// no self-demotion) compare actor against target here, not in the role gate.
type UserService struct {
	userRepo repository.UserRepository
	audit    *AuditService
}

func NewUserService(userRepo repository.UserRepository, audit *AuditService) *UserService {
	return &UserService{userRepo: userRepo, audit: audit}
}

type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	for i := range users {
		users[i].HashedPassword = ""
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.HashedPassword = ""
	return user, nil
}

// Create adds a user on behalf of an admin. Unlike self-registration the
// role is choosable, validated against the enum.
func (s *UserService) Create(ctx context.Context, actor *model.User, req CreateUserRequest) (*model.User, error) {
	fields := map[string]string{}
	if strings.TrimSpace(req.Name) == "" {
		fields["name"] = "name is required"
	}
	if req.Email == "" {
		fields["email"] = "email is required"
	} else if _, err := mail.ParseAddress(req.Email); err != nil {
		fields["email"] = "email is not a valid address"
	}
	if req.Password == "" {
		fields["password"] = "password is required"
	} else if len(req.Password) < 6 {
		fields["password"] = "password must be at least 6 characters"
	}
	if req.Role == "" {
		req.Role = model.RoleUser
	} else if !model.ValidRole(req.Role) {
		fields["role"] = "role must be admin or user"
	}
	if len(fields) > 0 {
		return nil, common.NewValidationError(fields)
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Name:           req.Name,
		Email:          req.Email,
		HashedPassword: hashedPassword,
		Role:           req.Role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.audit.Record(ctx, model.ActionCreateUserAdmin,
		fmt.Sprintf("admin #%d created user #%d with role %q", actor.ID, user.ID, user.Role), &actor.ID)

	user.HashedPassword = ""
	return user, nil
}

// Update applies a partial update. An admin may not demote their own
// account's role.
func (s *UserService) Update(ctx context.Context, actor *model.User, id int64, req UpdateUserRequest) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]string{}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			fields["name"] = "name must not be empty"
		} else {
			user.Name = *req.Name
		}
	}
	if req.Email != nil {
		if _, err := mail.ParseAddress(*req.Email); err != nil {
			fields["email"] = "email is not a valid address"
		} else {
			user.Email = *req.Email
		}
	}
	if req.Password != nil {
		if len(*req.Password) < 6 {
			fields["password"] = "password must be at least 6 characters"
		} else {
			hashedPassword, err := security.HashPassword(*req.Password)
			if err != nil {
				return nil, fmt.Errorf("failed to hash password: %w", err)
			}
			user.HashedPassword = hashedPassword
		}
	}
	if req.Role != nil {
		if !model.ValidRole(*req.Role) {
			fields["role"] = "role must be admin or user"
		} else {
			if actor.ID == user.ID && user.Role == model.RoleAdmin && *req.Role != model.RoleAdmin {
				return nil, fmt.Errorf("admins cannot demote their own account: %w", common.ErrForbidden)
			}
			user.Role = *req.Role
		}
	}
	if len(fields) > 0 {
		return nil, common.NewValidationError(fields)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.audit.Record(ctx, model.ActionUpdateUserAdmin,
		fmt.Sprintf("admin #%d updated user #%d", actor.ID, user.ID), &actor.ID)

	user.HashedPassword = ""
	return user, nil
}

// Delete removes a user. An admin may not delete their own account.
func (s *UserService) Delete(ctx context.Context, actor *model.User, id int64) error {
	if actor.ID == id {
		return fmt.Errorf("admins cannot delete their own account: %w", common.ErrForbidden)
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, model.ActionDeleteUserAdmin,
		fmt.Sprintf("admin #%d deleted user #%d", actor.ID, id), &actor.ID)
	return nil
}

// EnsureBootstrapAdmin creates the configured admin account on startup if
// it does not exist yet. A blank email disables bootstrapping.
func (s *UserService) EnsureBootstrapAdmin(ctx context.Context, name, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	_, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("failed to look up bootstrap admin: %w", err)
	}

	hashedPassword, err := security.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash bootstrap admin password: %w", err)
	}
	user := &model.User{
		Name:           name,
		Email:          email,
		HashedPassword: hashedPassword,
		Role:           model.RoleAdmin,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create bootstrap admin: %w", err)
	}
	return nil
}
