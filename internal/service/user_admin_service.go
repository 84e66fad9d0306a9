package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"hms-api/internal/domain"
	"hms-api/internal/repository"
)

var validRoles = map[string]struct{}{
	domain.RolePatient: {},
	domain.RoleDoctor:  {},
	domain.RoleAdmin:   {},
}

// UserAdminService expone la gestion de cuentas para administradores.
type UserAdminService struct {
	logger *zap.Logger
	users  repository.UserRepository
}

func NewUserAdminService(logger *zap.Logger, users repository.UserRepository) *UserAdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserAdminService{logger: logger, users: users}
}

type UpdateUserInput struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

func (s *UserAdminService) List(ctx context.Context) ([]domain.User, error) {
	out, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.User{}
	}
	return out, nil
}

// Update aplica solo los campos presentes; la password se guarda hasheada.
func (s *UserAdminService) Update(ctx context.Context, email string, in UpdateUserInput) error {
	email = normalizeEmail(email)
	if email == "" {
		return validationf("email is required")
	}
	var upd repository.UserUpdate
	if in.Email != nil {
		newEmail := normalizeEmail(*in.Email)
		if newEmail == "" {
			return validationf("email cannot be empty")
		}
		upd.Email = &newEmail
	}
	if in.Password != nil {
		if *in.Password == "" {
			return validationf("password cannot be empty")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		h := string(hash)
		upd.PasswordHash = &h
	}
	if in.Role != nil {
		role := strings.ToLower(strings.TrimSpace(*in.Role))
		if _, ok := validRoles[role]; !ok {
			return validationf("unknown role %q", *in.Role)
		}
		upd.Role = &role
	}
	if upd.Empty() {
		return validationf("no fields to update")
	}

	if err := s.users.Update(ctx, email, upd); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return ErrUserNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return ErrConflict
		}
		return err
	}
	s.logger.Info("user updated", zap.String("email", email))
	return nil
}

func (s *UserAdminService) Delete(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return validationf("email is required")
	}
	if err := s.users.Delete(ctx, email); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	s.logger.Info("user deleted", zap.String("email", email))
	return nil
}
