package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront/internal/auth"
	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// userService implements UserService.
type userService struct {
	userRepo repository.UserRepository
	gate     *Gate
	logger   zerolog.Logger
}

// NewUserService creates a new user service.
func NewUserService(userRepo repository.UserRepository, gate *Gate, logger zerolog.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		gate:     gate,
		logger:   logger.With().Str("service", "user").Logger(),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an active account. The store's partial unique index
// on email arbitrates duplicate registrations.
func (s *userService) Register(ctx context.Context, req model.RegisterUserRequest) (*model.User, error) {
	if err := validateRequest(&req); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           uuid.New(),
		Email:        normalizeEmail(req.Email),
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Insert(ctx, user); err != nil {
		if model.IsConflict(err) {
			s.logger.Warn().Str("email", user.Email).Msg("registration conflicts with active account")
		}
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("user registered")
	return user, nil
}

// Authenticate verifies credentials against the active account holding
// the email.
func (s *userService) Authenticate(ctx context.Context, req model.LoginRequest) (*model.User, error) {
	if err := validateRequest(&req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, err
	}
	if user == nil || !auth.CheckPassword(req.Password, user.PasswordHash) {
		s.logger.Warn().Msg("failed sign-in attempt")
		return nil, model.ErrInvalidCredential
	}

	return user, nil
}

// GetByID retrieves a profile; self or admin.
func (s *userService) GetByID(ctx context.Context, actor Actor, id uuid.UUID, includeDeleted bool) (*model.User, error) {
	if err := s.gate.RequireSelfOrAdmin(actor, id, "user.read"); err != nil {
		return nil, err
	}

	return s.userRepo.GetByID(ctx, id, includeDeleted && actor.Admin)
}

// GetByEmail retrieves the active account holding the email; admin only.
func (s *userService) GetByEmail(ctx context.Context, actor Actor, email string) (*model.User, error) {
	if err := s.gate.RequireAdmin(actor, "user.lookup_email"); err != nil {
		return nil, err
	}

	return s.userRepo.GetByEmail(ctx, normalizeEmail(email))
}

// List retrieves a page of accounts; admin only. The caller's filter is
// never mutated; defaults are applied to a copy.
func (s *userService) List(ctx context.Context, actor Actor, filter model.UserFilter) (model.Page[model.User], error) {
	if err := s.gate.RequireAdmin(actor, "user.list"); err != nil {
		return model.Page[model.User]{}, err
	}

	f := filter
	f.PageRequest = f.PageRequest.Normalize()

	return fetchPage(ctx, f.PageRequest,
		func(ctx context.Context) (int, error) {
			return s.userRepo.Count(ctx, f)
		},
		func(ctx context.Context, limit, offset int) ([]model.User, error) {
			return s.userRepo.List(ctx, f, limit, offset)
		},
	)
}

// Update patches a profile; self or admin.
func (s *userService) Update(ctx context.Context, actor Actor, id uuid.UUID, req model.UpdateUserRequest) (*model.User, error) {
	if err := s.gate.RequireSelfOrAdmin(actor, id, "user.update"); err != nil {
		return nil, err
	}
	if err := validateRequest(&req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}

	updated := *user
	if req.Email != nil {
		updated.Email = normalizeEmail(*req.Email)
	}
	if req.FirstName != nil {
		updated.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		updated.LastName = *req.LastName
	}
	updated.UpdatedAt = time.Now().UTC()

	if err := s.userRepo.Update(ctx, &updated); err != nil {
		if model.IsConflict(err) {
			s.logger.Warn().Str("user_id", id.String()).Msg("profile update conflicts with active account")
		}
		return nil, err
	}

	return &updated, nil
}

// ChangePassword replaces the account password; self only.
func (s *userService) ChangePassword(ctx context.Context, actor Actor, id uuid.UUID, req model.ChangePasswordRequest) error {
	if err := s.gate.RequireSelf(actor, id, "user.change_password"); err != nil {
		return err
	}
	if err := validateRequest(&req); err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(ctx, id, false)
	if err != nil {
		return err
	}
	if user == nil {
		return model.ErrUserNotFound
	}

	if !auth.CheckPassword(req.CurrentPassword, user.PasswordHash) {
		s.logger.Warn().Str("user_id", id.String()).Msg("password change with wrong current password")
		return model.ErrInvalidCredential
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return fmt.Errorf("failed to change password: %w", err)
	}

	return s.userRepo.UpdatePassword(ctx, id, hash)
}

// Delete tombstones an account; self or admin.
func (s *userService) Delete(ctx context.Context, actor Actor, id uuid.UUID) (*model.User, error) {
	if err := s.gate.RequireSelfOrAdmin(actor, id, "user.delete"); err != nil {
		return nil, err
	}

	user, err := s.userRepo.SoftDelete(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}

	s.logger.Info().Str("user_id", id.String()).Msg("user soft-deleted")
	return user, nil
}

// Restore clears an account tombstone; admin only. The pre-write scan
// produces the friendly conflict in the common case; a concurrent
// restore or registration racing past it is still caught by the store's
// unique index and surfaces as the same conflict.
func (s *userService) Restore(ctx context.Context, actor Actor, id uuid.UUID) (*model.User, error) {
	if err := s.gate.RequireAdmin(actor, "user.restore"); err != nil {
		return nil, err
	}

	record, err := s.userRepo.GetDeletedByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		// absent or already active: a no-op, not an error
		return nil, nil
	}

	collider, err := s.userRepo.FindActiveCollider(ctx, record.ID, record.Email)
	if err != nil {
		return nil, err
	}
	if collider != nil {
		s.logger.Warn().
			Str("user_id", id.String()).
			Str("collider_id", collider.ID.String()).
			Msg("restore blocked: active account holds the email")
		return nil, model.NewConflictError("email", "An active user already holds this email")
	}

	restored, err := s.userRepo.Restore(ctx, id)
	if err != nil {
		if model.IsConflict(err) {
			s.logger.Warn().Str("user_id", id.String()).Msg("restore lost uniqueness race")
		}
		return nil, err
	}
	if restored == nil {
		return nil, nil
	}

	s.logger.Info().Str("user_id", id.String()).Msg("user restored")
	return restored, nil
}
