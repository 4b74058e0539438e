package repository

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const userColumns = "id, email, password_hash, first_name, last_name, is_admin, created_at, updated_at, deleted_at"

// userRepository implements the UserRepository interface using PostgreSQL.
type userRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(pool *pgxpool.Pool, logger zerolog.Logger) UserRepository {
	return &userRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "user").Logger(),
	}
}

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.IsAdmin, &u.CreatedAt, &u.UpdatedAt, &u.DeletedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Insert persists a new user.
func (r *userRepository) Insert(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, first_name, last_name, is_admin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName,
		user.IsAdmin, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if translated := translateError(err); isDomainError(translated) {
			return translated
		}
		r.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to insert user")
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID, honouring tombstone visibility.
func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*model.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE id = $1", userColumns)
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}

	u, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", id.String()).Msg("failed to query user")
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return u, nil
}

// GetByEmail retrieves the active user holding the email, if any.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE email = $1 AND deleted_at IS NULL", userColumns)

	u, err := scanUser(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query user by email")
		return nil, fmt.Errorf("failed to query user by email: %w", err)
	}

	return u, nil
}

// GetDeletedByID retrieves a user by ID requiring a tombstone.
func (r *userRepository) GetDeletedByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE id = $1 AND deleted_at IS NOT NULL", userColumns)

	u, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", id.String()).Msg("failed to query deleted user")
		return nil, fmt.Errorf("failed to query deleted user: %w", err)
	}

	return u, nil
}

// List retrieves one page of users matching the filter.
func (r *userRepository) List(ctx context.Context, filter model.UserFilter, limit, offset int) ([]model.User, error) {
	fq := buildUserQuery(filter)
	query := fmt.Sprintf("SELECT %s FROM users%s%s LIMIT $%d OFFSET $%d",
		userColumns, fq.where(),
		orderClause(filter.SortBy, filter.SortDir, userSortColumns, "created_at"),
		fq.next(), fq.next()+1)
	args := append(fq.args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query users")
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan user row")
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *u)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating user rows")
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// Count counts all users matching the filter.
func (r *userRepository) Count(ctx context.Context, filter model.UserFilter) (int, error) {
	fq := buildUserQuery(filter)
	query := "SELECT COUNT(*) FROM users" + fq.where()

	var count int
	if err := r.pool.QueryRow(ctx, query, fq.args...).Scan(&count); err != nil {
		r.logger.Error().Err(err).Msg("failed to count users")
		return 0, fmt.Errorf("failed to count users: %w", err)
	}

	return count, nil
}

// Update rewrites the profile fields of an existing user.
func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	query := `
		UPDATE users
		SET email = $1, first_name = $2, last_name = $3, is_admin = $4, updated_at = $5
		WHERE id = $6
	`

	tag, err := r.pool.Exec(ctx, query,
		user.Email, user.FirstName, user.LastName, user.IsAdmin, user.UpdatedAt, user.ID)
	if err != nil {
		if translated := translateError(err); isDomainError(translated) {
			return translated
		}
		r.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to update user")
		return fmt.Errorf("failed to update user: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}

	return nil
}

// UpdatePassword replaces the stored password hash.
func (r *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := "UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2 AND deleted_at IS NULL"

	tag, err := r.pool.Exec(ctx, query, passwordHash, id)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", id.String()).Msg("failed to update password")
		return fmt.Errorf("failed to update password: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}

	return nil
}

// SoftDelete tombstones an active user and returns its final state.
func (r *userRepository) SoftDelete(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := fmt.Sprintf(`
		UPDATE users SET deleted_at = now(), updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING %s
	`, userColumns)

	u, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", id.String()).Msg("failed to soft-delete user")
		return nil, fmt.Errorf("failed to soft-delete user: %w", err)
	}

	return u, nil
}

// Restore clears the tombstone of a deleted user. The partial unique
// index on email still arbitrates concurrent restores.
func (r *userRepository) Restore(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := fmt.Sprintf(`
		UPDATE users SET deleted_at = NULL, updated_at = now()
		WHERE id = $1 AND deleted_at IS NOT NULL
		RETURNING %s
	`, userColumns)

	u, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		if translated := translateError(err); isDomainError(translated) {
			return nil, translated
		}
		r.logger.Error().Err(err).Str("user_id", id.String()).Msg("failed to restore user")
		return nil, fmt.Errorf("failed to restore user: %w", err)
	}

	return u, nil
}

// FindActiveCollider finds an active user other than excludeID holding
// the given email.
func (r *userRepository) FindActiveCollider(ctx context.Context, excludeID uuid.UUID, email string) (*model.User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE deleted_at IS NULL AND id <> $1 AND email = $2
		LIMIT 1
	`, userColumns)

	u, err := scanUser(r.pool.QueryRow(ctx, query, excludeID, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", excludeID.String()).Msg("failed to scan for email collision")
		return nil, fmt.Errorf("failed to scan for email collision: %w", err)
	}

	return u, nil
}
