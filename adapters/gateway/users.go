package gateway

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/gokmency/web3turkiyetoplulugu/core"
)

const userColumns = `id, wallet_address, ens, email, role, is_verified, created_at, updated_at`

// UserRepository stores user profiles in the user_profiles table.
type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByWallet retrieves the user registered for address.
func (r *UserRepository) GetByWallet(ctx context.Context, address string) (*core.User, error) {
	query := r.db.Rebind(`SELECT ` + userColumns + ` FROM user_profiles WHERE wallet_address = ?`)

	user := &core.User{}
	if err := r.db.GetContext(ctx, user, query, address); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// Touch sets updated_at of the user to at.
func (r *UserRepository) Touch(ctx context.Context, address string, at time.Time) (*core.User, error) {
	query := r.db.Rebind(`
		UPDATE user_profiles SET updated_at = ?
		WHERE wallet_address = ?
		RETURNING ` + userColumns)

	user := &core.User{}
	if err := r.db.GetContext(ctx, user, query, at.UTC(), address); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// Create inserts user.
func (r *UserRepository) Create(ctx context.Context, user *core.User) error {
	query := r.db.Rebind(`
		INSERT INTO user_profiles (` + userColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.WalletAddress,
		user.ENS,
		user.Email,
		user.Role,
		user.IsVerified,
		user.CreatedAt.UTC(),
		user.UpdatedAt.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return core.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// UpdateProfile changes the set fields of update.
func (r *UserRepository) UpdateProfile(ctx context.Context, address string, update core.ProfileUpdate, at time.Time) (*core.User, error) {
	query := r.db.Rebind(`
		UPDATE user_profiles
		SET ens = COALESCE(?, ens), email = COALESCE(?, email), updated_at = ?
		WHERE wallet_address = ?
		RETURNING ` + userColumns)

	user := &core.User{}
	if err := r.db.GetContext(ctx, user, query, update.ENS, update.Email, at.UTC(), address); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

// List returns all users, newest first.
func (r *UserRepository) List(ctx context.Context) ([]core.User, error) {
	users := []core.User{}
	query := `SELECT ` + userColumns + ` FROM user_profiles ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
