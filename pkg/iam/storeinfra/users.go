package storeinfra

import (
	"context"
	"time"

	"github.com/lib/pq"

	"github.com/prapeller/api-auth/pkg/errx"
	"github.com/prapeller/api-auth/pkg/iam/rbac"
	"github.com/prapeller/api-auth/pkg/iam/store"
	"github.com/prapeller/api-auth/pkg/kernel"
)

type userRow struct {
	UUID         string    `db:"uuid"`
	Email        string    `db:"email"`
	Name         string    `db:"name"`
	PasswordHash string    `db:"password_hash"`
	IsActive     bool      `db:"is_active"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r userRow) toDomain() store.User {
	return store.User{
		UUID:         kernel.NewUserID(r.UUID),
		Email:        r.Email,
		Name:         r.Name,
		PasswordHash: r.PasswordHash,
		IsActive:     r.IsActive,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// CreateUser hashes nothing itself — the Auth Manager's Hasher produces
// in.Password already hashed via NewUserInput before this is called. The
// registered role is attached in the same call so Register's transaction
// covers both writes.
func (s *PostgresStore) CreateUser(ctx context.Context, in store.NewUserInput) (store.User, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return store.User{}, errx.Wrap(err, "failed to begin create-user transaction", errx.TypeInternal)
	}
	defer tx.Rollback()

	id := newUUID()
	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (uuid, email, name, password_hash, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, false, $5, $5)`,
		id, in.Email, in.Name, in.Password, now)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return store.User{}, store.ErrUserAlreadyExists().WithDetail("email", in.Email)
		}
		return store.User{}, errx.Wrap(err, "failed to insert user", errx.TypeInternal)
	}

	role, err := s.getOrCreateRoleByNameTx(ctx, tx, rbac.RoleRegistered)
	if err != nil {
		return store.User{}, err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO user_roles (user_uuid, role_uuid) VALUES ($1, $2)`, id, role.UUID); err != nil {
		return store.User{}, errx.Wrap(err, "failed to attach registered role", errx.TypeInternal)
	}

	if err := tx.Commit(); err != nil {
		return store.User{}, errx.Wrap(err, "failed to commit create-user transaction", errx.TypeInternal)
	}

	return store.User{
		UUID:         kernel.NewUserID(id),
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: in.Password,
		IsActive:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (s *PostgresStore) GetUserByUUID(ctx context.Context, id kernel.UserID) (store.User, error) {
	var row userRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM users WHERE uuid = $1`, id.String())
	if err != nil {
		if isNoRows(err) {
			return store.User{}, store.ErrUserNotFound().WithDetail("uuid", id.String())
		}
		return store.User{}, errx.Wrap(err, "failed to get user by uuid", errx.TypeInternal)
	}
	return row.toDomain(), nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (store.User, error) {
	var row userRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM users WHERE email = $1`, email)
	if err != nil {
		if isNoRows(err) {
			return store.User{}, store.ErrUserNotFound().WithDetail("email", email)
		}
		return store.User{}, errx.Wrap(err, "failed to get user by email", errx.TypeInternal)
	}
	return row.toDomain(), nil
}

func (s *PostgresStore) UpdateUser(ctx context.Context, user store.User) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE users SET email = $1, name = $2, password_hash = $3, is_active = $4, updated_at = $5
		WHERE uuid = $6`,
		user.Email, user.Name, user.PasswordHash, user.IsActive, time.Now().UTC(), user.UUID.String())
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return store.ErrUserAlreadyExists().WithDetail("email", user.Email)
		}
		return errx.Wrap(err, "failed to update user", errx.TypeInternal)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected", errx.TypeInternal)
	}
	if rows == 0 {
		return store.ErrUserNotFound().WithDetail("uuid", user.UUID.String())
	}
	return nil
}
