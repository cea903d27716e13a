package storeinfra

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/prapeller/api-auth/pkg/errx"
	"github.com/prapeller/api-auth/pkg/iam/rbac"
	"github.com/prapeller/api-auth/pkg/iam/store"
	"github.com/prapeller/api-auth/pkg/kernel"
)

type roleRow struct {
	UUID string `db:"uuid"`
	Name string `db:"name"`
}

func (r roleRow) toDomain() store.Role {
	return store.Role{UUID: r.UUID, Name: rbac.RoleName(r.Name)}
}

// GetOrCreateRoleByName mirrors the original repository's get_or_create_by_name
// operation: idempotently materializes a role row, seeding its permission set
// from rbac.DefaultRolePermissions the first time it is created.
func (s *PostgresStore) GetOrCreateRoleByName(ctx context.Context, name rbac.RoleName) (store.Role, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return store.Role{}, errx.Wrap(err, "failed to begin get-or-create-role transaction", errx.TypeInternal)
	}
	defer tx.Rollback()

	role, err := s.getOrCreateRoleByNameTx(ctx, tx, name)
	if err != nil {
		return store.Role{}, err
	}
	if err := tx.Commit(); err != nil {
		return store.Role{}, errx.Wrap(err, "failed to commit get-or-create-role transaction", errx.TypeInternal)
	}
	return role, nil
}

func (s *PostgresStore) getOrCreateRoleByNameTx(ctx context.Context, tx *sqlx.Tx, name rbac.RoleName) (store.Role, error) {
	var row roleRow
	err := tx.GetContext(ctx, &row, `SELECT uuid, name FROM roles WHERE name = $1`, string(name))
	if err == nil {
		return row.toDomain(), nil
	}
	if !isNoRows(err) {
		return store.Role{}, errx.Wrap(err, "failed to look up role", errx.TypeInternal)
	}

	id := newUUID()
	if _, err := tx.ExecContext(ctx, `INSERT INTO roles (uuid, name) VALUES ($1, $2)`, id, string(name)); err != nil {
		return store.Role{}, errx.Wrap(err, "failed to create role", errx.TypeInternal)
	}

	for _, permName := range rbac.DefaultRolePermissions[name] {
		permUUID, err := s.getOrCreatePermissionByNameTx(ctx, tx, permName)
		if err != nil {
			return store.Role{}, err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO role_permissions (role_uuid, permission_uuid) VALUES ($1, $2)`,
			id, permUUID); err != nil {
			return store.Role{}, errx.Wrap(err, "failed to attach permission to role", errx.TypeInternal)
		}
	}

	return store.Role{UUID: id, Name: name}, nil
}

func (s *PostgresStore) getOrCreatePermissionByNameTx(ctx context.Context, tx *sqlx.Tx, name rbac.PermissionName) (string, error) {
	var permUUID string
	err := tx.GetContext(ctx, &permUUID, `SELECT uuid FROM permissions WHERE name = $1`, string(name))
	if err == nil {
		return permUUID, nil
	}
	if !isNoRows(err) {
		return "", errx.Wrap(err, "failed to look up permission", errx.TypeInternal)
	}
	id := newUUID()
	if _, err := tx.ExecContext(ctx, `INSERT INTO permissions (uuid, name) VALUES ($1, $2)`, id, string(name)); err != nil {
		return "", errx.Wrap(err, "failed to create permission", errx.TypeInternal)
	}
	return id, nil
}

func (s *PostgresStore) AttachRole(ctx context.Context, userID kernel.UserID, roleUUID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_roles (user_uuid, role_uuid) VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, userID.String(), roleUUID)
	if err != nil {
		return errx.Wrap(err, "failed to attach role to user", errx.TypeInternal)
	}
	return nil
}

// GetUserPermissionNames derives the distinct union of permission names over
// a user's roles, per the permission-derivation invariant (P6).
func (s *PostgresStore) GetUserPermissionNames(ctx context.Context, userID kernel.UserID) ([]string, error) {
	var names []string
	err := s.db.SelectContext(ctx, &names, `
		SELECT DISTINCT p.name
		FROM permissions p
		JOIN role_permissions rp ON rp.permission_uuid = p.uuid
		JOIN user_roles ur ON ur.role_uuid = rp.role_uuid
		WHERE ur.user_uuid = $1`, userID.String())
	if err != nil {
		return nil, errx.Wrap(err, "failed to derive user permission names", errx.TypeInternal)
	}
	return names, nil
}

func (s *PostgresStore) GetUserRoleNames(ctx context.Context, userID kernel.UserID) ([]string, error) {
	var names []string
	err := s.db.SelectContext(ctx, &names, `
		SELECT r.name FROM roles r
		JOIN user_roles ur ON ur.role_uuid = r.uuid
		WHERE ur.user_uuid = $1`, userID.String())
	if err != nil {
		return nil, errx.Wrap(err, "failed to list user role names", errx.TypeInternal)
	}
	return names, nil
}
