package storeinfra

import (
	"context"
	"time"

	"github.com/lib/pq"

	"github.com/prapeller/api-auth/pkg/errx"
	"github.com/prapeller/api-auth/pkg/iam/store"
	"github.com/prapeller/api-auth/pkg/kernel"
)

type socialAccountRow struct {
	UUID       string    `db:"uuid"`
	UserUUID   string    `db:"user_uuid"`
	SocialName string    `db:"social_name"`
	SocialUUID string    `db:"social_uuid"`
	CreatedAt  time.Time `db:"created_at"`
}

func (r socialAccountRow) toDomain() store.SocialAccount {
	return store.SocialAccount{
		UUID:       r.UUID,
		UserUUID:   kernel.NewUserID(r.UserUUID),
		SocialName: r.SocialName,
		SocialUUID: r.SocialUUID,
		CreatedAt:  r.CreatedAt,
	}
}

func (s *PostgresStore) GetSocialAccount(ctx context.Context, socialName, socialUUID string) (store.SocialAccount, error) {
	var row socialAccountRow
	err := s.db.GetContext(ctx, &row, `
		SELECT * FROM social_accounts WHERE social_name = $1 AND social_uuid = $2`,
		socialName, socialUUID)
	if err != nil {
		if isNoRows(err) {
			return store.SocialAccount{}, store.ErrSocialAccountNotFound()
		}
		return store.SocialAccount{}, errx.Wrap(err, "failed to get social account", errx.TypeInternal)
	}
	return row.toDomain(), nil
}

func (s *PostgresStore) CreateSocialAccount(ctx context.Context, sa store.SocialAccount) (store.SocialAccount, error) {
	id := newUUID()
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO social_accounts (uuid, user_uuid, social_name, social_uuid, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		id, sa.UserUUID.String(), sa.SocialName, sa.SocialUUID, now)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return store.SocialAccount{}, errx.Conflict("social account already linked").
				WithDetail("social_name", sa.SocialName).WithDetail("social_uuid", sa.SocialUUID)
		}
		return store.SocialAccount{}, errx.Wrap(err, "failed to create social account", errx.TypeInternal)
	}
	sa.UUID = id
	sa.CreatedAt = now
	return sa, nil
}
