// Package storeinfra implements store.Store over Postgres, via sqlx and
// lib/pq, the way apikeyinfra and invitationinfra implement their
// repositories over the same database.
package storeinfra

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// PostgresStore is the relational implementation of store.Store.
type PostgresStore struct {
	db *sqlx.DB
}

func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func newUUID() string { return uuid.NewString() }

func isNoRows(err error) bool { return err == sql.ErrNoRows }
