// Package store models the durable side of the auth engine: users, their
// roles and permissions, sessions, and linked social accounts. It is a
// capability set, not a framework-tied repository — see Store in port.go.
package store

import (
	"time"

	"github.com/prapeller/api-auth/pkg/iam/rbac"
	"github.com/prapeller/api-auth/pkg/kernel"
)

// User is an account, local or OAuth-linked. Users created through an OAuth
// login carry the hash of a random server-generated password.
type User struct {
	UUID         kernel.UserID `db:"uuid" json:"uuid"`
	Email        string        `db:"email" json:"email"`
	Name         string        `db:"name" json:"name"`
	PasswordHash string        `db:"password_hash" json:"-"`
	IsActive     bool          `db:"is_active" json:"is_active"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updated_at"`
}

// Role is one of the enumerated role names, many-to-many with User and
// Permission.
type Role struct {
	UUID string        `db:"uuid" json:"uuid"`
	Name rbac.RoleName `db:"name" json:"name"`
}

// Permission is one of the enumerated permission names.
type Permission struct {
	UUID string              `db:"uuid" json:"uuid"`
	Name rbac.PermissionName `db:"name" json:"name"`
}

// Session is a server-side record of a login, pinned to (user, useragent,
// ip). At most one is active per triple at any time; deactivation is
// monotone.
type Session struct {
	UUID      kernel.SessionID `db:"uuid" json:"uuid"`
	UserUUID  kernel.UserID    `db:"user_uuid" json:"user_uuid"`
	UserAgent string           `db:"useragent" json:"useragent"`
	IP        string           `db:"ip" json:"ip"`
	IsActive  bool             `db:"is_active" json:"is_active"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt time.Time        `db:"updated_at" json:"updated_at"`
}

// SocialAccount links a User to a provider identity. (UserUUID, SocialUUID)
// is unique.
type SocialAccount struct {
	UUID       string        `db:"uuid" json:"uuid"`
	UserUUID   kernel.UserID `db:"user_uuid" json:"user_uuid"`
	SocialName string        `db:"social_name" json:"social_name"`
	SocialUUID string        `db:"social_uuid" json:"social_uuid"`
	CreatedAt  time.Time     `db:"created_at" json:"created_at"`
}

// NewUserInput is what CreateUser consumes. Password is already hashed by
// the caller (the Auth Manager's Hasher) — CreateUser writes it as-is.
type NewUserInput struct {
	Email    string
	Name     string
	Password string
}

// SessionFilter narrows GetSession lookups. Zero fields are ignored.
type SessionFilter struct {
	UUID      kernel.SessionID
	UserUUID  kernel.UserID
	UserAgent string
	IP        string
	ActiveOnly bool
}

// SessionOrderBy mirrors the enumerated session listing order.
type SessionOrderBy string

const (
	OrderByCreatedAt SessionOrderBy = "created_at"
	OrderByUpdatedAt SessionOrderBy = "updated_at"
	OrderByUserAgent SessionOrderBy = "useragent"
	OrderByIP        SessionOrderBy = "ip"
)

type PaginationParams struct {
	OrderBy SessionOrderBy
	Desc    bool
	Offset  int
	Limit   int
}
