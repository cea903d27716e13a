package store

import (
	"context"

	"github.com/prapeller/api-auth/pkg/iam/rbac"
	"github.com/prapeller/api-auth/pkg/kernel"
)

// Store is the Session Store's capability set, per the design note modeling
// it as plain records rather than a framework-tied repository.
// Implementations may be relational (storeinfra) or in-memory (tests).
type Store interface {
	// Users
	CreateUser(ctx context.Context, in NewUserInput) (User, error)
	GetUserByUUID(ctx context.Context, id kernel.UserID) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	UpdateUser(ctx context.Context, user User) error

	// Roles and permissions
	GetOrCreateRoleByName(ctx context.Context, name rbac.RoleName) (Role, error)
	AttachRole(ctx context.Context, userID kernel.UserID, roleUUID string) error
	GetUserPermissionNames(ctx context.Context, userID kernel.UserID) ([]string, error)
	GetUserRoleNames(ctx context.Context, userID kernel.UserID) ([]string, error)

	// Sessions
	CreateSession(ctx context.Context, s Session) (Session, error)
	GetSession(ctx context.Context, filter SessionFilter) (Session, error)
	GetAllSessions(ctx context.Context, userID kernel.UserID) ([]Session, error)
	GetActiveSessions(ctx context.Context, userID kernel.UserID) ([]Session, error)
	ListActiveSessions(ctx context.Context) ([]Session, error)
	DeactivateSession(ctx context.Context, id kernel.SessionID) error
	GetPaginatedSessions(ctx context.Context, userID kernel.UserID, p PaginationParams) (kernel.Paginated[Session], error)

	// Social accounts
	GetSocialAccount(ctx context.Context, socialName, socialUUID string) (SocialAccount, error)
	CreateSocialAccount(ctx context.Context, sa SocialAccount) (SocialAccount, error)
}
