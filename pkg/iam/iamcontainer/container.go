// Package iamcontainer wires the auth/session engine's dependency graph —
// infra → store → collaborators → manager → HTTP handlers/middleware — the
// way the teacher's iamcontainer composes its own bounded context.
package iamcontainer

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/prapeller/api-auth/pkg/config"
	"github.com/prapeller/api-auth/pkg/iam/auth"
	"github.com/prapeller/api-auth/pkg/iam/auth/authapi"
	"github.com/prapeller/api-auth/pkg/iam/auth/authinfra"
	"github.com/prapeller/api-auth/pkg/iam/notify"
	"github.com/prapeller/api-auth/pkg/iam/oauth"
	"github.com/prapeller/api-auth/pkg/iam/oauth/oauthinfra"
	"github.com/prapeller/api-auth/pkg/iam/store"
	"github.com/prapeller/api-auth/pkg/iam/storeinfra"
	"github.com/prapeller/api-auth/pkg/logx"
)

// Deps are the explicit external dependencies this bounded context
// requires — no hidden globals, no ambient state.
type Deps struct {
	DB    *sqlx.DB
	Redis *redis.Client
	Cfg   *config.Config
}

// Container is the public surface of the IAM module: what cmd/server needs
// to register routes and start background work.
type Container struct {
	Store   store.Store
	Manager *auth.Manager

	Handlers   *authapi.Handlers
	Middleware *authapi.Middleware

	Reconciler *authinfra.SessionReconciler
}

// New constructs the entire IAM dependency graph. Order matters: infra →
// store → collaborators → manager → handlers → middleware.
func New(deps Deps) *Container {
	logx.Info("initializing IAM container")

	c := &Container{}

	// ── Session Store ────────────────────────────────────────────────────
	st := storeinfra.NewPostgresStore(deps.DB)
	c.Store = st

	// ── Collaborators ────────────────────────────────────────────────────
	codec := authinfra.NewJWTCodec(deps.Cfg.JWT.Secret, deps.Cfg.JWT.Issuer)
	cache := authinfra.NewRedisRefreshCache(deps.Redis)
	hasher := authinfra.NewBcryptHasher()
	auditor := authinfra.NewLogxAuditService()
	states := oauthinfra.NewRedisStateManager(deps.Redis, deps.Cfg.OAuth.StateTTL)

	notifier := notify.NewHTTPClient(
		deps.Cfg.Notify.BaseURL(),
		deps.Cfg.Notify.Secret,
		deps.Cfg.Notify.ServiceName,
		deps.Cfg.Notify.Timeout,
	)

	oauthClients := map[auth.Provider]auth.OAuthClient{}
	if deps.Cfg.OAuth.GoogleClientID != "" {
		oauthClients[auth.ProviderGoogle] = oauth.NewGoogleClient(
			deps.Cfg.OAuth.GoogleClientID,
			deps.Cfg.OAuth.GoogleClientSecret,
			deps.Cfg.OAuth.RedirectURI("google"),
		)
		logx.Info("  google OAuth enabled")
	}
	if deps.Cfg.OAuth.YandexClientID != "" {
		oauthClients[auth.ProviderYandex] = oauth.NewYandexClient(
			deps.Cfg.OAuth.YandexClientID,
			deps.Cfg.OAuth.YandexClientSecret,
			deps.Cfg.OAuth.RedirectURI("yandex"),
		)
		logx.Info("  yandex OAuth enabled")
	}

	// ── Auth Manager ─────────────────────────────────────────────────────
	c.Manager = auth.NewManager(st, codec, cache, hasher, notifier, auditor, oauthClients, states, auth.ManagerConfig{
		AccessTTL:   deps.Cfg.JWT.AccessTokenTTL,
		RefreshTTL:  deps.Cfg.JWT.RefreshTokenTTL,
		RegisterTTL: deps.Cfg.JWT.RegisterTTL,
	})

	// ── HTTP edge ────────────────────────────────────────────────────────
	c.Handlers = authapi.NewHandlers(c.Manager, st)
	c.Middleware = authapi.NewMiddleware(c.Manager)

	// ── Background services ──────────────────────────────────────────────
	c.Reconciler = authinfra.NewSessionReconciler(st, cache)

	logx.Info("IAM container initialized")
	return c
}

// StartBackgroundServices starts IAM-specific background workers.
func (c *Container) StartBackgroundServices(ctx context.Context) {
	go c.Reconciler.Run(ctx, 5*time.Minute)
	logx.Info("  session reconciler started")
}
