package auth

import (
	"context"
	"time"

	"github.com/prapeller/api-auth/pkg/kernel"
)

// TokenCodec signs and verifies TokenClaims as a compact self-describing
// string. Decode's three internal failure modes (expired, bad signature,
// malformed) are never distinguished outside this package — callers only
// ever see ErrUnauthorized.
type TokenCodec interface {
	Encode(claims TokenClaims) (string, error)
	Decode(token string) (TokenClaims, error)

	// DecodeExpired parses a token the same way as Decode but tolerates
	// exp <= now; signature and structure are still verified. Only
	// ConfirmEmail uses this, to distinguish "expired register token,
	// re-issue" from "tampered register token, reject outright" — every
	// other caller MUST use Decode.
	DecodeExpired(token string) (TokenClaims, error)
}

// RefreshCache stores exactly one live refresh-token string per session. A
// read error is treated as absence (fail-closed); a write error is logged
// and swallowed as a no-op, per the design note on cache-error handling.
type RefreshCache interface {
	Set(ctx context.Context, sessionUUID kernel.SessionID, refreshToken string, ttl time.Duration) error
	Get(ctx context.Context, sessionUUID kernel.SessionID) (string, bool, error)
	Delete(ctx context.Context, sessionUUID kernel.SessionID) error
}

// Hasher is the abstract one-way password function + verifier.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// OAuthIdentity is what the OAuth Client normalizes a provider's userinfo
// response to.
type OAuthIdentity struct {
	SocialUUID string
	Email      string
	Name       string
}

// OAuthClient implements the authorization-code flow against a single
// provider.
type OAuthClient interface {
	Provider() Provider
	AuthorizationURL(state string) string
	ExchangeCode(ctx context.Context, code string) (providerToken string, err error)
	FetchIdentity(ctx context.Context, providerToken string) (OAuthIdentity, error)
}

// StateManager is the anti-CSRF challenge store for the OAuth handshake.
// Generate mints a fresh random state value and stores it under its own key,
// so every concurrent flow gets an independent challenge — never a single
// process-global variable shared across requests, which is the bug this
// fixes. Verify is single-use: a state value that already matched cannot be
// replayed.
type StateManager interface {
	Generate(ctx context.Context) (state string, err error)
	Verify(ctx context.Context, state string) (bool, error)
}

// NotificationsClient is the service-to-service HTTP caller for the
// registration email handshake.
type NotificationsClient interface {
	NotifyDuplicateUser(ctx context.Context, email string) error
	SendRegisterConfirmation(ctx context.Context, email, registerToken string) error
}

// AuditService records observable auth events; the concrete sink is
// swappable (structured logs, a metrics counter, …).
type AuditService interface {
	LogLoginAttempt(ctx context.Context, email string, success bool, provider Provider)
	LogLogout(ctx context.Context, userID kernel.UserID, sessionUUID kernel.SessionID, all bool)
	LogTokenRefresh(ctx context.Context, sessionUUID kernel.SessionID)
	LogAccountCreated(ctx context.Context, userID kernel.UserID, email string)
	LogAccountLinked(ctx context.Context, userID kernel.UserID, provider Provider)
}
