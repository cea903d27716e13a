package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/prapeller/api-auth/pkg/errx"
	"github.com/prapeller/api-auth/pkg/iam/store"
	"github.com/prapeller/api-auth/pkg/kernel"
)

// Manager is the Auth Manager: the orchestration core composing the
// Hasher, Token Codec, Session Store, Refresh Cache, OAuth Client, and
// Notifications Client into the user-facing operations.
type Manager struct {
	store  store.Store
	codec  TokenCodec
	cache  RefreshCache
	hasher Hasher
	notify NotificationsClient
	audit  AuditService
	oauth  map[Provider]OAuthClient
	states StateManager

	accessTTL   time.Duration
	refreshTTL  time.Duration
	registerTTL time.Duration
}

type ManagerConfig struct {
	AccessTTL   time.Duration
	RefreshTTL  time.Duration
	RegisterTTL time.Duration
}

func NewManager(
	st store.Store,
	codec TokenCodec,
	cache RefreshCache,
	hasher Hasher,
	notify NotificationsClient,
	audit AuditService,
	oauthClients map[Provider]OAuthClient,
	states StateManager,
	cfg ManagerConfig,
) *Manager {
	return &Manager{
		store:       st,
		codec:       codec,
		cache:       cache,
		hasher:      hasher,
		notify:      notify,
		audit:       audit,
		oauth:       oauthClients,
		states:      states,
		accessTTL:   cfg.AccessTTL,
		refreshTTL:  cfg.RefreshTTL,
		registerTTL: cfg.RegisterTTL,
	}
}

// Register validates email uniqueness (via the Session Store's unique
// constraint), hashes the password, attaches the registered role, and
// triggers the Notifications Client's duplicate-user-probe and
// registration email. If either notifications call fails, Register returns
// ErrUserWasNotRegistered; the user row already written is not removed and
// stays inactive.
func (m *Manager) Register(ctx context.Context, in RegisterInput) (store.User, error) {
	hashed, err := m.hasher.Hash(in.Password)
	if err != nil {
		return store.User{}, ErrTokenGenerationFailed().WithDetail("stage", "hash_password")
	}

	user, err := m.store.CreateUser(ctx, store.NewUserInput{
		Email:    in.Email,
		Name:     in.Name,
		Password: hashed,
	})
	if err != nil {
		return store.User{}, err
	}

	if err := m.notify.NotifyDuplicateUser(ctx, user.Email); err != nil {
		return store.User{}, ErrUserWasNotRegistered().WithDetail("stage", "duplicate_probe")
	}

	registerToken, err := m.mintRegisterToken(user)
	if err != nil {
		return store.User{}, err
	}
	if err := m.notify.SendRegisterConfirmation(ctx, user.Email, registerToken); err != nil {
		return store.User{}, ErrUserWasNotRegistered().WithDetail("stage", "confirmation_email")
	}

	m.audit.LogAccountCreated(ctx, user.UUID, user.Email)
	return user, nil
}

func (m *Manager) mintRegisterToken(user store.User) (string, error) {
	claims := TokenClaims{
		Type:      TokenTypeRegister,
		Subject:   user.UUID,
		Email:     user.Email,
		JTI:       uuid.NewString(),
		ExpiresAt: time.Now().Add(m.registerTTL),
	}
	return m.codec.Encode(claims)
}

// Login authenticates by local credentials or, when provider != local,
// trusts an already-completed OAuth handshake that produced providerToken.
// It displaces any existing active session for the same (user, useragent,
// ip) before minting a fresh one.
func (m *Manager) Login(ctx context.Context, creds Credentials, rc kernel.RequestContext, provider Provider, providerToken string) (TokenPair, error) {
	user, err := m.store.GetUserByEmail(ctx, creds.Email)
	if err != nil {
		m.audit.LogLoginAttempt(ctx, creds.Email, false, provider)
		return TokenPair{}, ErrUnauthorized()
	}

	if provider == ProviderLocal {
		if !m.hasher.Verify(creds.Password, user.PasswordHash) {
			m.audit.LogLoginAttempt(ctx, creds.Email, false, provider)
			return TokenPair{}, ErrInvalidCredentials()
		}
	}

	if err := m.deactivateSessionFromRequest(ctx, user.UUID, rc); err != nil {
		return TokenPair{}, err
	}

	pair, err := m.createSession(ctx, user, rc, provider, providerToken)
	if err != nil {
		return TokenPair{}, err
	}

	m.audit.LogLoginAttempt(ctx, creds.Email, true, provider)
	return pair, nil
}

// deactivateSessionFromRequest scopes the lookup by (user_uuid, useragent,
// ip, is_active=true), fixing the source's cross-user bug where an
// unscoped lookup could deactivate another user's session sharing the same
// NAT and user agent.
func (m *Manager) deactivateSessionFromRequest(ctx context.Context, userID kernel.UserID, rc kernel.RequestContext) error {
	existing, err := m.store.GetSession(ctx, store.SessionFilter{
		UserUUID:   userID,
		UserAgent:  rc.UserAgent,
		IP:         rc.IP,
		ActiveOnly: true,
	})
	if err != nil {
		var xerr *errx.Error
		if errx.As(err, &xerr) && xerr.Type == errx.TypeNotFound {
			return nil // no active session to displace — not an error
		}
		return err
	}
	if err := m.store.DeactivateSession(ctx, existing.UUID); err != nil {
		return err
	}
	return m.cache.Delete(ctx, existing.UUID)
}

func (m *Manager) createSession(ctx context.Context, user store.User, rc kernel.RequestContext, provider Provider, providerToken string) (TokenPair, error) {
	sess, err := m.store.CreateSession(ctx, store.Session{
		UserUUID:  user.UUID,
		UserAgent: rc.UserAgent,
		IP:        rc.IP,
		IsActive:  true,
	})
	if err != nil {
		return TokenPair{}, err
	}

	perms, err := m.store.GetUserPermissionNames(ctx, user.UUID)
	if err != nil {
		return TokenPair{}, err
	}

	return m.mintPair(ctx, user, sess, rc, perms, provider, providerToken)
}

func (m *Manager) mintPair(ctx context.Context, user store.User, sess store.Session, rc kernel.RequestContext, perms []string, provider Provider, providerToken string) (TokenPair, error) {
	now := time.Now()
	access := TokenClaims{
		Type:        TokenTypeAccess,
		Subject:     user.UUID,
		Email:       user.Email,
		Permissions: perms,
		SessionUUID: sess.UUID,
		IP:          rc.IP,
		UserAgent:   rc.UserAgent,
		OAuthType:   provider,
		OAuthToken:  providerToken,
		JTI:         uuid.NewString(),
		ExpiresAt:   now.Add(m.accessTTL),
	}
	refresh := access
	refresh.Type = TokenTypeRefresh
	refresh.JTI = uuid.NewString()
	refresh.ExpiresAt = now.Add(m.refreshTTL)

	accessStr, err := m.codec.Encode(access)
	if err != nil {
		return TokenPair{}, ErrTokenGenerationFailed()
	}
	refreshStr, err := m.codec.Encode(refresh)
	if err != nil {
		return TokenPair{}, ErrTokenGenerationFailed()
	}

	if err := m.cache.Set(ctx, sess.UUID, refreshStr, m.refreshTTL); err != nil {
		return TokenPair{}, ErrTokenGenerationFailed().WithDetail("stage", "cache_set")
	}

	return TokenPair{AccessToken: accessStr, RefreshToken: refreshStr}, nil
}

// VerifyToken implements the five-step check in order: decode, OAuth
// revalidation for non-local tokens, context binding, cache liveness, and
// (for refresh tokens) byte-for-byte match against the cached value.
func (m *Manager) VerifyToken(ctx context.Context, tokenString string, rc kernel.RequestContext) (TokenClaims, error) {
	claims, err := m.codec.Decode(tokenString)
	if err != nil {
		return TokenClaims{}, ErrUnauthorized()
	}

	if claims.OAuthType != "" && claims.OAuthType != ProviderLocal {
		client, ok := m.oauth[claims.OAuthType]
		if !ok {
			return TokenClaims{}, ErrUnauthorized()
		}
		if _, err := client.FetchIdentity(ctx, claims.OAuthToken); err != nil {
			return TokenClaims{}, ErrUnauthorized()
		}
	}

	if claims.IP != rc.IP || claims.UserAgent != rc.UserAgent {
		return TokenClaims{}, ErrUnauthorized()
	}

	cached, ok, err := m.cache.Get(ctx, claims.SessionUUID)
	if err != nil || !ok {
		return TokenClaims{}, ErrUnauthorized()
	}

	if claims.Type == TokenTypeRefresh && cached != tokenString {
		return TokenClaims{}, ErrUnauthorized()
	}

	return claims, nil
}

// Refresh mints a fresh pair carrying the same session identity and
// overwrites the cached refresh token, invalidating the old one (rotation).
// Context verification is the caller's responsibility (VerifyToken), not
// repeated here.
func (m *Manager) Refresh(ctx context.Context, refreshTokenString string) (TokenPair, error) {
	claims, err := m.codec.Decode(refreshTokenString)
	if err != nil {
		return TokenPair{}, ErrUnauthorized()
	}

	user, err := m.store.GetUserByUUID(ctx, claims.Subject)
	if err != nil {
		return TokenPair{}, ErrUnauthorized()
	}

	sess := store.Session{UUID: claims.SessionUUID, UserUUID: claims.Subject}
	rc := kernel.RequestContext{IP: claims.IP, UserAgent: claims.UserAgent}

	pair, err := m.mintPair(ctx, user, sess, rc, claims.Permissions, claims.OAuthType, claims.OAuthToken)
	if err != nil {
		return TokenPair{}, err
	}

	m.audit.LogTokenRefresh(ctx, claims.SessionUUID)
	return pair, nil
}

// Logout deactivates the access token's session and removes its cache
// entry.
func (m *Manager) Logout(ctx context.Context, accessClaims TokenClaims) error {
	sess, err := m.store.GetSession(ctx, store.SessionFilter{UUID: accessClaims.SessionUUID})
	if err == nil && sess.IsActive {
		if err := m.store.DeactivateSession(ctx, sess.UUID); err != nil {
			return err
		}
	}
	if err := m.cache.Delete(ctx, accessClaims.SessionUUID); err != nil {
		return err
	}
	m.audit.LogLogout(ctx, accessClaims.Subject, accessClaims.SessionUUID, false)
	return nil
}

// LogoutAll deactivates every active session owned by the token's subject.
func (m *Manager) LogoutAll(ctx context.Context, accessClaims TokenClaims) error {
	sessions, err := m.store.GetActiveSessions(ctx, accessClaims.Subject)
	if err != nil {
		return err
	}
	for _, s := range sessions {
		if err := m.store.DeactivateSession(ctx, s.UUID); err != nil {
			return err
		}
		if err := m.cache.Delete(ctx, s.UUID); err != nil {
			return err
		}
	}
	m.audit.LogLogout(ctx, accessClaims.Subject, "", true)
	return nil
}

// ConfirmEmail activates the user if the register token hasn't expired;
// otherwise it re-issues a fresh register token and the duplicate-user
// probe, and fails with ErrRegisterTokenExpired.
func (m *Manager) ConfirmEmail(ctx context.Context, registerToken string) (store.User, error) {
	claims, err := m.codec.DecodeExpired(registerToken)
	if err != nil {
		// Signature/structure invalid — not merely expired. Terminal.
		return store.User{}, ErrUnauthorized()
	}

	user, err := m.store.GetUserByUUID(ctx, claims.Subject)
	if err != nil {
		return store.User{}, ErrUnauthorized()
	}

	if claims.ExpiresAt.After(time.Now()) {
		user.IsActive = true
		if err := m.store.UpdateUser(ctx, user); err != nil {
			return store.User{}, err
		}
		return user, nil
	}

	if err := m.notify.NotifyDuplicateUser(ctx, user.Email); err != nil {
		return store.User{}, ErrUserWasNotRegistered()
	}
	freshToken, err := m.mintRegisterToken(user)
	if err != nil {
		return store.User{}, err
	}
	if err := m.notify.SendRegisterConfirmation(ctx, user.Email, freshToken); err != nil {
		return store.User{}, ErrUserWasNotRegistered()
	}
	return store.User{}, ErrRegisterTokenExpired()
}

// UpdateCredentialsInput is the PUT /me/update-credentials request body.
type UpdateCredentialsInput struct {
	Email string
	Name  string
}

// UpdateCredentials changes the caller's email/name. Email uniqueness is
// enforced by the Session Store the same way CreateUser enforces it.
func (m *Manager) UpdateCredentials(ctx context.Context, userID kernel.UserID, in UpdateCredentialsInput) (store.User, error) {
	user, err := m.store.GetUserByUUID(ctx, userID)
	if err != nil {
		return store.User{}, err
	}
	if in.Email != "" {
		user.Email = in.Email
	}
	if in.Name != "" {
		user.Name = in.Name
	}
	if err := m.store.UpdateUser(ctx, user); err != nil {
		return store.User{}, err
	}
	return user, nil
}

// UpdatePassword verifies the caller's current password and writes the new
// hash. Per the source's behavior (§9 Open Questions), this does not
// invalidate existing sessions — LogoutAll remains the caller's explicit
// tool for that.
func (m *Manager) UpdatePassword(ctx context.Context, userID kernel.UserID, oldPassword, newPassword string) error {
	user, err := m.store.GetUserByUUID(ctx, userID)
	if err != nil {
		return err
	}
	if !m.hasher.Verify(oldPassword, user.PasswordHash) {
		return ErrInvalidCredentials()
	}
	hashed, err := m.hasher.Hash(newPassword)
	if err != nil {
		return ErrTokenGenerationFailed().WithDetail("stage", "hash_password")
	}
	user.PasswordHash = hashed
	return m.store.UpdateUser(ctx, user)
}

// InitiateOAuth mints a fresh per-flow anti-CSRF state and returns the
// provider's authorization URL carrying it.
func (m *Manager) InitiateOAuth(ctx context.Context, provider Provider) (string, error) {
	client, ok := m.oauth[provider]
	if !ok {
		return "", ErrInvalidOAuthProvider()
	}
	state, err := m.states.Generate(ctx)
	if err != nil {
		return "", ErrTokenGenerationFailed().WithDetail("stage", "oauth_state")
	}
	return client.AuthorizationURL(state), nil
}

// OAuthLogin verifies the returned state against the one this flow minted,
// then runs the provider handshake, upserts the SocialAccount and its
// owning User (an unseen social identity is linked to the existing user
// with the same email, or to a new user created with a server-generated
// password when no user has that email), then mints a pair via Login's
// session-creation path.
func (m *Manager) OAuthLogin(ctx context.Context, provider Provider, code, state string, rc kernel.RequestContext) (TokenPair, error) {
	client, ok := m.oauth[provider]
	if !ok {
		return TokenPair{}, ErrInvalidOAuthProvider()
	}

	valid, err := m.states.Verify(ctx, state)
	if err != nil || !valid {
		return TokenPair{}, ErrStateMismatch()
	}

	providerToken, err := client.ExchangeCode(ctx, code)
	if err != nil {
		return TokenPair{}, ErrOAuthExchangeFailed()
	}

	identity, err := client.FetchIdentity(ctx, providerToken)
	if err != nil {
		return TokenPair{}, ErrOAuthIdentityFailed()
	}

	social, err := m.store.GetSocialAccount(ctx, string(provider), identity.SocialUUID)
	var user store.User
	if err != nil {
		user, err = m.store.GetUserByEmail(ctx, identity.Email)
		if err != nil {
			hashed, err := m.hasher.Hash(uuid.NewString())
			if err != nil {
				return TokenPair{}, ErrTokenGenerationFailed().WithDetail("stage", "hash_password")
			}
			user, err = m.store.CreateUser(ctx, store.NewUserInput{
				Email:    identity.Email,
				Name:     identity.Name,
				Password: hashed,
			})
			if err != nil {
				return TokenPair{}, err
			}
			user.IsActive = true
			if err := m.store.UpdateUser(ctx, user); err != nil {
				return TokenPair{}, err
			}
		}
		if _, err := m.store.CreateSocialAccount(ctx, store.SocialAccount{
			UserUUID:   user.UUID,
			SocialName: string(provider),
			SocialUUID: identity.SocialUUID,
		}); err != nil {
			return TokenPair{}, err
		}
		m.audit.LogAccountLinked(ctx, user.UUID, provider)
	} else {
		user, err = m.store.GetUserByUUID(ctx, social.UserUUID)
		if err != nil {
			return TokenPair{}, err
		}
	}

	if err := m.deactivateSessionFromRequest(ctx, user.UUID, rc); err != nil {
		return TokenPair{}, err
	}
	return m.createSession(ctx, user, rc, provider, providerToken)
}
