package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/prapeller/api-auth/pkg/errx"
	"github.com/prapeller/api-auth/pkg/iam/auth"
	"github.com/prapeller/api-auth/pkg/iam/rbac"
	"github.com/prapeller/api-auth/pkg/iam/store"
	"github.com/prapeller/api-auth/pkg/kernel"
)

// ─── fakes ──────────────────────────────────────────────────────────────────

type fakeStore struct {
	mu       sync.Mutex
	users    map[string]store.User // by email
	sessions map[string]store.Session
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    map[string]store.User{},
		sessions: map[string]store.Session{},
	}
}

func (s *fakeStore) CreateUser(ctx context.Context, in store.NewUserInput) (store.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[in.Email]; ok {
		return store.User{}, store.ErrUserAlreadyExists()
	}
	u := store.User{
		UUID:         kernel.NewUserID(uuid.NewString()),
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: in.Password,
		IsActive:     false,
		CreatedAt:    time.Now(),
	}
	s.users[in.Email] = u
	return u, nil
}

func (s *fakeStore) GetUserByUUID(ctx context.Context, id kernel.UserID) (store.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.UUID == id {
			return u, nil
		}
	}
	return store.User{}, store.ErrUserNotFound()
}

func (s *fakeStore) GetUserByEmail(ctx context.Context, email string) (store.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok {
		return store.User{}, store.ErrUserNotFound()
	}
	return u, nil
}

func (s *fakeStore) UpdateUser(ctx context.Context, user store.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.Email] = user
	return nil
}

func (s *fakeStore) GetOrCreateRoleByName(ctx context.Context, name rbac.RoleName) (store.Role, error) {
	return store.Role{UUID: string(name), Name: name}, nil
}

func (s *fakeStore) AttachRole(ctx context.Context, userID kernel.UserID, roleUUID string) error {
	return nil
}

func (s *fakeStore) GetUserPermissionNames(ctx context.Context, userID kernel.UserID) ([]string, error) {
	names := make([]string, 0, len(rbac.DefaultRolePermissions[rbac.RoleRegistered]))
	for _, p := range rbac.DefaultRolePermissions[rbac.RoleRegistered] {
		names = append(names, string(p))
	}
	return names, nil
}

func (s *fakeStore) GetUserRoleNames(ctx context.Context, userID kernel.UserID) ([]string, error) {
	return []string{string(rbac.RoleRegistered)}, nil
}

func (s *fakeStore) CreateSession(ctx context.Context, sess store.Session) (store.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.UUID = kernel.NewSessionID(uuid.NewString())
	sess.CreatedAt = time.Now()
	s.sessions[sess.UUID.String()] = sess
	return sess, nil
}

func (s *fakeStore) GetSession(ctx context.Context, filter store.SessionFilter) (store.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !filter.UUID.IsEmpty() {
		sess, ok := s.sessions[filter.UUID.String()]
		if !ok {
			return store.Session{}, store.ErrSessionNotFound()
		}
		return sess, nil
	}
	for _, sess := range s.sessions {
		if sess.UserUUID != filter.UserUUID {
			continue
		}
		if filter.UserAgent != "" && sess.UserAgent != filter.UserAgent {
			continue
		}
		if filter.IP != "" && sess.IP != filter.IP {
			continue
		}
		if filter.ActiveOnly && !sess.IsActive {
			continue
		}
		return sess, nil
	}
	return store.Session{}, store.ErrSessionNotFound()
}

func (s *fakeStore) GetAllSessions(ctx context.Context, userID kernel.UserID) ([]store.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []store.Session
	for _, sess := range s.sessions {
		if sess.UserUUID == userID {
			out = append(out, sess)
		}
	}
	return out, nil
}

func (s *fakeStore) GetActiveSessions(ctx context.Context, userID kernel.UserID) ([]store.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []store.Session
	for _, sess := range s.sessions {
		if sess.UserUUID == userID && sess.IsActive {
			out = append(out, sess)
		}
	}
	return out, nil
}

func (s *fakeStore) ListActiveSessions(ctx context.Context) ([]store.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []store.Session
	for _, sess := range s.sessions {
		if sess.IsActive {
			out = append(out, sess)
		}
	}
	return out, nil
}

func (s *fakeStore) DeactivateSession(ctx context.Context, id kernel.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id.String()]
	if !ok {
		return store.ErrSessionNotFound()
	}
	sess.IsActive = false
	s.sessions[id.String()] = sess
	return nil
}

func (s *fakeStore) GetPaginatedSessions(ctx context.Context, userID kernel.UserID, p store.PaginationParams) (kernel.Paginated[store.Session], error) {
	all, err := s.GetAllSessions(ctx, userID)
	if err != nil {
		return kernel.Paginated[store.Session]{}, err
	}
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}
	page := p.Offset/limit + 1
	return kernel.NewPaginated(all, page, limit, len(all)), nil
}

func (s *fakeStore) GetSocialAccount(ctx context.Context, socialName, socialUUID string) (store.SocialAccount, error) {
	return store.SocialAccount{}, store.ErrSocialAccountNotFound()
}

func (s *fakeStore) CreateSocialAccount(ctx context.Context, sa store.SocialAccount) (store.SocialAccount, error) {
	return sa, nil
}

type fakeCodec struct{}

func (fakeCodec) Encode(claims auth.TokenClaims) (string, error) {
	// Encodes as a stable opaque string keyed by JTI so Decode can look it
	// up; good enough to exercise the Manager without a real JWT library.
	encoded.mu.Lock()
	defer encoded.mu.Unlock()
	encoded.m[claims.JTI] = claims
	return claims.JTI, nil
}

func (fakeCodec) Decode(token string) (auth.TokenClaims, error) {
	encoded.mu.Lock()
	defer encoded.mu.Unlock()
	c, ok := encoded.m[token]
	if !ok {
		return auth.TokenClaims{}, auth.ErrUnauthorized()
	}
	if c.ExpiresAt.Before(time.Now()) {
		return auth.TokenClaims{}, auth.ErrUnauthorized()
	}
	return c, nil
}

func (fakeCodec) DecodeExpired(token string) (auth.TokenClaims, error) {
	encoded.mu.Lock()
	defer encoded.mu.Unlock()
	c, ok := encoded.m[token]
	if !ok {
		return auth.TokenClaims{}, auth.ErrUnauthorized()
	}
	return c, nil
}

// encoded backs fakeCodec; a package-level table keyed by JTI stands in for
// a real signature, since the Manager only ever round-trips what it itself
// encoded.
var encoded = struct {
	mu sync.Mutex
	m  map[string]auth.TokenClaims
}{m: map[string]auth.TokenClaims{}}

type fakeCache struct {
	mu sync.Mutex
	m  map[string]string
}

func newFakeCache() *fakeCache { return &fakeCache{m: map[string]string{}} }

func (c *fakeCache) Set(ctx context.Context, sessionUUID kernel.SessionID, refreshToken string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[sessionUUID.String()] = refreshToken
	return nil
}

func (c *fakeCache) Get(ctx context.Context, sessionUUID kernel.SessionID) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.m[sessionUUID.String()]
	return v, ok, nil
}

func (c *fakeCache) Delete(ctx context.Context, sessionUUID kernel.SessionID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, sessionUUID.String())
	return nil
}

// plaintextHasher avoids paying bcrypt's cost in unit tests while still
// exercising the Manager's hash/verify call sites.
type plaintextHasher struct{}

func (plaintextHasher) Hash(plaintext string) (string, error) { return "hashed:" + plaintext, nil }
func (plaintextHasher) Verify(plaintext, hash string) bool     { return "hashed:"+plaintext == hash }

type fakeNotify struct {
	failDuplicate bool
	failConfirm   bool
}

func (f *fakeNotify) NotifyDuplicateUser(ctx context.Context, email string) error {
	if f.failDuplicate {
		return errx.Internal("boom")
	}
	return nil
}

func (f *fakeNotify) SendRegisterConfirmation(ctx context.Context, email, registerToken string) error {
	if f.failConfirm {
		return errx.Internal("boom")
	}
	return nil
}

type fakeAudit struct{}

func (fakeAudit) LogLoginAttempt(ctx context.Context, email string, success bool, provider auth.Provider) {
}
func (fakeAudit) LogLogout(ctx context.Context, userID kernel.UserID, sessionUUID kernel.SessionID, all bool) {
}
func (fakeAudit) LogTokenRefresh(ctx context.Context, sessionUUID kernel.SessionID) {}
func (fakeAudit) LogAccountCreated(ctx context.Context, userID kernel.UserID, email string) {
}
func (fakeAudit) LogAccountLinked(ctx context.Context, userID kernel.UserID, provider auth.Provider) {
}

// ─── harness ────────────────────────────────────────────────────────────────

func newManager(t *testing.T) (*auth.Manager, *fakeStore, *fakeCache, *fakeNotify) {
	t.Helper()
	encoded.mu.Lock()
	encoded.m = map[string]auth.TokenClaims{}
	encoded.mu.Unlock()

	st := newFakeStore()
	cache := newFakeCache()
	notify := &fakeNotify{}
	mgr := auth.NewManager(
		st, fakeCodec{}, cache, plaintextHasher{}, notify, fakeAudit{},
		map[auth.Provider]auth.OAuthClient{}, nil,
		auth.ManagerConfig{
			AccessTTL:   15 * time.Minute,
			RefreshTTL:  30 * 24 * time.Hour,
			RegisterTTL: 3 * time.Hour,
		},
	)
	return mgr, st, cache, notify
}

// ─── tests ──────────────────────────────────────────────────────────────────

func TestRegister(t *testing.T) {
	mgr, _, _, _ := newManager(t)
	ctx := context.Background()

	user, err := mgr.Register(ctx, auth.RegisterInput{Email: "a@example.com", Name: "A", Password: "s3cret"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Email != "a@example.com" {
		t.Fatalf("got email %q", user.Email)
	}
	if user.PasswordHash != "hashed:s3cret" {
		t.Fatalf("password was not hashed: %q", user.PasswordHash)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	mgr, _, _, _ := newManager(t)
	ctx := context.Background()

	if _, err := mgr.Register(ctx, auth.RegisterInput{Email: "a@example.com", Password: "x"}); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	_, err := mgr.Register(ctx, auth.RegisterInput{Email: "a@example.com", Password: "y"})
	if err == nil {
		t.Fatal("expected duplicate-email error, got nil")
	}
	var xerr *errx.Error
	if !errx.As(err, &xerr) || xerr.Type != errx.TypeConflict {
		t.Fatalf("expected a conflict error, got %v", err)
	}
}

func TestRegisterNotificationFailureRollsBack(t *testing.T) {
	mgr, _, _, notify := newManager(t)
	notify.failDuplicate = true
	ctx := context.Background()

	_, err := mgr.Register(ctx, auth.RegisterInput{Email: "a@example.com", Password: "x"})
	if err == nil {
		t.Fatal("expected error when duplicate-probe notification fails")
	}
}

func TestLoginSuccess(t *testing.T) {
	mgr, _, _, _ := newManager(t)
	ctx := context.Background()

	if _, err := mgr.Register(ctx, auth.RegisterInput{Email: "a@example.com", Password: "s3cret"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	rc := kernel.RequestContext{IP: "1.2.3.4", UserAgent: "agent"}
	pair, err := mgr.Login(ctx, auth.Credentials{Email: "a@example.com", Password: "s3cret"}, rc, auth.ProviderLocal, "")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected non-empty token pair")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	mgr, _, _, _ := newManager(t)
	ctx := context.Background()

	if _, err := mgr.Register(ctx, auth.RegisterInput{Email: "a@example.com", Password: "s3cret"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	rc := kernel.RequestContext{IP: "1.2.3.4", UserAgent: "agent"}
	_, err := mgr.Login(ctx, auth.Credentials{Email: "a@example.com", Password: "wrong"}, rc, auth.ProviderLocal, "")
	if err == nil {
		t.Fatal("expected error for wrong password")
	}
}

func TestLoginDisplacesExistingSession(t *testing.T) {
	mgr, st, cache, _ := newManager(t)
	ctx := context.Background()

	if _, err := mgr.Register(ctx, auth.RegisterInput{Email: "a@example.com", Password: "s3cret"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	rc := kernel.RequestContext{IP: "1.2.3.4", UserAgent: "agent"}

	first, err := mgr.Login(ctx, auth.Credentials{Email: "a@example.com", Password: "s3cret"}, rc, auth.ProviderLocal, "")
	if err != nil {
		t.Fatalf("first Login: %v", err)
	}
	firstClaims := encoded.m[first.AccessToken]

	if _, err := mgr.Login(ctx, auth.Credentials{Email: "a@example.com", Password: "s3cret"}, rc, auth.ProviderLocal, ""); err != nil {
		t.Fatalf("second Login: %v", err)
	}

	old, ok := st.sessions[firstClaims.SessionUUID.String()]
	if !ok {
		t.Fatal("first session vanished")
	}
	if old.IsActive {
		t.Fatal("expected the first session to be deactivated on re-login")
	}
	if _, ok, _ := cache.Get(ctx, firstClaims.SessionUUID); ok {
		t.Fatal("expected the first session's cache entry to be removed")
	}
}

func TestVerifyTokenRejectsContextMismatch(t *testing.T) {
	mgr, _, _, _ := newManager(t)
	ctx := context.Background()

	if _, err := mgr.Register(ctx, auth.RegisterInput{Email: "a@example.com", Password: "s3cret"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	rc := kernel.RequestContext{IP: "1.2.3.4", UserAgent: "agent"}
	pair, err := mgr.Login(ctx, auth.Credentials{Email: "a@example.com", Password: "s3cret"}, rc, auth.ProviderLocal, "")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if _, err := mgr.VerifyToken(ctx, pair.AccessToken, rc); err != nil {
		t.Fatalf("VerifyToken with matching context: %v", err)
	}

	otherRC := kernel.RequestContext{IP: "9.9.9.9", UserAgent: "agent"}
	if _, err := mgr.VerifyToken(ctx, pair.AccessToken, otherRC); err == nil {
		t.Fatal("expected VerifyToken to reject a mismatched IP")
	}
}

func TestVerifyTokenRejectsStaleRefreshAfterRotation(t *testing.T) {
	mgr, _, _, _ := newManager(t)
	ctx := context.Background()

	if _, err := mgr.Register(ctx, auth.RegisterInput{Email: "a@example.com", Password: "s3cret"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	rc := kernel.RequestContext{IP: "1.2.3.4", UserAgent: "agent"}
	pair, err := mgr.Login(ctx, auth.Credentials{Email: "a@example.com", Password: "s3cret"}, rc, auth.ProviderLocal, "")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if _, err := mgr.Refresh(ctx, pair.RefreshToken); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	// The pre-rotation refresh token no longer matches the cache's current
	// value, so it must be rejected even though it has not expired.
	if _, err := mgr.VerifyToken(ctx, pair.RefreshToken, rc); err == nil {
		t.Fatal("expected VerifyToken to reject the superseded refresh token")
	}
}

func TestLogoutRemovesCacheEntry(t *testing.T) {
	mgr, _, cache, _ := newManager(t)
	ctx := context.Background()

	if _, err := mgr.Register(ctx, auth.RegisterInput{Email: "a@example.com", Password: "s3cret"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	rc := kernel.RequestContext{IP: "1.2.3.4", UserAgent: "agent"}
	pair, err := mgr.Login(ctx, auth.Credentials{Email: "a@example.com", Password: "s3cret"}, rc, auth.ProviderLocal, "")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims := encoded.m[pair.AccessToken]

	if err := mgr.Logout(ctx, claims); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, ok, _ := cache.Get(ctx, claims.SessionUUID); ok {
		t.Fatal("expected cache entry to be removed after Logout")
	}
}

func TestLogoutAllDeactivatesEverySession(t *testing.T) {
	mgr, st, _, _ := newManager(t)
	ctx := context.Background()

	if _, err := mgr.Register(ctx, auth.RegisterInput{Email: "a@example.com", Password: "s3cret"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	var lastClaims auth.TokenClaims
	for i := 0; i < 3; i++ {
		rc := kernel.RequestContext{IP: "1.2.3.4", UserAgent: "agent"}
		pair, err := mgr.Login(ctx, auth.Credentials{Email: "a@example.com", Password: "s3cret"}, rc, auth.ProviderLocal, "")
		if err != nil {
			t.Fatalf("Login #%d: %v", i, err)
		}
		lastClaims = encoded.m[pair.AccessToken]
	}

	if err := mgr.LogoutAll(ctx, lastClaims); err != nil {
		t.Fatalf("LogoutAll: %v", err)
	}
	for _, sess := range st.sessions {
		if sess.IsActive {
			t.Fatalf("expected every session to be deactivated, found active %s", sess.UUID)
		}
	}
}

func TestUpdatePasswordRequiresOldPassword(t *testing.T) {
	mgr, _, _, _ := newManager(t)
	ctx := context.Background()

	user, err := mgr.Register(ctx, auth.RegisterInput{Email: "a@example.com", Password: "s3cret"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := mgr.UpdatePassword(ctx, user.UUID, "wrong", "newpass"); err == nil {
		t.Fatal("expected error for wrong old password")
	}
	if err := mgr.UpdatePassword(ctx, user.UUID, "s3cret", "newpass"); err != nil {
		t.Fatalf("UpdatePassword: %v", err)
	}

	rc := kernel.RequestContext{IP: "1.2.3.4", UserAgent: "agent"}
	if _, err := mgr.Login(ctx, auth.Credentials{Email: "a@example.com", Password: "newpass"}, rc, auth.ProviderLocal, ""); err != nil {
		t.Fatalf("Login with new password: %v", err)
	}
}

func TestUpdateCredentials(t *testing.T) {
	mgr, _, _, _ := newManager(t)
	ctx := context.Background()

	user, err := mgr.Register(ctx, auth.RegisterInput{Email: "a@example.com", Name: "A", Password: "s3cret"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	updated, err := mgr.UpdateCredentials(ctx, user.UUID, auth.UpdateCredentialsInput{Name: "New Name"})
	if err != nil {
		t.Fatalf("UpdateCredentials: %v", err)
	}
	if updated.Name != "New Name" {
		t.Fatalf("got name %q", updated.Name)
	}
	if updated.Email != "a@example.com" {
		t.Fatalf("email should be unchanged, got %q", updated.Email)
	}
}
