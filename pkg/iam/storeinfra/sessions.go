package storeinfra

import (
	"context"
	"fmt"
	"time"

	"github.com/prapeller/api-auth/pkg/errx"
	"github.com/prapeller/api-auth/pkg/iam/store"
	"github.com/prapeller/api-auth/pkg/kernel"
)

type sessionRow struct {
	UUID      string    `db:"uuid"`
	UserUUID  string    `db:"user_uuid"`
	UserAgent string    `db:"useragent"`
	IP        string    `db:"ip"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r sessionRow) toDomain() store.Session {
	return store.Session{
		UUID:      kernel.NewSessionID(r.UUID),
		UserUUID:  kernel.NewUserID(r.UserUUID),
		UserAgent: r.UserAgent,
		IP:        r.IP,
		IsActive:  r.IsActive,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (s *PostgresStore) CreateSession(ctx context.Context, sess store.Session) (store.Session, error) {
	id := sess.UUID.String()
	if id == "" {
		id = newUUID()
	}
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (uuid, user_uuid, useragent, ip, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)`,
		id, sess.UserUUID.String(), sess.UserAgent, sess.IP, sess.IsActive, now)
	if err != nil {
		return store.Session{}, errx.Wrap(err, "failed to create session", errx.TypeInternal)
	}
	sess.UUID = kernel.NewSessionID(id)
	sess.CreatedAt, sess.UpdatedAt = now, now
	return sess, nil
}

// GetSession looks up a single session by the given filter. Per the
// session-from-request design note, callers that intend to scope a
// deactivation to one user's own session MUST set UserUUID — an unscoped
// lookup by (useragent, ip) alone can match another user's row sharing the
// same NAT and user agent.
func (s *PostgresStore) GetSession(ctx context.Context, filter store.SessionFilter) (store.Session, error) {
	query := `SELECT * FROM sessions WHERE 1=1`
	args := []interface{}{}
	argN := 1

	add := func(clause string, val interface{}) {
		query += fmt.Sprintf(" AND %s = $%d", clause, argN)
		args = append(args, val)
		argN++
	}

	if !filter.UUID.IsEmpty() {
		add("uuid", filter.UUID.String())
	}
	if !filter.UserUUID.IsEmpty() {
		add("user_uuid", filter.UserUUID.String())
	}
	if filter.UserAgent != "" {
		add("useragent", filter.UserAgent)
	}
	if filter.IP != "" {
		add("ip", filter.IP)
	}
	if filter.ActiveOnly {
		add("is_active", true)
	}
	query += " ORDER BY created_at DESC LIMIT 1"

	var row sessionRow
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNoRows(err) {
			return store.Session{}, store.ErrSessionNotFound()
		}
		return store.Session{}, errx.Wrap(err, "failed to get session", errx.TypeInternal)
	}
	return row.toDomain(), nil
}

func (s *PostgresStore) GetAllSessions(ctx context.Context, userID kernel.UserID) ([]store.Session, error) {
	var rows []sessionRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT * FROM sessions WHERE user_uuid = $1 ORDER BY created_at DESC`, userID.String())
	if err != nil {
		return nil, errx.Wrap(err, "failed to list sessions", errx.TypeInternal)
	}
	out := make([]store.Session, len(rows))
	for i, r := range rows {
		out[i] = r.toDomain()
	}
	return out, nil
}

func (s *PostgresStore) GetActiveSessions(ctx context.Context, userID kernel.UserID) ([]store.Session, error) {
	var rows []sessionRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT * FROM sessions WHERE user_uuid = $1 AND is_active = true ORDER BY created_at DESC`, userID.String())
	if err != nil {
		return nil, errx.Wrap(err, "failed to list active sessions", errx.TypeInternal)
	}
	out := make([]store.Session, len(rows))
	for i, r := range rows {
		out[i] = r.toDomain()
	}
	return out, nil
}

// ListActiveSessions returns every active session row across all users, for
// the background reconciliation sweep — it never filters by user.
func (s *PostgresStore) ListActiveSessions(ctx context.Context) ([]store.Session, error) {
	var rows []sessionRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT * FROM sessions WHERE is_active = true ORDER BY created_at DESC`)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list active sessions", errx.TypeInternal)
	}
	out := make([]store.Session, len(rows))
	for i, r := range rows {
		out[i] = r.toDomain()
	}
	return out, nil
}

// DeactivateSession is monotone: once is_active is false it is never flipped
// back, so this is safe to call more than once for the same session.
func (s *PostgresStore) DeactivateSession(ctx context.Context, id kernel.SessionID) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET is_active = false, updated_at = $1 WHERE uuid = $2`,
		time.Now().UTC(), id.String())
	if err != nil {
		return errx.Wrap(err, "failed to deactivate session", errx.TypeInternal)
	}
	return nil
}

func (s *PostgresStore) GetPaginatedSessions(ctx context.Context, userID kernel.UserID, p store.PaginationParams) (kernel.Paginated[store.Session], error) {
	orderBy := p.OrderBy
	switch orderBy {
	case store.OrderByCreatedAt, store.OrderByUpdatedAt, store.OrderByUserAgent, store.OrderByIP:
	default:
		orderBy = store.OrderByCreatedAt
	}
	dir := "ASC"
	if p.Desc {
		dir = "DESC"
	}
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	var total int
	if err := s.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM sessions WHERE user_uuid = $1`, userID.String()); err != nil {
		return kernel.Paginated[store.Session]{}, errx.Wrap(err, "failed to count sessions", errx.TypeInternal)
	}

	query := fmt.Sprintf(`SELECT * FROM sessions WHERE user_uuid = $1 ORDER BY %s %s OFFSET $2 LIMIT $3`, orderBy, dir)
	var rows []sessionRow
	if err := s.db.SelectContext(ctx, &rows, query, userID.String(), p.Offset, limit); err != nil {
		return kernel.Paginated[store.Session]{}, errx.Wrap(err, "failed to paginate sessions", errx.TypeInternal)
	}

	out := make([]store.Session, len(rows))
	for i, r := range rows {
		out[i] = r.toDomain()
	}

	page := p.Offset/limit + 1
	return kernel.NewPaginated(out, page, limit, total), nil
}
