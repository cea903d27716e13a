package authinfra

import (
	"context"
	"time"

	"github.com/prapeller/api-auth/pkg/iam/auth"
	"github.com/prapeller/api-auth/pkg/iam/store"
	"github.com/prapeller/api-auth/pkg/logx"
)

// SessionReconciler periodically deactivates Session rows whose Refresh
// Cache entry has already expired. It exists only to keep the persisted
// is_active flag from drifting too far behind the cache's authoritative
// view (§4's state-machine note: "the row remains active=true until a
// write observes it") — VerifyToken never depends on it for liveness.
type SessionReconciler struct {
	store store.Store
	cache auth.RefreshCache
}

func NewSessionReconciler(st store.Store, cache auth.RefreshCache) *SessionReconciler {
	return &SessionReconciler{store: st, cache: cache}
}

// Run sweeps once per interval until ctx is cancelled.
func (r *SessionReconciler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

func (r *SessionReconciler) sweep(ctx context.Context) {
	sessions, err := r.store.ListActiveSessions(ctx)
	if err != nil {
		logx.Warnf("session reconciler: failed to list active sessions: %v", err)
		return
	}

	swept := 0
	for _, s := range sessions {
		_, live, err := r.cache.Get(ctx, s.UUID)
		if err != nil || live {
			continue
		}
		if err := r.store.DeactivateSession(ctx, s.UUID); err != nil {
			logx.Warnf("session reconciler: failed to deactivate session %s: %v", s.UUID, err)
			continue
		}
		swept++
	}
	if swept > 0 {
		logx.Infof("session reconciler: deactivated %d stale sessions", swept)
	}
}
