package authinfra

import (
	"context"
	"time"

	"github.com/prapeller/api-auth/pkg/iam/auth"
	"github.com/prapeller/api-auth/pkg/kernel"
	"github.com/prapeller/api-auth/pkg/logx"
)

// LogxAuditService implements auth.AuditService using structured logx
// logging, the way the teacher's LogxAuditService does for its own domain.
type LogxAuditService struct{}

func NewLogxAuditService() *LogxAuditService {
	return &LogxAuditService{}
}

func (s *LogxAuditService) LogLoginAttempt(_ context.Context, email string, success bool, provider auth.Provider) {
	logx.WithFields(logx.Fields{
		"audit_event": "login_attempt",
		"email":       email,
		"provider":    provider,
		"success":     success,
		"timestamp":   time.Now(),
	}).Info("Audit: login attempt")
}

func (s *LogxAuditService) LogLogout(_ context.Context, userID kernel.UserID, sessionUUID kernel.SessionID, all bool) {
	logx.WithFields(logx.Fields{
		"audit_event":  "logout",
		"user_id":      userID,
		"session_uuid": sessionUUID,
		"all_sessions": all,
		"timestamp":    time.Now(),
	}).Info("Audit: logout")
}

func (s *LogxAuditService) LogTokenRefresh(_ context.Context, sessionUUID kernel.SessionID) {
	logx.WithFields(logx.Fields{
		"audit_event":  "token_refresh",
		"session_uuid": sessionUUID,
		"timestamp":    time.Now(),
	}).Info("Audit: token refresh")
}

func (s *LogxAuditService) LogAccountCreated(_ context.Context, userID kernel.UserID, email string) {
	logx.WithFields(logx.Fields{
		"audit_event": "account_created",
		"user_id":     userID,
		"email":       email,
		"timestamp":   time.Now(),
	}).Info("Audit: account created")
}

func (s *LogxAuditService) LogAccountLinked(_ context.Context, userID kernel.UserID, provider auth.Provider) {
	logx.WithFields(logx.Fields{
		"audit_event": "account_linked",
		"user_id":     userID,
		"provider":    provider,
		"timestamp":   time.Now(),
	}).Info("Audit: account linked")
}
