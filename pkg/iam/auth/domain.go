// Package auth is the orchestration core: TokenClaims, the ports every
// collaborator (codec, cache, hasher, OAuth client, notifications client,
// audit sink) must satisfy, and the Manager that composes them into
// Register/Login/VerifyToken/Refresh/Logout/LogoutAll/ConfirmEmail/OAuthLogin.
package auth

import (
	"time"

	"github.com/prapeller/api-auth/pkg/kernel"
)

// TokenType distinguishes the three kinds of token this engine mints.
// "register" tokens carry only Subject/Email/Expiry/JTI; access and refresh
// tokens carry the full claim set.
type TokenType string

const (
	TokenTypeAccess   TokenType = "access"
	TokenTypeRefresh  TokenType = "refresh"
	TokenTypeRegister TokenType = "register"
)

// Provider names the identity source a token's session was established
// under.
type Provider string

const (
	ProviderLocal  Provider = "local"
	ProviderGoogle Provider = "google"
	ProviderYandex Provider = "yandex"
)

// TokenClaims is the transient (never persisted) claim set encoded by the
// Token Codec. SessionUUID, IP, UserAgent and Permissions are only
// meaningful for access/refresh tokens; register tokens leave them zero.
type TokenClaims struct {
	Type        TokenType        `json:"type"`
	Subject     kernel.UserID    `json:"sub"`
	Email       string           `json:"email"`
	Permissions []string         `json:"permissions,omitempty"`
	SessionUUID kernel.SessionID `json:"session_uuid,omitempty"`
	IP          string           `json:"ip,omitempty"`
	UserAgent   string           `json:"useragent,omitempty"`
	OAuthType   Provider         `json:"oauth_type,omitempty"`
	OAuthToken  string           `json:"oauth_token,omitempty"`
	JTI         string           `json:"jti"`
	ExpiresAt   time.Time        `json:"exp"`
}

// TokenPair is what Login, Refresh, and a successful OAuthLogin return.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Credentials is the local-login request body; Password is empty for the
// OAuth-originated call into Login.
type Credentials struct {
	Email    string
	Password string
}

// RegisterInput is the Register request body.
type RegisterInput struct {
	Email    string
	Name     string
	Password string
}
