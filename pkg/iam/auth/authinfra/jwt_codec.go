// Package authinfra implements the ports declared in pkg/iam/auth against
// concrete infrastructure: JWT for the Token Codec, bcrypt for the Hasher,
// Redis for the Refresh Cache, and structured logs for the Audit Service —
// the way the teacher's JWTService and LogxAuditService do for their own
// domains.
package authinfra

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/prapeller/api-auth/pkg/iam/auth"
	"github.com/prapeller/api-auth/pkg/kernel"
)

// JWTCodec implements auth.TokenCodec with HS256-signed compact tokens.
type JWTCodec struct {
	secret []byte
	issuer string
}

func NewJWTCodec(secret, issuer string) *JWTCodec {
	return &JWTCodec{secret: []byte(secret), issuer: issuer}
}

type jwtClaims struct {
	Type        string   `json:"type"`
	Email       string   `json:"email"`
	Permissions []string `json:"permissions,omitempty"`
	SessionUUID string   `json:"session_uuid,omitempty"`
	IP          string   `json:"ip,omitempty"`
	UserAgent   string   `json:"useragent,omitempty"`
	OAuthType   string   `json:"oauth_type,omitempty"`
	OAuthToken  string   `json:"oauth_token,omitempty"`
	jwt.RegisteredClaims
}

func (c *JWTCodec) Encode(claims auth.TokenClaims) (string, error) {
	jc := jwtClaims{
		Type:        string(claims.Type),
		Email:       claims.Email,
		Permissions: claims.Permissions,
		SessionUUID: claims.SessionUUID.String(),
		IP:          claims.IP,
		UserAgent:   claims.UserAgent,
		OAuthType:   string(claims.OAuthType),
		OAuthToken:  claims.OAuthToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   claims.Subject.String(),
			ID:        claims.JTI,
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jc)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", auth.ErrTokenGenerationFailed().WithDetail("error", err.Error())
	}
	return signed, nil
}

// Decode rejects exp <= now (no grace window), collapsing expired,
// malformed, and badly-signed tokens to the single auth.ErrUnauthorized at
// the Manager boundary — this method only ever returns a raw error; the
// Manager is what maps it to the externally visible error.
func (c *JWTCodec) Decode(token string) (auth.TokenClaims, error) {
	return c.parse(token, false)
}

// DecodeExpired parses and verifies the signature but does not reject an
// expired exp, so ConfirmEmail can read the subject of an expired register
// token in order to re-issue one.
func (c *JWTCodec) DecodeExpired(token string) (auth.TokenClaims, error) {
	return c.parse(token, true)
}

func (c *JWTCodec) parse(tokenString string, allowExpired bool) (auth.TokenClaims, error) {
	opts := []jwt.ParserOption{}
	if allowExpired {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &jwtClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	}, opts...)
	if err != nil {
		return auth.TokenClaims{}, err
	}
	if !allowExpired && !parsed.Valid {
		return auth.TokenClaims{}, fmt.Errorf("token is invalid")
	}

	jc, ok := parsed.Claims.(*jwtClaims)
	if !ok {
		return auth.TokenClaims{}, fmt.Errorf("unexpected claims type")
	}

	var exp time.Time
	if jc.ExpiresAt != nil {
		exp = jc.ExpiresAt.Time
	}

	return auth.TokenClaims{
		Type:        auth.TokenType(jc.Type),
		Subject:     kernel.NewUserID(jc.Subject),
		Email:       jc.Email,
		Permissions: jc.Permissions,
		SessionUUID: kernel.NewSessionID(jc.SessionUUID),
		IP:          jc.IP,
		UserAgent:   jc.UserAgent,
		OAuthType:   auth.Provider(jc.OAuthType),
		OAuthToken:  jc.OAuthToken,
		JTI:         jc.ID,
		ExpiresAt:   exp,
	}, nil
}
