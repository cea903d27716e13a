package authinfra_test

import (
	"testing"
	"time"

	"github.com/prapeller/api-auth/pkg/iam/auth"
	"github.com/prapeller/api-auth/pkg/iam/auth/authinfra"
	"github.com/prapeller/api-auth/pkg/kernel"
)

func TestJWTCodecRoundTrip(t *testing.T) {
	codec := authinfra.NewJWTCodec("test-secret", "api-auth")

	claims := auth.TokenClaims{
		Type:        auth.TokenTypeAccess,
		Subject:     kernel.NewUserID("user-1"),
		Email:       "a@example.com",
		Permissions: []string{"read_content_free"},
		SessionUUID: kernel.NewSessionID("session-1"),
		IP:          "1.2.3.4",
		UserAgent:   "test-agent",
		JTI:         "jti-1",
		ExpiresAt:   time.Now().Add(time.Hour),
	}

	token, err := codec.Encode(claims)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := codec.Decode(token)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Subject != claims.Subject || got.Email != claims.Email || got.SessionUUID != claims.SessionUUID {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, claims)
	}
	if len(got.Permissions) != 1 || got.Permissions[0] != "read_content_free" {
		t.Fatalf("permissions not preserved: %v", got.Permissions)
	}
}

func TestJWTCodecRejectsExpired(t *testing.T) {
	codec := authinfra.NewJWTCodec("test-secret", "api-auth")

	claims := auth.TokenClaims{
		Type:      auth.TokenTypeAccess,
		Subject:   kernel.NewUserID("user-1"),
		JTI:       "jti-1",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	token, err := codec.Encode(claims)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	if _, err := codec.Decode(token); err == nil {
		t.Fatal("expected Decode to reject an expired token")
	}

	// DecodeExpired tolerates the same token so ConfirmEmail can read its
	// subject before deciding whether to re-issue.
	got, err := codec.DecodeExpired(token)
	if err != nil {
		t.Fatalf("DecodeExpired: %v", err)
	}
	if got.Subject != claims.Subject {
		t.Fatalf("got subject %q, want %q", got.Subject, claims.Subject)
	}
}

func TestJWTCodecRejectsBadSignature(t *testing.T) {
	codec := authinfra.NewJWTCodec("test-secret", "api-auth")
	other := authinfra.NewJWTCodec("other-secret", "api-auth")

	claims := auth.TokenClaims{
		Type:      auth.TokenTypeAccess,
		Subject:   kernel.NewUserID("user-1"),
		JTI:       "jti-1",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	token, err := codec.Encode(claims)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	if _, err := other.Decode(token); err == nil {
		t.Fatal("expected Decode to reject a token signed with a different secret")
	}
}
