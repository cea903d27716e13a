package oauth_test

import (
	"net/url"
	"testing"

	"github.com/prapeller/api-auth/pkg/iam/auth"
	"github.com/prapeller/api-auth/pkg/iam/oauth"
)

func TestGoogleClientAuthorizationURL(t *testing.T) {
	c := oauth.NewGoogleClient("client-id", "client-secret", "https://app.example.com/oauth-redirect/google")
	if c.Provider() != auth.ProviderGoogle {
		t.Fatalf("got provider %q", c.Provider())
	}

	raw := c.AuthorizationURL("state-value")
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("AuthorizationURL produced an unparseable URL: %v", err)
	}
	q := u.Query()
	if q.Get("client_id") != "client-id" {
		t.Fatalf("got client_id %q", q.Get("client_id"))
	}
	if q.Get("state") != "state-value" {
		t.Fatalf("got state %q", q.Get("state"))
	}
	if q.Get("redirect_uri") != "https://app.example.com/oauth-redirect/google" {
		t.Fatalf("got redirect_uri %q", q.Get("redirect_uri"))
	}
}
