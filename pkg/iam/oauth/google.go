// Package oauth implements auth.OAuthClient for the providers this service
// supports: Google and Yandex authorization-code flows, normalized to the
// same OAuthIdentity shape the Auth Manager consumes.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prapeller/api-auth/pkg/iam/auth"
)

const defaultHTTPTimeout = 10 * time.Second

// GoogleClient implements auth.OAuthClient against Google's OAuth2 endpoints.
type GoogleClient struct {
	clientID     string
	clientSecret string
	redirectURI  string
	httpClient   *http.Client
}

func NewGoogleClient(clientID, clientSecret, redirectURI string) *GoogleClient {
	return &GoogleClient{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		httpClient:   &http.Client{Timeout: defaultHTTPTimeout},
	}
}

func (c *GoogleClient) Provider() auth.Provider { return auth.ProviderGoogle }

func (c *GoogleClient) AuthorizationURL(state string) string {
	return "https://accounts.google.com/o/oauth2/v2/auth?" + url.Values{
		"response_type": {"code"},
		"client_id":     {c.clientID},
		"redirect_uri":  {c.redirectURI},
		"scope":         {"openid email profile"},
		"state":         {state},
	}.Encode()
}

func (c *GoogleClient) ExchangeCode(ctx context.Context, code string) (string, error) {
	form := url.Values{
		"code":          {code},
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
		"redirect_uri":  {c.redirectURI},
		"grant_type":    {"authorization_code"},
	}
	return exchangeToken(ctx, c.httpClient, "https://oauth2.googleapis.com/token", form)
}

func (c *GoogleClient) FetchIdentity(ctx context.Context, providerToken string) (auth.OAuthIdentity, error) {
	var raw struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := fetchUserInfo(ctx, c.httpClient, "https://www.googleapis.com/oauth2/v1/userinfo", providerToken, &raw); err != nil {
		return auth.OAuthIdentity{}, err
	}
	return auth.OAuthIdentity{SocialUUID: raw.ID, Email: raw.Email, Name: raw.Name}, nil
}

func exchangeToken(ctx context.Context, client *http.Client, tokenURI string, form url.Values) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURI, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("oauth token exchange failed: status %d: %s", resp.StatusCode, body)
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", err
	}
	return tokenResp.AccessToken, nil
}

func fetchUserInfo(ctx context.Context, client *http.Client, userInfoURI, providerToken string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, userInfoURI, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+providerToken)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("oauth userinfo fetch failed: status %d: %s", resp.StatusCode, body)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
