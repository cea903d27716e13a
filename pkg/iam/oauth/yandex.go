package oauth

import (
	"context"
	"net/http"
	"net/url"

	"github.com/prapeller/api-auth/pkg/iam/auth"
)

// YandexClient implements auth.OAuthClient against Yandex's OAuth2 endpoints.
type YandexClient struct {
	clientID     string
	clientSecret string
	redirectURI  string
	httpClient   *http.Client
}

func NewYandexClient(clientID, clientSecret, redirectURI string) *YandexClient {
	return &YandexClient{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		httpClient:   &http.Client{Timeout: defaultHTTPTimeout},
	}
}

func (c *YandexClient) Provider() auth.Provider { return auth.ProviderYandex }

func (c *YandexClient) AuthorizationURL(state string) string {
	return "https://oauth.yandex.com/authorize?" + url.Values{
		"response_type": {"code"},
		"client_id":     {c.clientID},
		"redirect_uri":  {c.redirectURI},
		"state":         {state},
	}.Encode()
}

func (c *YandexClient) ExchangeCode(ctx context.Context, code string) (string, error) {
	form := url.Values{
		"code":          {code},
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
		"redirect_uri":  {c.redirectURI},
		"grant_type":    {"authorization_code"},
	}
	return exchangeToken(ctx, c.httpClient, "https://oauth.yandex.com/token", form)
}

// FetchIdentity normalizes Yandex's userinfo shape: name is split across
// first_name/last_name, and the email field is default_email rather than
// email.
func (c *YandexClient) FetchIdentity(ctx context.Context, providerToken string) (auth.OAuthIdentity, error) {
	var raw struct {
		ID           string `json:"id"`
		FirstName    string `json:"first_name"`
		LastName     string `json:"last_name"`
		DefaultEmail string `json:"default_email"`
	}
	if err := fetchUserInfo(ctx, c.httpClient, "https://login.yandex.ru/info", providerToken, &raw); err != nil {
		return auth.OAuthIdentity{}, err
	}
	return auth.OAuthIdentity{
		SocialUUID: raw.ID,
		Email:      raw.DefaultEmail,
		Name:       raw.FirstName + " " + raw.LastName,
	}, nil
}
