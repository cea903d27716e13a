// Package notify implements auth.NotificationsClient as a service-to-service
// HTTP caller against the notifications service, the way the source's
// send_service_request_post helper does: a shared-secret Authorization
// header plus a Service-Name header identifying the caller.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type HTTPClient struct {
	baseURL     string
	secret      string
	serviceName string
	httpClient  *http.Client
}

func NewHTTPClient(baseURL, secret, serviceName string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL:     baseURL,
		secret:      secret,
		serviceName: serviceName,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) NotifyDuplicateUser(ctx context.Context, email string) error {
	return c.post(ctx, "/api/v1/services-users/duplicate-user", map[string]string{
		"user_email": email,
	})
}

func (c *HTTPClient) SendRegisterConfirmation(ctx context.Context, email, registerToken string) error {
	return c.post(ctx, "/api/v1/services-notifications/send-email", map[string]string{
		"email_to":  email,
		"msg_title": "Confirm your email",
		"msg_text":  "Here is your link to confirm your email: /api/v1/auth/confirm-email/" + registerToken,
	})
}

func (c *HTTPClient) post(ctx context.Context, path string, body interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.secret)
	req.Header.Set("Service-Name", c.serviceName)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("notifications service responded with status %d for %s", resp.StatusCode, path)
	}
	return nil
}
