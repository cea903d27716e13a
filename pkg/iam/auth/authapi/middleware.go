// Package authapi is the HTTP edge: fiber handlers and the bearer-token
// middleware wrapping the Auth Manager.
package authapi

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/prapeller/api-auth/pkg/iam/auth"
	"github.com/prapeller/api-auth/pkg/kernel"
)

type Middleware struct {
	manager *auth.Manager
}

func NewMiddleware(manager *auth.Manager) *Middleware {
	return &Middleware{manager: manager}
}

// Authenticate extracts the bearer access token, verifies it against the
// request's IP/useragent and the Refresh Cache, and populates
// kernel.AuthContext in fiber locals for downstream handlers.
func (m *Middleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return auth.ErrUnauthorized()
		}

		rc := kernel.RequestContext{IP: c.IP(), UserAgent: c.Get("User-Agent")}
		claims, err := m.manager.VerifyToken(c.Context(), token, rc)
		if err != nil {
			return err
		}
		if claims.Type != auth.TokenTypeAccess {
			return auth.ErrUnauthorized()
		}

		c.Locals("auth", &kernel.AuthContext{
			UserID:      claims.Subject,
			Email:       claims.Email,
			SessionID:   claims.SessionUUID,
			Permissions: claims.Permissions,
		})
		c.Locals("auth_claims", claims)

		return c.Next()
	}
}

// RequirePermission rejects requests whose resolved AuthContext lacks name.
func RequirePermission(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ac, ok := AuthContextFrom(c)
		if !ok {
			return auth.ErrUnauthorized()
		}
		if !ac.HasPermission(name) {
			return auth.ErrUnauthorized()
		}
		return c.Next()
	}
}

func AuthContextFrom(c *fiber.Ctx) (*kernel.AuthContext, bool) {
	ac, ok := c.Locals("auth").(*kernel.AuthContext)
	return ac, ok
}

func claimsFrom(c *fiber.Ctx) (auth.TokenClaims, bool) {
	claims, ok := c.Locals("auth_claims").(auth.TokenClaims)
	return claims, ok
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}
