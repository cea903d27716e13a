package authapi

import "github.com/gofiber/fiber/v2"

// RegisterRoutes wires the auth HTTP surface onto app, matching the
// teacher's RegisterRoutes(app, middleware) convention.
func RegisterRoutes(app *fiber.App, h *Handlers, mw *Middleware) {
	api := app.Group("/api/v1/auth")

	api.Post("/register", h.Register)
	api.Post("/login", h.Login)
	api.Post("/refresh-access-token", h.RefreshAccessToken)
	api.Post("/verify-access-token", h.VerifyAccessToken)
	api.Get("/login-oauth/:provider", h.LoginOAuth)
	api.Get("/oauth-redirect/:provider", h.OAuthRedirect)
	api.Get("/confirm-email/:registerToken", h.ConfirmEmail)

	authed := api.Group("", mw.Authenticate())
	authed.Post("/logout", h.Logout)
	authed.Post("/logout-all", h.LogoutAll)

	me := app.Group("/api/v1/me", mw.Authenticate())
	me.Get("/", h.Me)
	me.Get("/sessions", h.MeSessions)
	me.Get("/sessions-active", h.MeSessionsActive)
	me.Get("/permissions", h.MePermissions)
	me.Put("/update-credentials", h.UpdateCredentials)
	me.Put("/update-password", h.UpdatePassword)
}
