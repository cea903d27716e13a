package authapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/prapeller/api-auth/pkg/iam/auth"
	"github.com/prapeller/api-auth/pkg/iam/store"
	"github.com/prapeller/api-auth/pkg/kernel"
)

type Handlers struct {
	manager *auth.Manager
	store   store.Store
}

func NewHandlers(manager *auth.Manager, st store.Store) *Handlers {
	return &Handlers{manager: manager, store: st}
}

func requestContext(c *fiber.Ctx) kernel.RequestContext {
	return kernel.RequestContext{IP: c.IP(), UserAgent: c.Get("User-Agent")}
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (h *Handlers) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return auth.ErrBadRequest()
	}

	user, err := h.manager.Register(c.Context(), auth.RegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"uuid":  user.UUID.String(),
		"email": user.Email,
		"name":  user.Name,
	})
}

// loginRequest mirrors the OAuth2PasswordRequestForm shape the spec's login
// endpoint is form-encoded against: the credential field is "username" (the
// user's email), not "email".
type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

func (h *Handlers) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return auth.ErrBadRequest()
	}

	pair, err := h.manager.Login(c.Context(), auth.Credentials{Email: req.Username, Password: req.Password}, requestContext(c), auth.ProviderLocal, "")
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"access_token": pair.AccessToken, "refresh_token": pair.RefreshToken, "token_type": "bearer"})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *Handlers) RefreshAccessToken(c *fiber.Ctx) error {
	var req refreshRequest
	if err := c.BodyParser(&req); err != nil {
		return auth.ErrBadRequest()
	}

	if _, err := h.manager.VerifyToken(c.Context(), req.RefreshToken, requestContext(c)); err != nil {
		return err
	}

	pair, err := h.manager.Refresh(c.Context(), req.RefreshToken)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"access_token": pair.AccessToken, "refresh_token": pair.RefreshToken})
}

// verifyRequest carries the request context explicitly: the caller of this
// endpoint is a downstream service relaying the *original* caller's ip and
// useragent, not the values of its own service-to-service call.
type verifyRequest struct {
	IP          string `json:"ip"`
	UserAgent   string `json:"useragent"`
	AccessToken string `json:"access_token"`
}

func (h *Handlers) VerifyAccessToken(c *fiber.Ctx) error {
	var req verifyRequest
	if err := c.BodyParser(&req); err != nil {
		return auth.ErrBadRequest()
	}

	claims, err := h.manager.VerifyToken(c.Context(), req.AccessToken, kernel.RequestContext{IP: req.IP, UserAgent: req.UserAgent})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"valid":       true,
		"subject":     claims.Subject.String(),
		"email":       claims.Email,
		"permissions": claims.Permissions,
	})
}

func (h *Handlers) LoginOAuth(c *fiber.Ctx) error {
	provider := auth.Provider(c.Params("provider"))
	authURL, err := h.manager.InitiateOAuth(c.Context(), provider)
	if err != nil {
		return err
	}
	return c.Redirect(authURL, fiber.StatusFound)
}

func (h *Handlers) OAuthRedirect(c *fiber.Ctx) error {
	provider := auth.Provider(c.Params("provider"))
	code := c.Query("code")
	state := c.Query("state")

	pair, err := h.manager.OAuthLogin(c.Context(), provider, code, state, requestContext(c))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"access_token": pair.AccessToken, "refresh_token": pair.RefreshToken})
}

func (h *Handlers) ConfirmEmail(c *fiber.Ctx) error {
	registerToken := c.Params("registerToken")

	user, err := h.manager.ConfirmEmail(c.Context(), registerToken)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"uuid": user.UUID.String(), "email": user.Email, "is_active": user.IsActive})
}

func (h *Handlers) Logout(c *fiber.Ctx) error {
	claims, ok := claimsFrom(c)
	if !ok {
		return auth.ErrUnauthorized()
	}
	if err := h.manager.Logout(c.Context(), claims); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handlers) LogoutAll(c *fiber.Ctx) error {
	claims, ok := claimsFrom(c)
	if !ok {
		return auth.ErrUnauthorized()
	}
	if err := h.manager.LogoutAll(c.Context(), claims); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handlers) Me(c *fiber.Ctx) error {
	ac, ok := AuthContextFrom(c)
	if !ok {
		return auth.ErrUnauthorized()
	}

	user, err := h.store.GetUserByUUID(c.Context(), ac.UserID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"uuid":        user.UUID.String(),
		"email":       user.Email,
		"name":        user.Name,
		"is_active":   user.IsActive,
		"permissions": ac.Permissions,
	})
}

func (h *Handlers) MeSessions(c *fiber.Ctx) error {
	ac, ok := AuthContextFrom(c)
	if !ok {
		return auth.ErrUnauthorized()
	}

	orderBy := store.SessionOrderBy(c.Query("order_by", string(store.OrderByCreatedAt)))
	desc := c.QueryBool("desc", true)
	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 20)

	paginated, err := h.store.GetPaginatedSessions(c.Context(), ac.UserID, store.PaginationParams{
		OrderBy: orderBy,
		Desc:    desc,
		Offset:  offset,
		Limit:   limit,
	})
	if err != nil {
		return err
	}

	out := make([]fiber.Map, len(paginated.Items))
	for i, s := range paginated.Items {
		out[i] = fiber.Map{
			"uuid":       s.UUID.String(),
			"useragent":  s.UserAgent,
			"ip":         s.IP,
			"is_active":  s.IsActive,
			"created_at": s.CreatedAt,
			"updated_at": s.UpdatedAt,
		}
	}

	return c.JSON(fiber.Map{"items": out, "pagination": paginated.Page, "empty": paginated.Empty})
}

func (h *Handlers) MeSessionsActive(c *fiber.Ctx) error {
	ac, ok := AuthContextFrom(c)
	if !ok {
		return auth.ErrUnauthorized()
	}

	sessions, err := h.store.GetActiveSessions(c.Context(), ac.UserID)
	if err != nil {
		return err
	}

	out := make([]fiber.Map, len(sessions))
	for i, s := range sessions {
		out[i] = fiber.Map{
			"uuid":       s.UUID.String(),
			"useragent":  s.UserAgent,
			"ip":         s.IP,
			"created_at": s.CreatedAt,
			"updated_at": s.UpdatedAt,
		}
	}
	return c.JSON(fiber.Map{"items": out})
}

func (h *Handlers) MePermissions(c *fiber.Ctx) error {
	ac, ok := AuthContextFrom(c)
	if !ok {
		return auth.ErrUnauthorized()
	}
	return c.JSON(fiber.Map{"permissions": ac.Permissions})
}

type updateCredentialsRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (h *Handlers) UpdateCredentials(c *fiber.Ctx) error {
	ac, ok := AuthContextFrom(c)
	if !ok {
		return auth.ErrUnauthorized()
	}

	var req updateCredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return auth.ErrBadRequest()
	}

	user, err := h.manager.UpdateCredentials(c.Context(), ac.UserID, auth.UpdateCredentialsInput{
		Email: req.Email,
		Name:  req.Name,
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"uuid": user.UUID.String(), "email": user.Email, "name": user.Name})
}

type updatePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (h *Handlers) UpdatePassword(c *fiber.Ctx) error {
	ac, ok := AuthContextFrom(c)
	if !ok {
		return auth.ErrUnauthorized()
	}

	var req updatePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return auth.ErrBadRequest()
	}

	if err := h.manager.UpdatePassword(c.Context(), ac.UserID, req.OldPassword, req.NewPassword); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}
