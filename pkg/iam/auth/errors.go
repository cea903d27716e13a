package auth

import (
	"net/http"

	"github.com/prapeller/api-auth/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("AUTH")

var (
	CodeUnauthorized          = ErrRegistry.Register("UNAUTHORIZED", errx.TypeAuthorization, http.StatusUnauthorized, "Unauthorized for this action")
	CodeInvalidCredentials    = ErrRegistry.Register("INVALID_CREDENTIALS", errx.TypeValidation, http.StatusUnprocessableEntity, "Invalid credentials were provided")
	CodeUserWasNotRegistered  = ErrRegistry.Register("USER_WAS_NOT_REGISTERED", errx.TypeInternal, http.StatusInternalServerError, "registration could not be completed")
	CodeBadRequest            = ErrRegistry.Register("BAD_REQUEST", errx.TypeValidation, http.StatusBadRequest, "malformed request")
	CodeStateMismatch         = ErrRegistry.Register("STATE_MISMATCH", errx.TypeValidation, http.StatusBadRequest, "OAuth state mismatch")
	CodeInvalidOAuthProvider  = ErrRegistry.Register("INVALID_OAUTH_PROVIDER", errx.TypeValidation, http.StatusBadRequest, "invalid OAuth provider")
	CodeOAuthExchangeFailed   = ErrRegistry.Register("OAUTH_EXCHANGE_FAILED", errx.TypeExternal, http.StatusBadGateway, "OAuth token exchange failed")
	CodeOAuthIdentityFailed   = ErrRegistry.Register("OAUTH_IDENTITY_UNAVAILABLE", errx.TypeExternal, http.StatusBadGateway, "OAuth identity fetch failed")
	CodeTokenGenerationFailed = ErrRegistry.Register("TOKEN_GENERATION_FAILED", errx.TypeInternal, http.StatusInternalServerError, "token generation failed")
)

// ErrUnauthorized is the single externally visible failure for every Token
// Codec error and every VerifyToken rejection — callers must not be able to
// distinguish expired, tampered, or revoked.
func ErrUnauthorized() *errx.Error { return ErrRegistry.New(CodeUnauthorized) }

func ErrInvalidCredentials() *errx.Error   { return ErrRegistry.New(CodeInvalidCredentials) }
func ErrUserWasNotRegistered() *errx.Error { return ErrRegistry.New(CodeUserWasNotRegistered) }
func ErrBadRequest() *errx.Error           { return ErrRegistry.New(CodeBadRequest) }
func ErrStateMismatch() *errx.Error        { return ErrRegistry.New(CodeStateMismatch) }
func ErrInvalidOAuthProvider() *errx.Error { return ErrRegistry.New(CodeInvalidOAuthProvider) }
func ErrOAuthExchangeFailed() *errx.Error  { return ErrRegistry.New(CodeOAuthExchangeFailed) }
func ErrOAuthIdentityFailed() *errx.Error  { return ErrRegistry.New(CodeOAuthIdentityFailed) }
func ErrTokenGenerationFailed() *errx.Error { return ErrRegistry.New(CodeTokenGenerationFailed) }

// ErrRegisterTokenExpired marks a expired register token whose ConfirmEmail
// call has already triggered a re-issue; the caller gets Unauthorized with
// a detail explaining a new token was sent, matching the source's intent.
func ErrRegisterTokenExpired() *errx.Error {
	return ErrRegistry.New(CodeUnauthorized).WithDetail("reason", "token expired, new token sent")
}
