package store

import (
	"net/http"

	"github.com/prapeller/api-auth/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("STORE")

var (
	CodeUserAlreadyExists  = ErrRegistry.Register("USER_ALREADY_EXISTS", errx.TypeConflict, http.StatusUnprocessableEntity, "a user with this email already exists")
	CodeUserNotFound       = ErrRegistry.Register("USER_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "user not found")
	CodeSessionNotFound    = ErrRegistry.Register("SESSION_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "session not found")
	CodeSocialAccountNotFound = ErrRegistry.Register("SOCIAL_ACCOUNT_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "social account not found")
)

func ErrUserAlreadyExists() *errx.Error       { return ErrRegistry.New(CodeUserAlreadyExists) }
func ErrUserNotFound() *errx.Error            { return ErrRegistry.New(CodeUserNotFound) }
func ErrSessionNotFound() *errx.Error         { return ErrRegistry.New(CodeSessionNotFound) }
func ErrSocialAccountNotFound() *errx.Error   { return ErrRegistry.New(CodeSocialAccountNotFound) }
