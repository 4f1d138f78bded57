package user

import "pharmacy-be/internal/apperr"

var (
	ErrInvalidCredentials = apperr.New(apperr.ErrUnauthenticated, "invalid email or password")
	ErrMissingCredentials = apperr.New(apperr.ErrBadRequest, "email and password are required")
)
