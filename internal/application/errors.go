package application

import "errors"

var (
	ErrInvalidCredentials = errors.New("credentials do not match")
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("user already exists")
	ErrNotLoggedIn        = errors.New("not logged in")
	ErrProductNotFound    = errors.New("product not found")
	ErrForbidden          = errors.New("product belongs to another user")
	ErrInvalidInput       = errors.New("invalid input")
	ErrStorageUnavailable = errors.New("image storage not configured")
)
