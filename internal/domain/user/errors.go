package user

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUsernameExists    = errors.New("username already taken")
	ErrInvalidPassword   = errors.New("password must be at least 3 characters")
	ErrPasswordsMismatch = errors.New("passwords do not match")
)
