package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidSession     = errors.New("invalid session")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("forbidden")
	ErrInvitationNotFound = errors.New("invalid or expired invitation")
	ErrMailRelay          = errors.New("mail relay failure")
	ErrUnknownProvider    = errors.New("unknown authentication provider")
)
