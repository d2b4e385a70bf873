package social

import "errors"

// Resolution errors
var (
	ErrAlreadyLinked        = errors.New("this account already connected")
	ErrRegistrationDisabled = errors.New("auto creating new users is disabled")
	ErrConflict             = errors.New("identity link already exists")
	ErrLinkNotFound         = errors.New("identity link not found")
	ErrNotLinkOwner         = errors.New("identity link belongs to another account")
	ErrAccountNotFound      = errors.New("account not found")
)

// Provider errors
var (
	ErrProvider        = errors.New("provider authentication failed")
	ErrUnknownProvider = errors.New("unknown provider")
	ErrInvalidState    = errors.New("invalid state token")
	ErrStateNotFound   = errors.New("state token not found or expired")
)

// Finalization errors
var (
	ErrLoginFailed = errors.New("login failed")
)
