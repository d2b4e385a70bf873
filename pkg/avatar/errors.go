package avatar

import "errors"

var (
	ErrFetchFailed   = errors.New("avatar fetch failed")
	ErrNotAnImage    = errors.New("response is not an image")
	ErrTooLarge      = errors.New("avatar image too large")
	ErrInvalidConfig = errors.New("invalid avatar store configuration")
)
