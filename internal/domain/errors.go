package domain

import "errors"

var (
	ErrInvalidMode            = errors.New("invalid mode")
	ErrValidation             = errors.New("validation failed")
	ErrPlayerNotFound         = errors.New("player not found")
	ErrTemporarilyUnavailable = errors.New("temporarily unavailable")
)
