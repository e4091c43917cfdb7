package core

import (
	"errors"
)

var (
	ErrUnknownPlatform = errors.New("unknown loader platform")
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrUnknown         = errors.New("unknown")
)
