package domain

import (
	"errors"
	"fmt"
)

// ErrValidation is the base for input rejected by the core.
var ErrValidation = errors.New("validation failed")

// Domain errors.
var (
	ErrIssueNotFound  = errors.New("issue not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrFormat         = errors.New("invalid snapshot format")
	ErrCancelled      = errors.New("cancelled by user")
	ErrNotInitialized = errors.New("no saved state")
	ErrInvalidFilter  = errors.New("invalid filter (use open, completed, not_planned or all)")
	ErrConfigExists   = errors.New("config file already exists")
	ErrUnknownBackend = errors.New("unknown store backend")

	ErrEmptyName     = fmt.Errorf("%w: issue name cannot be empty", ErrValidation)
	ErrEmptyComment  = fmt.Errorf("%w: comment cannot be empty", ErrValidation)
	ErrEmptyUserName = fmt.Errorf("%w: user name cannot be empty", ErrValidation)
	ErrUserExists    = fmt.Errorf("%w: user already exists", ErrValidation)
	ErrEmptyEmail    = fmt.Errorf("%w: email cannot be empty", ErrValidation)
	ErrInvalidText   = fmt.Errorf("%w: text is not valid UTF-8", ErrValidation)
)
