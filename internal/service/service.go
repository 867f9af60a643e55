// Package service provides business logic for the application.
package service

import (
	"errors"
	"fmt"
)

// Service errors.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTaskNotFound       = errors.New("task not found")
)

// Validation errors. Each wraps ErrInvalidInput.
var (
	ErrUsernameRequired = fmt.Errorf("%w: username is required", ErrInvalidInput)
	ErrPasswordRequired = fmt.Errorf("%w: password is required", ErrInvalidInput)
	ErrTitleRequired    = fmt.Errorf("%w: title is required", ErrInvalidInput)
	ErrTitleTooLong     = fmt.Errorf("%w: title is too long", ErrInvalidInput)
	ErrInvalidPriority  = fmt.Errorf("%w: priority must be low, medium or high", ErrInvalidInput)
)
