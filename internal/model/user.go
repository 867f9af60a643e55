// Package model defines domain entities for the application.
package model

import "time"

// User is an account that owns tasks.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never serialize
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the verified subject of a bearer token.
// It is the only source of ownership for task operations.
type Identity struct {
	UserID    int64
	Username  string
	TokenID   string
	ExpiresAt time.Time
}
