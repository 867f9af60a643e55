package client

import (
	"context"
	"fmt"
	"sync"
)

// Session tracks whether the user is logged in. The flag starts from the
// persisted token, so a session survives restarts until the token is cleared.
type Session struct {
	api   *Client
	store TokenStore

	mu            sync.Mutex
	authenticated bool
	username      string
}

// NewSession restores the session from store.
func NewSession(api *Client, store TokenStore) (*Session, error) {
	token, err := store.Load()
	if err != nil {
		return nil, err
	}
	return &Session{api: api, store: store, authenticated: token != ""}, nil
}

// IsAuthenticated reports whether a token is held.
func (s *Session) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// Username returns the name used at the last login in this process.
func (s *Session) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.username
}

// Login authenticates and persists the token.
func (s *Session) Login(ctx context.Context, username, password string) error {
	res, err := s.api.Login(ctx, username, password)
	if err != nil {
		return err
	}
	if err := s.store.Save(res.Token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}

	s.mu.Lock()
	s.authenticated = true
	s.username = username
	s.mu.Unlock()
	return nil
}

// Register creates the account and then logs in with the same credentials.
func (s *Session) Register(ctx context.Context, username, password string) error {
	if _, err := s.api.Register(ctx, username, password); err != nil {
		return err
	}
	return s.Login(ctx, username, password)
}

// Logout revokes the token on the server when possible and always clears
// the local session.
func (s *Session) Logout(ctx context.Context) error {
	if s.IsAuthenticated() {
		_ = s.api.Logout(ctx)
	}
	return s.Expire()
}

// Expire clears the local session without contacting the server.
func (s *Session) Expire() error {
	s.mu.Lock()
	s.authenticated = false
	s.username = ""
	s.mu.Unlock()

	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}
