package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/tasktrack/tasktrack/internal/auth"
	"github.com/tasktrack/tasktrack/internal/metrics"
	"github.com/tasktrack/tasktrack/internal/model"
	"github.com/tasktrack/tasktrack/internal/repository"
)

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, username, passwordHash string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) (bool, error)
}

// TokenIssuer signs bearer tokens for a user.
type TokenIssuer interface {
	Issue(user *model.User) (string, time.Time, error)
}

// Revoker records tokens that must no longer be accepted.
type Revoker interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
}

// AuthService handles account registration and sessions.
type AuthService struct {
	users   UserStore
	hasher  PasswordHasher
	tokens  TokenIssuer
	revoker Revoker
	metrics metrics.Recorder
	logger  *slog.Logger

	dummyOnce   sync.Once
	dummyDigest string
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, hasher PasswordHasher, tokens TokenIssuer, revoker Revoker, recorder metrics.Recorder) *AuthService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AuthService{
		users:   users,
		hasher:  hasher,
		tokens:  tokens,
		revoker: revoker,
		metrics: recorder,
		logger:  slog.Default(),
	}
}

// WithLogger sets the logger used for credential anomalies.
func (s *AuthService) WithLogger(logger *slog.Logger) *AuthService {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Register creates a new account. Usernames match exactly, case included.
func (s *AuthService) Register(ctx context.Context, username, password string) (*model.User, error) {
	if strings.TrimSpace(username) == "" {
		return nil, ErrUsernameRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}

	exists, err := s.users.UsernameExists(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if exists {
		return nil, ErrUsernameTaken
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, username, digest)
	if err != nil {
		// a concurrent registration can win between the check and the insert
		if errors.Is(err, repository.ErrUsernameExists) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.metrics.IncUserRegistered()
	return user, nil
}

// Login verifies credentials and issues a bearer token.
// Unknown usernames and wrong passwords both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	// blank credentials can never match a stored row
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, s.rejectLogin(password)
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("get user: %w", err)
		}
		return nil, s.rejectLogin(password)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidHash) && !errors.Is(err, auth.ErrIncompatibleVersion) {
			return nil, fmt.Errorf("verify password: %w", err)
		}
		s.logger.Warn("stored password digest is unusable",
			slog.Int64("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		ok = false
	}
	if !ok {
		s.metrics.IncLogin(metrics.LoginFailed)
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.metrics.IncLogin(metrics.LoginSuccess)
	return &LoginResult{Token: token, ExpiresAt: expiresAt}, nil
}

// Logout revokes the token the identity was authenticated with.
func (s *AuthService) Logout(ctx context.Context, identity *model.Identity) error {
	if err := s.revoker.Revoke(ctx, identity.TokenID, identity.ExpiresAt); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	s.metrics.IncLogout()
	return nil
}

// rejectLogin spends a verification on the dummy digest so that every
// failed login takes about as long as a wrong password.
func (s *AuthService) rejectLogin(password string) error {
	_, _ = s.hasher.Verify(password, s.dummy())
	s.metrics.IncLogin(metrics.LoginFailed)
	return ErrInvalidCredentials
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		digest, err := s.hasher.Hash("tasktrack-dummy-password")
		if err == nil {
			s.dummyDigest = digest
		}
	})
	return s.dummyDigest
}
