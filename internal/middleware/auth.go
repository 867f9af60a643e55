package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tasktrack/tasktrack/internal/auth"
	"github.com/tasktrack/tasktrack/internal/metrics"
	"github.com/tasktrack/tasktrack/internal/model"
)

// TokenVerifier validates a bearer token and returns its identity.
type TokenVerifier interface {
	Verify(token string) (*model.Identity, error)
}

// RevocationChecker reports whether a token id has been revoked.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger      *slog.Logger
	Verifier    TokenVerifier
	Revocations RevocationChecker
	Metrics     metrics.Recorder
}

// Auth returns a middleware that requires a valid bearer token.
// Missing credentials get 401; any verification failure gets 403.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	recorder := cfg.Metrics
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reject := func(status int, reason, msg string) {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", reason),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeError(w, status, msg)
			}

			token, ok := bearerToken(r)
			if token == "" {
				recorder.IncAuthRejected(metrics.RejectMissing)
				reject(http.StatusUnauthorized, "missing_token", "Access token required")
				return
			}
			if !ok {
				recorder.IncAuthRejected(metrics.RejectInvalid)
				reject(http.StatusForbidden, "wrong_scheme", "Invalid token")
				return
			}

			identity, err := cfg.Verifier.Verify(token)
			if err != nil {
				reason := "invalid_token"
				if errors.Is(err, auth.ErrExpiredToken) {
					reason = "expired_token"
				}
				recorder.IncAuthRejected(metrics.RejectInvalid)
				reject(http.StatusForbidden, reason, "Invalid token")
				return
			}

			if cfg.Revocations != nil {
				revoked, err := cfg.Revocations.IsRevoked(r.Context(), identity.TokenID)
				if err != nil {
					cfg.Logger.Error("revocation lookup failed",
						slog.String("error", err.Error()),
						slog.String("request_id", GetRequestID(r.Context())),
					)
					writeError(w, http.StatusInternalServerError, "Internal server error")
					return
				}
				if revoked {
					recorder.IncAuthRejected(metrics.RejectRevoked)
					reject(http.StatusForbidden, "revoked_token", "Invalid token")
					return
				}
			}

			ctx := auth.ContextWithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the credential from the Authorization header.
// ok is false when a credential is present under a scheme other than Bearer.
func bearerToken(r *http.Request) (token string, ok bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", false
	}

	scheme, credential, found := strings.Cut(header, " ")
	if !found {
		return "", false
	}
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return "", false
	}
	if !strings.EqualFold(scheme, "Bearer") {
		return credential, false
	}
	return credential, true
}
