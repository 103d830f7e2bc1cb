package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/IndraW01/API-Contact-Management/internal/apperror"
	"github.com/IndraW01/API-Contact-Management/internal/metrics"
	"github.com/IndraW01/API-Contact-Management/internal/model"
	"github.com/IndraW01/API-Contact-Management/internal/repository"
)

// TokenLookup resolves a session token to its user.
type TokenLookup interface {
	GetUserByToken(ctx context.Context, token string) (*model.User, error)
}

// Authenticator resolves session tokens to principals. Lookups go through
// the session cache when one is configured.
type Authenticator struct {
	users    TokenLookup
	sessions SessionCache
	metrics  metrics.Recorder
	logger   *slog.Logger
}

// NewAuthenticator creates an Authenticator. sessions may be nil.
func NewAuthenticator(users TokenLookup, sessions SessionCache, recorder metrics.Recorder, logger *slog.Logger) *Authenticator {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticator{
		users:    users,
		sessions: sessions,
		metrics:  recorder,
		logger:   logger,
	}
}

// Authenticate returns the principal owning token. Missing and unknown
// tokens both yield Unauthenticated with the same message.
func (a *Authenticator) Authenticate(ctx context.Context, token string) (*model.Principal, error) {
	if token == "" {
		return nil, apperror.Unauthenticated(apperror.MsgUnauthorized)
	}

	if a.sessions != nil {
		username, ok, err := a.sessions.GetSession(ctx, token)
		switch {
		case err != nil:
			a.metrics.IncSessionCache("error")
			a.logger.Warn("session cache lookup failed", "error", err)
		case ok:
			a.metrics.IncSessionCache("hit")
			return &model.Principal{Username: username}, nil
		default:
			a.metrics.IncSessionCache("miss")
		}
	}

	user, err := a.users.GetUserByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.Unauthenticated(apperror.MsgUnauthorized)
		}
		return nil, internalErr("get user by token", err)
	}

	if a.sessions != nil {
		if err := a.sessions.SetSession(ctx, token, user.Username); err != nil {
			a.logger.Warn("failed to cache session", "error", err)
		} else if err := a.confirmCached(ctx, token, user.Username); err != nil {
			return nil, err
		}
	}

	return &model.Principal{Username: user.Username}, nil
}

// confirmCached re-reads token after a cache fill. Login and logout clear
// the stored token before dropping the cache entry, so a fill racing them
// is caught here and removed.
func (a *Authenticator) confirmCached(ctx context.Context, token, username string) error {
	user, err := a.users.GetUserByToken(ctx, token)
	if err == nil && user.Username == username {
		return nil
	}

	if delErr := a.sessions.DeleteSession(ctx, token); delErr != nil {
		a.logger.Warn("failed to drop revoked session", "error", delErr)
	}
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return internalErr("confirm session", err)
	}
	return apperror.Unauthenticated(apperror.MsgUnauthorized)
}
