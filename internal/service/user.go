package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/IndraW01/API-Contact-Management/internal/apperror"
	"github.com/IndraW01/API-Contact-Management/internal/auth"
	"github.com/IndraW01/API-Contact-Management/internal/metrics"
	"github.com/IndraW01/API-Contact-Management/internal/model"
	"github.com/IndraW01/API-Contact-Management/internal/repository"
	"github.com/IndraW01/API-Contact-Management/internal/validation"
)

// UserService handles account registration and sessions.
type UserService struct {
	users     UserStore
	sessions  SessionCache
	hasher    *auth.Hasher
	validator *validation.Validator
	metrics   metrics.Recorder
	logger    *slog.Logger
	newToken  func() (string, error)
}

// NewUserService creates a new user service. sessions may be nil.
func NewUserService(users UserStore, sessions SessionCache, hasher *auth.Hasher, v *validation.Validator, recorder metrics.Recorder, logger *slog.Logger) *UserService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{
		users:     users,
		sessions:  sessions,
		hasher:    hasher,
		validator: v,
		metrics:   recorder,
		logger:    logger,
		newToken:  auth.NewSessionToken,
	}
}

// Register creates a user. A taken username is reported as AlreadyExists.
func (s *UserService) Register(ctx context.Context, req model.RegisterUserRequest) (*model.UserResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, internalErr("hash password", err)
	}

	user := &model.User{
		Username: req.Username,
		Name:     req.Name,
		Password: hash,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			return nil, apperror.AlreadyExists(apperror.MsgUsernameExists)
		}
		return nil, internalErr("create user", err)
	}

	s.metrics.IncUserRegistered()
	resp := user.ToResponse()
	return &resp, nil
}

// Login checks credentials and issues a new session token, replacing any
// previous one. Unknown usernames and wrong passwords fail identically.
func (s *UserService) Login(ctx context.Context, req model.LoginUserRequest) (*model.TokenResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.hasher.VerifyDummy(req.Password)
			return nil, s.badCredentials()
		}
		return nil, internalErr("get user", err)
	}

	ok, err := s.hasher.Verify(req.Password, user.Password)
	if err != nil {
		return nil, internalErr("verify password", err)
	}
	if !ok {
		return nil, s.badCredentials()
	}

	token, err := s.newToken()
	if err != nil {
		return nil, internalErr("generate token", err)
	}
	if err := s.users.SetUserToken(ctx, user.Username, &token); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, s.badCredentials()
		}
		return nil, internalErr("store token", err)
	}

	if user.HasSession() {
		s.forgetSession(ctx, *user.Token)
	}

	s.metrics.IncLogin("success")
	return &model.TokenResponse{Token: token}, nil
}

// Get returns the user's public projection.
func (s *UserService) Get(ctx context.Context, username string) (*model.UserResponse, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.NotFound(apperror.MsgUserNotFound)
		}
		return nil, internalErr("get user", err)
	}
	resp := user.ToResponse()
	return &resp, nil
}

// Update changes name and/or password. Omitted fields are kept.
func (s *UserService) Update(ctx context.Context, username string, req model.UpdateUserRequest) (*model.UserResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	patch := model.UserPatch{Name: model.FromPtr(req.Name)}
	if req.Password != nil {
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, internalErr("hash password", err)
		}
		patch.Password = model.Some(hash)
	}

	user, err := s.users.UpdateUser(ctx, username, patch)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.NotFound(apperror.MsgUserNotFound)
		}
		return nil, internalErr("update user", err)
	}
	resp := user.ToResponse()
	return &resp, nil
}

// Logout clears the stored token. The user row is otherwise untouched.
func (s *UserService) Logout(ctx context.Context, username string) error {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperror.NotFound(apperror.MsgUserNotFound)
		}
		return internalErr("get user", err)
	}

	if err := s.users.SetUserToken(ctx, username, nil); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperror.NotFound(apperror.MsgUserNotFound)
		}
		return internalErr("clear token", err)
	}

	if user.HasSession() {
		s.forgetSession(ctx, *user.Token)
	}
	return nil
}

func (s *UserService) badCredentials() error {
	s.metrics.IncLogin("failed")
	return apperror.Unauthenticated(apperror.MsgBadCredentials)
}

// forgetSession drops a replaced token from the session cache. Failures
// only delay revocation until the entry's TTL runs out.
func (s *UserService) forgetSession(ctx context.Context, token string) {
	if s.sessions == nil {
		return
	}
	if err := s.sessions.DeleteSession(ctx, token); err != nil {
		s.logger.Warn("failed to invalidate cached session", "error", err)
	}
}
