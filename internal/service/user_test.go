package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IndraW01/API-Contact-Management/internal/apperror"
	"github.com/IndraW01/API-Contact-Management/internal/model"
	"github.com/IndraW01/API-Contact-Management/internal/testutil"
)

func TestUserService_Register(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.users.Register(ctx, model.RegisterUserRequest{Username: "test", Password: "rahasia", Name: "test"})
	require.NoError(t, err)
	assert.Equal(t, model.UserResponse{Username: "test", Name: "test"}, *resp)

	stored := f.store.User("test")
	require.NotNil(t, stored)
	assert.NotEqual(t, "rahasia", stored.Password)
	assert.Nil(t, stored.Token)
	assert.Equal(t, uint64(1), f.metrics.Snapshot().UsersRegistered)
}

func TestUserService_RegisterDuplicate(t *testing.T) {
	f := newFixture(t)
	f.register(t, "test")

	_, err := f.users.Register(context.Background(), model.RegisterUserRequest{Username: "test", Password: "other", Name: "other"})
	assertKind(t, err, apperror.KindAlreadyExists, apperror.MsgUsernameExists)
	assert.Equal(t, 1, f.store.UserCount())
	assert.Equal(t, "test", f.store.User("test").Name)
}

func TestUserService_RegisterValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.users.Register(context.Background(), model.RegisterUserRequest{})
	assertKind(t, err, apperror.KindValidation, "")

	appErr, _ := apperror.As(err)
	assert.Len(t, appErr.Fields, 3)
	assert.Contains(t, appErr.Message, `"username" is required`)
	assert.Equal(t, 0, f.store.UserCount())
}

func TestUserService_RegisterStoreFailure(t *testing.T) {
	f := newFixture(t)
	f.store.FailWith(errors.New("connection refused"))

	_, err := f.users.Register(context.Background(), model.RegisterUserRequest{Username: "test", Password: "rahasia", Name: "test"})
	assertKind(t, err, apperror.KindInternal, apperror.MsgInternal)
}

func TestUserService_Login(t *testing.T) {
	f := newFixture(t)
	f.register(t, "test")

	resp, err := f.users.Login(context.Background(), model.LoginUserRequest{Username: "test", Password: "rahasia"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	stored := f.store.User("test")
	require.NotNil(t, stored.Token)
	assert.Equal(t, resp.Token, *stored.Token)
	assert.Equal(t, uint64(1), f.metrics.Snapshot().Logins["success"])
}

func TestUserService_LoginFailuresAreIndistinguishable(t *testing.T) {
	f := newFixture(t)
	f.register(t, "test")
	ctx := context.Background()

	_, wrongPassword := f.users.Login(ctx, model.LoginUserRequest{Username: "test", Password: "salah"})
	_, unknownUser := f.users.Login(ctx, model.LoginUserRequest{Username: "nobody", Password: "rahasia"})

	assertKind(t, wrongPassword, apperror.KindUnauthenticated, apperror.MsgBadCredentials)
	assertKind(t, unknownUser, apperror.KindUnauthenticated, apperror.MsgBadCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
	assert.Nil(t, f.store.User("test").Token)
	assert.Equal(t, uint64(2), f.metrics.Snapshot().Logins["failed"])
}

func TestUserService_LoginReplacesToken(t *testing.T) {
	f := newFixture(t)
	f.register(t, "test")
	ctx := context.Background()

	first, err := f.users.Login(ctx, model.LoginUserRequest{Username: "test", Password: "rahasia"})
	require.NoError(t, err)
	_, err = f.authn.Authenticate(ctx, first.Token)
	require.NoError(t, err)
	require.True(t, f.sessions.Has(first.Token))

	second, err := f.users.Login(ctx, model.LoginUserRequest{Username: "test", Password: "rahasia"})
	require.NoError(t, err)
	assert.NotEqual(t, first.Token, second.Token)
	assert.False(t, f.sessions.Has(first.Token))

	_, err = f.authn.Authenticate(ctx, first.Token)
	assertKind(t, err, apperror.KindUnauthenticated, apperror.MsgUnauthorized)

	p, err := f.authn.Authenticate(ctx, second.Token)
	require.NoError(t, err)
	assert.Equal(t, "test", p.Username)
}

func TestUserService_LoginTokenGeneratorFailure(t *testing.T) {
	f := newFixture(t)
	f.register(t, "test")
	f.users.newToken = func() (string, error) { return "", errors.New("entropy exhausted") }

	_, err := f.users.Login(context.Background(), model.LoginUserRequest{Username: "test", Password: "rahasia"})
	assertKind(t, err, apperror.KindInternal, "")
	assert.Nil(t, f.store.User("test").Token)
}

func TestUserService_Get(t *testing.T) {
	f := newFixture(t)
	f.register(t, "test")

	resp, err := f.users.Get(context.Background(), "test")
	require.NoError(t, err)
	assert.Equal(t, "test", resp.Username)

	_, err = f.users.Get(context.Background(), "nobody")
	assertKind(t, err, apperror.KindNotFound, apperror.MsgUserNotFound)
}

func TestUserService_Update(t *testing.T) {
	f := newFixture(t)
	f.register(t, "test")
	ctx := context.Background()
	oldHash := f.store.User("test").Password

	resp, err := f.users.Update(ctx, "test", model.UpdateUserRequest{Name: testutil.Ptr("Budi")})
	require.NoError(t, err)
	assert.Equal(t, "Budi", resp.Name)
	assert.Equal(t, oldHash, f.store.User("test").Password)

	_, err = f.users.Update(ctx, "test", model.UpdateUserRequest{Password: testutil.Ptr("baru")})
	require.NoError(t, err)
	assert.Equal(t, "Budi", f.store.User("test").Name)

	_, err = f.users.Login(ctx, model.LoginUserRequest{Username: "test", Password: "rahasia"})
	assertKind(t, err, apperror.KindUnauthenticated, apperror.MsgBadCredentials)
	_, err = f.users.Login(ctx, model.LoginUserRequest{Username: "test", Password: "baru"})
	require.NoError(t, err)
}

func TestUserService_UpdateEmptyKeepsUser(t *testing.T) {
	f := newFixture(t)
	f.register(t, "test")

	resp, err := f.users.Update(context.Background(), "test", model.UpdateUserRequest{})
	require.NoError(t, err)
	assert.Equal(t, model.UserResponse{Username: "test", Name: "test"}, *resp)
}

func TestUserService_UpdateValidation(t *testing.T) {
	f := newFixture(t)
	f.register(t, "test")

	_, err := f.users.Update(context.Background(), "test", model.UpdateUserRequest{Name: testutil.Ptr("")})
	assertKind(t, err, apperror.KindValidation, `"name" is not allowed to be empty`)
}

func TestUserService_Logout(t *testing.T) {
	f := newFixture(t)
	f.register(t, "test")
	ctx := context.Background()

	login, err := f.users.Login(ctx, model.LoginUserRequest{Username: "test", Password: "rahasia"})
	require.NoError(t, err)
	_, err = f.authn.Authenticate(ctx, login.Token)
	require.NoError(t, err)

	require.NoError(t, f.users.Logout(ctx, "test"))

	stored := f.store.User("test")
	assert.Nil(t, stored.Token)
	assert.Equal(t, "test", stored.Name)
	assert.Contains(t, f.sessions.Deletes, login.Token)

	_, err = f.authn.Authenticate(ctx, login.Token)
	assertKind(t, err, apperror.KindUnauthenticated, apperror.MsgUnauthorized)
}

func TestUserService_LogoutUnknownUser(t *testing.T) {
	f := newFixture(t)

	err := f.users.Logout(context.Background(), "nobody")
	assertKind(t, err, apperror.KindNotFound, apperror.MsgUserNotFound)
}

func TestUserService_SessionCacheFailureDoesNotFailLogin(t *testing.T) {
	f := newFixture(t)
	f.register(t, "test")
	ctx := context.Background()

	_, err := f.users.Login(ctx, model.LoginUserRequest{Username: "test", Password: "rahasia"})
	require.NoError(t, err)

	f.sessions.FailWith(errors.New("redis down"))
	_, err = f.users.Login(ctx, model.LoginUserRequest{Username: "test", Password: "rahasia"})
	require.NoError(t, err)
}
