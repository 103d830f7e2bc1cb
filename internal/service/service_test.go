package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IndraW01/API-Contact-Management/internal/apperror"
	"github.com/IndraW01/API-Contact-Management/internal/auth"
	"github.com/IndraW01/API-Contact-Management/internal/metrics"
	"github.com/IndraW01/API-Contact-Management/internal/model"
	"github.com/IndraW01/API-Contact-Management/internal/testutil"
	"github.com/IndraW01/API-Contact-Management/internal/validation"
)

var fastParams = auth.Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 16, SaltLen: 8}

type fixture struct {
	store    *testutil.MemoryStore
	sessions *testutil.MemorySessions
	metrics  *metrics.InMemoryRecorder
	users    *UserService
	contacts *ContactService
	address  *AddressService
	authn    *Authenticator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testutil.NewMemoryStore()
	sessions := testutil.NewMemorySessions()
	recorder := metrics.NewInMemory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	v := validation.New()
	guard := NewGuard(store, store)

	return &fixture{
		store:    store,
		sessions: sessions,
		metrics:  recorder,
		users:    NewUserService(store, sessions, auth.NewHasher(fastParams), v, recorder, logger),
		contacts: NewContactService(store, guard, v, recorder),
		address:  NewAddressService(store, guard, v, recorder),
		authn:    NewAuthenticator(store, sessions, recorder, logger),
	}
}

// register creates a user with password "rahasia".
func (f *fixture) register(t *testing.T, username string) {
	t.Helper()
	_, err := f.users.Register(context.Background(), model.RegisterUserRequest{
		Username: username,
		Password: "rahasia",
		Name:     username,
	})
	require.NoError(t, err)
}

func (f *fixture) contact(t *testing.T, username, firstName string) int64 {
	t.Helper()
	c, err := f.contacts.Create(context.Background(), username, model.ContactRequest{FirstName: firstName})
	require.NoError(t, err)
	return c.ID
}

func assertKind(t *testing.T, err error, kind apperror.Kind, msg string) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperror.As(err)
	require.True(t, ok, "expected *apperror.Error, got %T", err)
	assert.Equal(t, kind, appErr.Kind)
	if msg != "" {
		assert.Equal(t, msg, appErr.Message)
	}
}
