// Package testutil holds helpers shared by unit, integration and e2e tests.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/IndraW01/API-Contact-Management/internal/migrations"
	"github.com/IndraW01/API-Contact-Management/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 420420

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, db *sql.DB) (func() error, error) {
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.ExecContext(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Close()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Close()
		if _, err := conn.ExecContext(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// ResetSchema rolls every migration back and applies them again, leaving
// empty tables.
func ResetSchema(ctx context.Context, db *sql.DB) error {
	if err := migrations.Reset(ctx, db); err != nil {
		return fmt.Errorf("reset schema: %w", err)
	}
	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestUser creates a user with a placeholder password hash.
func NewTestUser(t testing.TB, username string) *model.User {
	t.Helper()
	return &model.User{
		Username: username,
		Name:     "Test " + username,
		Password: "not-a-real-hash",
	}
}

// NewTestContact creates a contact owned by username.
func NewTestContact(t testing.TB, username, firstName string) *model.Contact {
	t.Helper()
	return &model.Contact{
		Username:  username,
		FirstName: firstName,
	}
}

// NewTestAddress creates an address for contactID.
func NewTestAddress(t testing.TB, contactID int64) *model.Address {
	t.Helper()
	return &model.Address{
		ContactID:  contactID,
		Country:    "Indonesia",
		PostalCode: "12345",
	}
}

// UniqueUsername generates a unique username for tests.
func UniqueUsername(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
