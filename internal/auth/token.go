package auth

import (
	"fmt"

	"github.com/google/uuid"
)

// NewSessionToken returns a random opaque session token (UUID v4).
func NewSessionToken() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return id.String(), nil
}
