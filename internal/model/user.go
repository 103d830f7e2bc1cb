// Package model defines domain entities for the application.
package model

import "time"

// User is an account owning contacts. Username is the primary key.
type User struct {
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Password  string    `json:"-"` // argon2id hash, never serialized
	Token     *string   `json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// HasSession reports whether the user currently holds a session token.
func (u *User) HasSession() bool {
	return u.Token != nil && *u.Token != ""
}

// UserResponse is the public projection of a user.
type UserResponse struct {
	Username string `json:"username"`
	Name     string `json:"name"`
}

// ToResponse converts a User to UserResponse.
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		Username: u.Username,
		Name:     u.Name,
	}
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	Token string `json:"token"`
}

// UserPatch holds the columns an update may change.
// Password carries the already hashed value.
type UserPatch struct {
	Name     Field[string]
	Password Field[string]
}

// IsEmpty reports whether the patch changes nothing.
func (p UserPatch) IsEmpty() bool {
	return !p.Name.Set && !p.Password.Set
}

// Principal is the authenticated caller injected into the request context
// by the auth middleware.
type Principal struct {
	Username string
}
