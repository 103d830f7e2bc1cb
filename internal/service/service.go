// Package service provides business logic for the application.
//
// Every operation follows the same pipeline: validate the payload, check
// ownership, run one persistence call, and return the public projection or
// an *apperror.Error.
package service

import (
	"context"
	"fmt"

	"github.com/IndraW01/API-Contact-Management/internal/apperror"
	"github.com/IndraW01/API-Contact-Management/internal/model"
)

// UserStore persists users.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByToken(ctx context.Context, token string) (*model.User, error)
	SetUserToken(ctx context.Context, username string, token *string) error
	UpdateUser(ctx context.Context, username string, patch model.UserPatch) (*model.User, error)
}

// ContactCounter is the contact link of the ownership chain.
type ContactCounter interface {
	CountContacts(ctx context.Context, username string, id int64) (int64, error)
}

// AddressCounter is the address link of the ownership chain.
type AddressCounter interface {
	CountAddresses(ctx context.Context, contactID, id int64) (int64, error)
}

// ContactStore persists contacts.
type ContactStore interface {
	ContactCounter
	CreateContact(ctx context.Context, c *model.Contact) error
	GetContact(ctx context.Context, username string, id int64) (*model.Contact, error)
	UpdateContact(ctx context.Context, username string, id int64, patch model.ContactPatch) (*model.Contact, error)
	DeleteContact(ctx context.Context, username string, id int64) error
	SearchContacts(ctx context.Context, f model.ContactFilter) ([]*model.Contact, int64, error)
}

// AddressStore persists addresses.
type AddressStore interface {
	AddressCounter
	CreateAddress(ctx context.Context, a *model.Address) error
	GetAddress(ctx context.Context, contactID, id int64) (*model.Address, error)
	UpdateAddress(ctx context.Context, contactID, id int64, patch model.AddressPatch) (*model.Address, error)
	DeleteAddress(ctx context.Context, contactID, id int64) error
	ListAddresses(ctx context.Context, contactID int64) ([]*model.Address, error)
}

// SessionCache caches token -> username lookups. It is optional; a nil
// SessionCache disables caching.
type SessionCache interface {
	GetSession(ctx context.Context, token string) (string, bool, error)
	SetSession(ctx context.Context, token, username string) error
	DeleteSession(ctx context.Context, token string) error
}

func internalErr(op string, err error) error {
	return apperror.Internal(fmt.Errorf("%s: %w", op, err))
}
