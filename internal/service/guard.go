package service

import (
	"context"

	"github.com/IndraW01/API-Contact-Management/internal/apperror"
)

// Guard enforces the ownership chain address -> contact -> user.
// A resource that exists but belongs to someone else is reported exactly
// like one that does not exist.
type Guard struct {
	contacts  ContactCounter
	addresses AddressCounter
}

// NewGuard creates a Guard.
func NewGuard(contacts ContactCounter, addresses AddressCounter) *Guard {
	return &Guard{contacts: contacts, addresses: addresses}
}

// EnsureContactOwned succeeds when exactly one contact with contactID is
// owned by username.
func (g *Guard) EnsureContactOwned(ctx context.Context, username string, contactID int64) (int64, error) {
	n, err := g.contacts.CountContacts(ctx, username, contactID)
	if err != nil {
		return 0, internalErr("check contact ownership", err)
	}
	if n != 1 {
		return 0, apperror.NotFound(apperror.MsgContactNotFound)
	}
	return contactID, nil
}

// EnsureAddressOwned succeeds when exactly one address with addressID
// belongs to contactID. It does not check the contact's owner.
func (g *Guard) EnsureAddressOwned(ctx context.Context, contactID, addressID int64) (int64, error) {
	n, err := g.addresses.CountAddresses(ctx, contactID, addressID)
	if err != nil {
		return 0, internalErr("check address ownership", err)
	}
	if n != 1 {
		return 0, apperror.NotFound(apperror.MsgAddressNotFound)
	}
	return addressID, nil
}

// EnsureAddressReachable checks both links of the chain.
func (g *Guard) EnsureAddressReachable(ctx context.Context, username string, contactID, addressID int64) error {
	if _, err := g.EnsureContactOwned(ctx, username, contactID); err != nil {
		return err
	}
	_, err := g.EnsureAddressOwned(ctx, contactID, addressID)
	return err
}
