package service

import (
	"context"
	"errors"

	"github.com/IndraW01/API-Contact-Management/internal/apperror"
	"github.com/IndraW01/API-Contact-Management/internal/metrics"
	"github.com/IndraW01/API-Contact-Management/internal/model"
	"github.com/IndraW01/API-Contact-Management/internal/repository"
	"github.com/IndraW01/API-Contact-Management/internal/validation"
)

// AddressService handles the addresses of a user's contacts. Every
// operation first checks that the contact belongs to the caller.
type AddressService struct {
	addresses AddressStore
	guard     *Guard
	validator *validation.Validator
	metrics   metrics.Recorder
}

// NewAddressService creates a new address service.
func NewAddressService(addresses AddressStore, guard *Guard, v *validation.Validator, recorder metrics.Recorder) *AddressService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AddressService{
		addresses: addresses,
		guard:     guard,
		validator: v,
		metrics:   recorder,
	}
}

// Create adds an address to contactID.
func (s *AddressService) Create(ctx context.Context, username string, contactID int64, req model.AddressRequest) (*model.AddressResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	if _, err := s.guard.EnsureContactOwned(ctx, username, contactID); err != nil {
		return nil, err
	}

	address := &model.Address{
		ContactID:  contactID,
		Street:     req.Street,
		City:       req.City,
		Province:   req.Province,
		Country:    req.Country,
		PostalCode: req.PostalCode,
	}
	if err := s.addresses.CreateAddress(ctx, address); err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			return nil, apperror.NotFound(apperror.MsgContactNotFound)
		}
		return nil, internalErr("create address", err)
	}

	s.metrics.IncEntityOperation(metrics.EntityAddress, metrics.OpCreate)
	resp := address.ToResponse()
	return &resp, nil
}

// Get returns one address of contactID.
func (s *AddressService) Get(ctx context.Context, username string, contactID, addressID int64) (*model.AddressResponse, error) {
	if _, err := s.guard.EnsureContactOwned(ctx, username, contactID); err != nil {
		return nil, err
	}
	address, err := s.addresses.GetAddress(ctx, contactID, addressID)
	if err != nil {
		return nil, addressErr("get address", err)
	}
	resp := address.ToResponse()
	return &resp, nil
}

// Update replaces country and postalCode and the optional fields present
// in req.
func (s *AddressService) Update(ctx context.Context, username string, contactID, addressID int64, req model.AddressRequest) (*model.AddressResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	if err := s.guard.EnsureAddressReachable(ctx, username, contactID, addressID); err != nil {
		return nil, err
	}

	patch := model.AddressPatch{
		Street:     model.FromPtr(req.Street),
		City:       model.FromPtr(req.City),
		Province:   model.FromPtr(req.Province),
		Country:    req.Country,
		PostalCode: req.PostalCode,
	}
	address, err := s.addresses.UpdateAddress(ctx, contactID, addressID, patch)
	if err != nil {
		return nil, addressErr("update address", err)
	}

	s.metrics.IncEntityOperation(metrics.EntityAddress, metrics.OpUpdate)
	resp := address.ToResponse()
	return &resp, nil
}

// Remove deletes one address of contactID.
func (s *AddressService) Remove(ctx context.Context, username string, contactID, addressID int64) error {
	if err := s.guard.EnsureAddressReachable(ctx, username, contactID, addressID); err != nil {
		return err
	}
	if err := s.addresses.DeleteAddress(ctx, contactID, addressID); err != nil {
		return addressErr("delete address", err)
	}
	s.metrics.IncEntityOperation(metrics.EntityAddress, metrics.OpDelete)
	return nil
}

// List returns every address of contactID ordered by id.
func (s *AddressService) List(ctx context.Context, username string, contactID int64) ([]model.AddressResponse, error) {
	if _, err := s.guard.EnsureContactOwned(ctx, username, contactID); err != nil {
		return nil, err
	}
	addresses, err := s.addresses.ListAddresses(ctx, contactID)
	if err != nil {
		return nil, internalErr("list addresses", err)
	}

	resp := make([]model.AddressResponse, 0, len(addresses))
	for _, a := range addresses {
		resp = append(resp, a.ToResponse())
	}
	return resp, nil
}

func addressErr(op string, err error) error {
	if errors.Is(err, repository.ErrAddressNotFound) {
		return apperror.NotFound(apperror.MsgAddressNotFound)
	}
	return internalErr(op, err)
}
