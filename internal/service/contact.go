package service

import (
	"context"
	"errors"
	"time"

	"github.com/IndraW01/API-Contact-Management/internal/apperror"
	"github.com/IndraW01/API-Contact-Management/internal/metrics"
	"github.com/IndraW01/API-Contact-Management/internal/model"
	"github.com/IndraW01/API-Contact-Management/internal/repository"
	"github.com/IndraW01/API-Contact-Management/internal/validation"
)

// ContactService handles a user's contacts.
type ContactService struct {
	contacts  ContactStore
	guard     *Guard
	validator *validation.Validator
	metrics   metrics.Recorder
}

// NewContactService creates a new contact service.
func NewContactService(contacts ContactStore, guard *Guard, v *validation.Validator, recorder metrics.Recorder) *ContactService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &ContactService{
		contacts:  contacts,
		guard:     guard,
		validator: v,
		metrics:   recorder,
	}
}

// Create adds a contact owned by username.
func (s *ContactService) Create(ctx context.Context, username string, req model.ContactRequest) (*model.ContactResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	contact := &model.Contact{
		Username:  username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	}
	if err := s.contacts.CreateContact(ctx, contact); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.NotFound(apperror.MsgUserNotFound)
		}
		return nil, internalErr("create contact", err)
	}

	s.metrics.IncEntityOperation(metrics.EntityContact, metrics.OpCreate)
	resp := contact.ToResponse()
	return &resp, nil
}

// Get returns one of username's contacts.
func (s *ContactService) Get(ctx context.Context, username string, contactID int64) (*model.ContactResponse, error) {
	contact, err := s.contacts.GetContact(ctx, username, contactID)
	if err != nil {
		return nil, contactErr("get contact", err)
	}
	resp := contact.ToResponse()
	return &resp, nil
}

// Update replaces firstName and the optional fields that are present in
// req. Omitted optional fields keep their stored value.
func (s *ContactService) Update(ctx context.Context, username string, contactID int64, req model.ContactRequest) (*model.ContactResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	if _, err := s.guard.EnsureContactOwned(ctx, username, contactID); err != nil {
		return nil, err
	}

	patch := model.ContactPatch{
		FirstName: req.FirstName,
		LastName:  model.FromPtr(req.LastName),
		Email:     model.FromPtr(req.Email),
		Phone:     model.FromPtr(req.Phone),
	}
	contact, err := s.contacts.UpdateContact(ctx, username, contactID, patch)
	if err != nil {
		return nil, contactErr("update contact", err)
	}

	s.metrics.IncEntityOperation(metrics.EntityContact, metrics.OpUpdate)
	resp := contact.ToResponse()
	return &resp, nil
}

// Remove deletes a contact and its addresses.
func (s *ContactService) Remove(ctx context.Context, username string, contactID int64) error {
	if _, err := s.guard.EnsureContactOwned(ctx, username, contactID); err != nil {
		return err
	}
	if err := s.contacts.DeleteContact(ctx, username, contactID); err != nil {
		return contactErr("delete contact", err)
	}
	s.metrics.IncEntityOperation(metrics.EntityContact, metrics.OpDelete)
	return nil
}

// Search returns one page of username's contacts matching req. Page and
// Size must already carry their defaults; see NewSearchRequest.
func (s *ContactService) Search(ctx context.Context, username string, req model.SearchContactRequest) (*model.ContactPage, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	start := time.Now()
	contacts, total, err := s.contacts.SearchContacts(ctx, model.ContactFilter{
		Username: username,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Page:     req.Page,
		Size:     req.Size,
	})
	if err != nil {
		return nil, internalErr("search contacts", err)
	}
	s.metrics.ObserveSearchDuration(time.Since(start))

	data := make([]model.ContactResponse, 0, len(contacts))
	for _, c := range contacts {
		data = append(data, c.ToResponse())
	}
	return &model.ContactPage{
		Data:   data,
		Paging: model.NewPaging(req.Page, req.Size, total),
	}, nil
}

// NewSearchRequest returns a search request with default paging.
func NewSearchRequest() model.SearchContactRequest {
	return model.SearchContactRequest{Page: model.DefaultPage, Size: model.DefaultSize}
}

func contactErr(op string, err error) error {
	if errors.Is(err, repository.ErrContactNotFound) {
		return apperror.NotFound(apperror.MsgContactNotFound)
	}
	return internalErr(op, err)
}
