package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/IndraW01/API-Contact-Management/internal/handler/dto"
	"github.com/IndraW01/API-Contact-Management/internal/model"
	"github.com/IndraW01/API-Contact-Management/internal/service"
	"github.com/IndraW01/API-Contact-Management/internal/validation"
)

// AddressHandler handles HTTP requests for the addresses of a contact.
type AddressHandler struct {
	svc       *service.AddressService
	validator *validation.Validator
	errs      *ErrorWriter
}

// NewAddressHandler creates a new AddressHandler.
func NewAddressHandler(svc *service.AddressService, v *validation.Validator, errs *ErrorWriter) *AddressHandler {
	return &AddressHandler{svc: svc, validator: v, errs: errs}
}

type addressTarget struct {
	username  string
	contactID int64
	addressID int64
}

func (h *AddressHandler) target(r *http.Request, withAddress bool) (addressTarget, error) {
	var t addressTarget
	username, err := principal(r)
	if err != nil {
		return t, err
	}
	t.username = username

	if t.contactID, err = h.validator.ID("contactId", chi.URLParam(r, "contactId")); err != nil {
		return t, err
	}
	if withAddress {
		if t.addressID, err = h.validator.ID("addressId", chi.URLParam(r, "addressId")); err != nil {
			return t, err
		}
	}
	return t, nil
}

// Create handles POST /api/contacts/{contactId}/addresses.
func (h *AddressHandler) Create(w http.ResponseWriter, r *http.Request) {
	t, err := h.target(r, false)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	var req model.AddressRequest
	if err := decodeJSON(r, &req); err != nil {
		h.errs.Write(w, r, err)
		return
	}

	address, err := h.svc.Create(r.Context(), t.username, t.contactID, req)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	writeData(w, http.StatusOK, address)
}

// Get handles GET /api/contacts/{contactId}/addresses/{addressId}.
func (h *AddressHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.target(r, true)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	address, err := h.svc.Get(r.Context(), t.username, t.contactID, t.addressID)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	writeData(w, http.StatusOK, address)
}

// Update handles PUT /api/contacts/{contactId}/addresses/{addressId}.
func (h *AddressHandler) Update(w http.ResponseWriter, r *http.Request) {
	t, err := h.target(r, true)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	var req model.AddressRequest
	if err := decodeJSON(r, &req); err != nil {
		h.errs.Write(w, r, err)
		return
	}

	address, err := h.svc.Update(r.Context(), t.username, t.contactID, t.addressID, req)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	writeData(w, http.StatusOK, address)
}

// Remove handles DELETE /api/contacts/{contactId}/addresses/{addressId}.
func (h *AddressHandler) Remove(w http.ResponseWriter, r *http.Request) {
	t, err := h.target(r, true)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	if err := h.svc.Remove(r.Context(), t.username, t.contactID, t.addressID); err != nil {
		h.errs.Write(w, r, err)
		return
	}
	writeData(w, http.StatusOK, dto.OK)
}

// List handles GET /api/contacts/{contactId}/addresses.
func (h *AddressHandler) List(w http.ResponseWriter, r *http.Request) {
	t, err := h.target(r, false)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	addresses, err := h.svc.List(r.Context(), t.username, t.contactID)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	writeData(w, http.StatusOK, addresses)
}
