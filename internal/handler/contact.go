package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/IndraW01/API-Contact-Management/internal/apperror"
	"github.com/IndraW01/API-Contact-Management/internal/handler/dto"
	"github.com/IndraW01/API-Contact-Management/internal/model"
	"github.com/IndraW01/API-Contact-Management/internal/service"
	"github.com/IndraW01/API-Contact-Management/internal/validation"
)

// ContactHandler handles HTTP requests for contacts.
type ContactHandler struct {
	svc       *service.ContactService
	validator *validation.Validator
	errs      *ErrorWriter
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(svc *service.ContactService, v *validation.Validator, errs *ErrorWriter) *ContactHandler {
	return &ContactHandler{svc: svc, validator: v, errs: errs}
}

// Create handles POST /api/contacts.
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	username, err := principal(r)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	var req model.ContactRequest
	if err := decodeJSON(r, &req); err != nil {
		h.errs.Write(w, r, err)
		return
	}

	contact, err := h.svc.Create(r.Context(), username, req)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	writeData(w, http.StatusOK, contact)
}

// Get handles GET /api/contacts/{contactId}.
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	username, contactID, err := h.target(r)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	contact, err := h.svc.Get(r.Context(), username, contactID)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	writeData(w, http.StatusOK, contact)
}

// Update handles PUT /api/contacts/{contactId}.
func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	username, contactID, err := h.target(r)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	var req model.ContactRequest
	if err := decodeJSON(r, &req); err != nil {
		h.errs.Write(w, r, err)
		return
	}

	contact, err := h.svc.Update(r.Context(), username, contactID, req)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	writeData(w, http.StatusOK, contact)
}

// Remove handles DELETE /api/contacts/{contactId}.
func (h *ContactHandler) Remove(w http.ResponseWriter, r *http.Request) {
	username, contactID, err := h.target(r)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	if err := h.svc.Remove(r.Context(), username, contactID); err != nil {
		h.errs.Write(w, r, err)
		return
	}
	writeData(w, http.StatusOK, dto.OK)
}

// Search handles GET /api/contacts.
func (h *ContactHandler) Search(w http.ResponseWriter, r *http.Request) {
	username, err := principal(r)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	req, err := parseSearch(r.URL.Query())
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	page, err := h.svc.Search(r.Context(), username, req)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToPagedResponse(page))
}

func (h *ContactHandler) target(r *http.Request) (string, int64, error) {
	username, err := principal(r)
	if err != nil {
		return "", 0, err
	}
	contactID, err := h.validator.ID("contactId", chi.URLParam(r, "contactId"))
	if err != nil {
		return "", 0, err
	}
	return username, contactID, nil
}

// parseSearch reads the search query. Absent or empty parameters take
// their defaults; range checks are left to the validator.
func parseSearch(q url.Values) (model.SearchContactRequest, error) {
	req := service.NewSearchRequest()
	var msgs []string

	for _, p := range []struct {
		name string
		dst  *int
	}{
		{"page", &req.Page},
		{"size", &req.Size},
	} {
		raw := strings.TrimSpace(q.Get(p.name))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			msgs = append(msgs, fmt.Sprintf("%q must be a number", p.name))
			continue
		}
		*p.dst = n
	}

	req.Name = q.Get("name")
	req.Email = q.Get("email")
	req.Phone = q.Get("phone")

	if len(msgs) > 0 {
		return req, apperror.Validation(msgs...)
	}
	return req, nil
}
