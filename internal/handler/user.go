package handler

import (
	"log/slog"
	"net/http"

	"github.com/IndraW01/API-Contact-Management/internal/handler/dto"
	"github.com/IndraW01/API-Contact-Management/internal/model"
	"github.com/IndraW01/API-Contact-Management/internal/service"
)

// UserHandler handles HTTP requests for accounts and sessions.
type UserHandler struct {
	svc    *service.UserService
	errs   *ErrorWriter
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.UserService, errs *ErrorWriter, logger *slog.Logger) *UserHandler {
	return &UserHandler{svc: svc, errs: errs, logger: logger}
}

// Register handles POST /api/users.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterUserRequest
	if err := decodeJSON(r, &req); err != nil {
		h.errs.Write(w, r, err)
		return
	}

	user, err := h.svc.Register(r.Context(), req)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	h.logger.Info("user_registered", "username", user.Username)
	writeData(w, http.StatusOK, user)
}

// Login handles POST /api/users/login.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginUserRequest
	if err := decodeJSON(r, &req); err != nil {
		h.errs.Write(w, r, err)
		return
	}

	token, err := h.svc.Login(r.Context(), req)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	writeData(w, http.StatusOK, token)
}

// Current handles GET /api/users/current.
func (h *UserHandler) Current(w http.ResponseWriter, r *http.Request) {
	username, err := principal(r)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	user, err := h.svc.Get(r.Context(), username)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	writeData(w, http.StatusOK, user)
}

// Update handles PATCH /api/users/current.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	username, err := principal(r)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	var req model.UpdateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		h.errs.Write(w, r, err)
		return
	}

	user, err := h.svc.Update(r.Context(), username, req)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	writeData(w, http.StatusOK, user)
}

// Logout handles DELETE /api/users/logout.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	username, err := principal(r)
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}

	if err := h.svc.Logout(r.Context(), username); err != nil {
		h.errs.Write(w, r, err)
		return
	}

	h.logger.Info("user_logged_out", "username", username)
	writeData(w, http.StatusOK, dto.OK)
}
