package httpapi

import (
	"net/http"

	wire "github.com/dmitrijs2005/salonadmin/internal/client/models"
)

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var creds wire.Credentials
	if err := decodeJSON(w, r, &creds); err != nil {
		h.fail(w, r, err)
		return
	}

	res, err := h.users.Login(r.Context(), creds.Email, creds.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.logger.Info(r.Context(), "login", "user_id", res.User.ID, "role", res.User.Role)
	writeData(w, http.StatusOK, res)
}

func (h *handler) register(w http.ResponseWriter, r *http.Request) {
	var req wire.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	res, err := h.users.Register(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.logger.Info(r.Context(), "registered", "user_id", res.User.ID, "role", res.User.Role)
	writeData(w, http.StatusCreated, res)
}

func (h *handler) getProfile(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	ident, err := h.users.Profile(r.Context(), p)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, ident)
}

func (h *handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	var upd wire.ProfileUpdate
	if err := decodeJSON(w, r, &upd); err != nil {
		h.fail(w, r, err)
		return
	}
	ident, err := h.users.UpdateProfile(r.Context(), p, upd)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, ident)
}
