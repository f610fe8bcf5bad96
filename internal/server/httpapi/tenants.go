package httpapi

import (
	"net/http"

	wire "github.com/dmitrijs2005/salonadmin/internal/client/models"
	"github.com/go-chi/chi/v5"
)

func (h *handler) listTenants(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	list, err := h.tenants.List(r.Context(), p)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, list)
}

func (h *handler) getTenant(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	t, err := h.tenants.Get(r.Context(), p, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, t)
}

func (h *handler) createTenant(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	var in wire.TenantInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	t, err := h.tenants.Create(r.Context(), p, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.logger.Info(r.Context(), "tenant created", "tenant_id", t.ID, "by", p.UserID)
	writeData(w, http.StatusCreated, t)
}

func (h *handler) updateTenant(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	var patch wire.TenantPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		h.fail(w, r, err)
		return
	}
	t, err := h.tenants.Update(r.Context(), p, chi.URLParam(r, "id"), patch)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, t)
}

func (h *handler) deleteTenant(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.tenants.Delete(r.Context(), p, id); err != nil {
		h.fail(w, r, err)
		return
	}
	h.logger.Info(r.Context(), "tenant deleted", "tenant_id", id, "by", p.UserID)
	w.WriteHeader(http.StatusNoContent)
}
