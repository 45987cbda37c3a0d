package handlers

import (
	"net/http"

	apierrors "github.com/pribylovaa/member-service/internal/errors"
	"github.com/pribylovaa/member-service/internal/http/middleware"
	"github.com/pribylovaa/member-service/internal/http/schema"
	"github.com/pribylovaa/member-service/internal/service"
)

// GetProfile отдаёт профиль текущего участника.
func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	member, ok := middleware.MemberFrom(r.Context())
	if !ok {
		apierrors.WriteError(w, r, service.ErrNotAuthenticated)
		return
	}

	writeJSON(w, http.StatusOK, schema.MemberFromModel(member))
}

// PutProfile — полное обновление: first_name и last_name обязательны.
func (h *Handlers) PutProfile(w http.ResponseWriter, r *http.Request) {
	h.updateProfile(w, r, false)
}

// PatchProfile — частичное обновление.
func (h *Handlers) PatchProfile(w http.ResponseWriter, r *http.Request) {
	h.updateProfile(w, r, true)
}

func (h *Handlers) updateProfile(w http.ResponseWriter, r *http.Request, partial bool) {
	member, ok := middleware.MemberFrom(r.Context())
	if !ok {
		apierrors.WriteError(w, r, service.ErrNotAuthenticated)
		return
	}

	var in schema.ProfileUpdateRequest
	if err := decodeStrict(w, r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	if err := in.Validate(partial); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	updated, err := h.svc.UpdateProfile(r.Context(), member, in.Update())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, schema.MemberFromModel(updated))
}
