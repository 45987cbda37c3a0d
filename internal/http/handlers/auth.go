package handlers

import (
	"net/http"

	apierrors "github.com/pribylovaa/member-service/internal/errors"
	"github.com/pribylovaa/member-service/internal/http/schema"
	logctx "github.com/pribylovaa/member-service/internal/pkg/log"
)

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var in schema.RegisterRequest
	if err := decodeStrict(w, r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	if err := in.Validate(); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	member, tokens, err := h.svc.Register(r.Context(), in.Input())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, schema.AuthFromModels(member, tokens))
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var in schema.LoginRequest
	if err := decodeStrict(w, r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	if err := in.Validate(); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	member, tokens, err := h.svc.Login(r.Context(), *in.Email, *in.Password)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, schema.AuthFromModels(member, tokens))
}

// Logout подтверждает выход. Токены stateless и живут до истечения срока;
// клиент просто забывает их.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	logctx.From(r.Context()).Info("member_logged_out")
	writeJSON(w, http.StatusOK, schema.DetailResponse{Detail: "Successfully logged out."})
}

func (h *Handlers) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var in schema.RefreshRequest
	if err := decodeStrict(w, r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	if err := in.Validate(); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	access, _, err := h.svc.RefreshAccessToken(r.Context(), *in.Refresh)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, schema.RefreshResponse{Access: access})
}
