package handlers

import (
	"net/http"

	"github.com/pribylovaa/member-service/internal/http/schema"
)

// Hello — публичная проверка доступности API.
func (h *Handlers) Hello(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, schema.HelloResponse{
		Message:   "Hello!",
		Timestamp: h.now().UTC(),
	})
}
