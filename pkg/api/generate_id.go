package api

import (
	"net/http"
)

// IDResponse carries a generated identifier.
type IDResponse struct {
	ID string `json:"id"`
}

// HandleGenerateID handles POST requests for a fresh document ID that is not
// yet bound to any record
func (h *Handler) HandleGenerateID(w http.ResponseWriter, r *http.Request) {
	coll, ok := h.collection(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, IDResponse{ID: coll.GenerateID()})
}
