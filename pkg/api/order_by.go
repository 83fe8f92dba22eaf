package api

import (
	"log"
	"net/http"

	"github.com/adfharrison1/go-baas/pkg/domain"
)

// HandleOrderBy handles GET requests returning the whole collection sorted by
// one field: ?field=age&direction=desc
func (h *Handler) HandleOrderBy(w http.ResponseWriter, r *http.Request) {
	coll, ok := h.collection(w, r)
	if !ok {
		return
	}

	field := r.URL.Query().Get("field")
	direction, err := domain.ParseDirection(r.URL.Query().Get("direction"))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	log.Printf("INFO: handleOrderBy called for collection '%s' by '%s' %s", coll.Collection(), field, direction)

	docs, err := coll.OrderBy(r.Context(), field, direction)
	if err != nil {
		log.Printf("ERROR: Ordered query failed for collection '%s': %v", coll.Collection(), err)
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, docs)
}
