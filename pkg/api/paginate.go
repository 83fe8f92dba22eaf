package api

import (
	"log"
	"net/http"

	"github.com/adfharrison1/go-baas/pkg/domain"
)

// defaultPageLimit applies when a request names no limit or page size.
const defaultPageLimit = 20

// HandlePaginate handles GET requests for cursor pagination:
// ?limit=10&cursor=<next_cursor>. Without a cursor the first page is returned.
func (h *Handler) HandlePaginate(w http.ResponseWriter, r *http.Request) {
	coll, ok := h.collection(w, r)
	if !ok {
		return
	}

	limit, err := intParam(r, "limit", defaultPageLimit)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	var startAfter *domain.Snapshot
	if encoded := r.URL.Query().Get("cursor"); encoded != "" {
		cursor, err := domain.DecodeCursor(encoded)
		if err != nil {
			log.Printf("ERROR: Invalid cursor: %v", err)
			writeStoreError(w, err)
			return
		}
		startAfter = cursor.Snapshot()
	}

	var docs []domain.Snapshot
	if startAfter != nil {
		log.Printf("INFO: handlePaginate called for collection '%s' after '%s'", coll.Collection(), startAfter.ID)
		docs, err = coll.Paginate(r.Context(), limit, *startAfter)
	} else {
		log.Printf("INFO: handlePaginate called for collection '%s' from start", coll.Collection())
		docs, err = coll.Limit(r.Context(), limit)
	}
	if err != nil {
		log.Printf("ERROR: Paginated query failed for collection '%s': %v", coll.Collection(), err)
		writeStoreError(w, err)
		return
	}

	page, err := domain.NewPage(docs, limit)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}
