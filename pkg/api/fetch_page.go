package api

import (
	"log"
	"net/http"
)

// HandleFetchPage handles GET requests for offset pagination: ?size=10&page=2.
// A missing or non-positive page is page 1.
func (h *Handler) HandleFetchPage(w http.ResponseWriter, r *http.Request) {
	coll, ok := h.collection(w, r)
	if !ok {
		return
	}

	size, err := intParam(r, "size", defaultPageLimit)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	page, err := intParam(r, "page", 1)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	log.Printf("INFO: handleFetchPage called for collection '%s', size %d page %d", coll.Collection(), size, page)

	docs, err := coll.FetchPaginatedData(r.Context(), size, page)
	if err != nil {
		log.Printf("ERROR: Page query failed for collection '%s': %v", coll.Collection(), err)
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, docs)
}
