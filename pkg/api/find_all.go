package api

import (
	"log"
	"net/http"
)

// HandleFindAll handles GET requests listing every document of a collection
func (h *Handler) HandleFindAll(w http.ResponseWriter, r *http.Request) {
	coll, ok := h.collection(w, r)
	if !ok {
		return
	}

	log.Printf("INFO: handleFindAll called for collection '%s'", coll.Collection())

	docs, err := coll.FindAll(r.Context())
	if err != nil {
		log.Printf("ERROR: FindAll failed for collection '%s': %v", coll.Collection(), err)
		writeStoreError(w, err)
		return
	}

	log.Printf("INFO: Found %d documents in collection '%s'", len(docs), coll.Collection())
	writeJSON(w, http.StatusOK, docs)
}
