package api

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
)

// HandleGetById handles GET requests to retrieve a specific document by ID
func (h *Handler) HandleGetById(w http.ResponseWriter, r *http.Request) {
	coll, ok := h.collection(w, r)
	if !ok {
		return
	}
	docId := mux.Vars(r)["id"]

	log.Printf("INFO: handleGetById called for collection '%s', document '%s'", coll.Collection(), docId)

	snap, err := coll.FindByID(r.Context(), docId)
	if err != nil {
		log.Printf("ERROR: Get failed for document '%s' in collection '%s': %v", docId, coll.Collection(), err)
		writeStoreError(w, err)
		return
	}
	if !snap.Exists {
		log.Printf("WARN: Document '%s' not found in collection '%s'", docId, coll.Collection())
		WriteJSONError(w, http.StatusNotFound, fmt.Sprintf("document '%s' not found", docId))
		return
	}

	log.Printf("INFO: Retrieved document '%s' from collection '%s'", docId, coll.Collection())
	writeJSON(w, http.StatusOK, snap)
}
