package api

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
)

// HandleDeleteById handles DELETE requests to remove a specific document by ID
func (h *Handler) HandleDeleteById(w http.ResponseWriter, r *http.Request) {
	coll, ok := h.collection(w, r)
	if !ok {
		return
	}
	docId := mux.Vars(r)["id"]

	log.Printf("INFO: handleDeleteById called for collection '%s', document '%s'", coll.Collection(), docId)

	if err := coll.Delete(r.Context(), docId); err != nil {
		log.Printf("ERROR: Delete failed for document '%s' in collection '%s': %v", docId, coll.Collection(), err)
		writeStoreError(w, err)
		return
	}

	log.Printf("INFO: Deleted document '%s' from collection '%s'", docId, coll.Collection())
	w.WriteHeader(http.StatusNoContent)
}
