package api

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
)

// HandleUpdateById handles PATCH requests merging fields into an existing document
func (h *Handler) HandleUpdateById(w http.ResponseWriter, r *http.Request) {
	coll, ok := h.collection(w, r)
	if !ok {
		return
	}
	docId := mux.Vars(r)["id"]

	log.Printf("INFO: handleUpdateById called for collection '%s', document '%s'", coll.Collection(), docId)

	updates, err := decodeDocument(r)
	if err != nil {
		log.Printf("ERROR: Decoding body failed: %v", err)
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := coll.Update(r.Context(), docId, updates); err != nil {
		log.Printf("ERROR: Update failed for document '%s' in collection '%s': %v", docId, coll.Collection(), err)
		writeStoreError(w, err)
		return
	}

	log.Printf("INFO: Updated document '%s' in collection '%s'", docId, coll.Collection())
	w.WriteHeader(http.StatusOK)
}
