package api

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
)

// HandleReplaceById handles PUT requests that store a document under an explicit ID,
// replacing any existing one. The stored "id" field is set to the path ID.
func (h *Handler) HandleReplaceById(w http.ResponseWriter, r *http.Request) {
	coll, ok := h.collection(w, r)
	if !ok {
		return
	}
	docId := mux.Vars(r)["id"]

	log.Printf("INFO: handleReplaceById called for collection '%s', document '%s'", coll.Collection(), docId)

	doc, err := decodeDocument(r)
	if err != nil {
		log.Printf("ERROR: Decoding body failed: %v", err)
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := coll.AddWithID(r.Context(), docId, doc); err != nil {
		log.Printf("ERROR: Replace failed for document '%s' in collection '%s': %v", docId, coll.Collection(), err)
		writeStoreError(w, err)
		return
	}

	log.Printf("INFO: Stored document '%s' in collection '%s'", docId, coll.Collection())
	w.WriteHeader(http.StatusOK)
}
