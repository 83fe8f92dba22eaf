package api

import (
	"log"
	"net/http"
)

// HandleInsert handles POST requests that insert a document under a generated ID
func (h *Handler) HandleInsert(w http.ResponseWriter, r *http.Request) {
	coll, ok := h.collection(w, r)
	if !ok {
		return
	}

	log.Printf("INFO: handleInsert called for collection '%s'", coll.Collection())

	doc, err := decodeDocument(r)
	if err != nil {
		log.Printf("ERROR: Decoding body failed: %v", err)
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ref, err := coll.Add(r.Context(), doc)
	if err != nil {
		log.Printf("ERROR: Insert failed for collection '%s': %v", coll.Collection(), err)
		writeStoreError(w, err)
		return
	}

	log.Printf("INFO: Inserted document '%s' into collection '%s'", ref.ID, coll.Collection())
	writeJSON(w, http.StatusCreated, ref)
}
