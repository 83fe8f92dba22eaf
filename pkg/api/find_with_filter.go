package api

import (
	"log"
	"net/http"

	"github.com/adfharrison1/go-baas/pkg/domain"
)

// HandleFindWithFilter handles GET requests for a single-field filtered query:
// ?field=age&op=>=&value=30. value is omitted for is-null and is-not-null.
func (h *Handler) HandleFindWithFilter(w http.ResponseWriter, r *http.Request) {
	coll, ok := h.collection(w, r)
	if !ok {
		return
	}

	params := r.URL.Query()
	field := params.Get("field")
	op, err := domain.ParseOperator(params.Get("op"))
	if err != nil {
		log.Printf("ERROR: Invalid operator '%s': %v", params.Get("op"), err)
		writeStoreError(w, err)
		return
	}
	var value interface{}
	if raw, present := params["value"]; present && len(raw) > 0 {
		value = parseValue(raw[0])
	}

	log.Printf("INFO: handleFindWithFilter called for collection '%s' with %s %s %v", coll.Collection(), field, op, value)

	docs, err := coll.FindWhere(r.Context(), field, op, value)
	if err != nil {
		log.Printf("ERROR: Filtered query failed for collection '%s': %v", coll.Collection(), err)
		writeStoreError(w, err)
		return
	}

	log.Printf("INFO: Found %d documents in collection '%s' with filter %s %s %v", len(docs), coll.Collection(), field, op, value)
	writeJSON(w, http.StatusOK, docs)
}
