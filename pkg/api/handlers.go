package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/adfharrison1/go-baas/pkg/actions"
	"github.com/adfharrison1/go-baas/pkg/dao"
	"github.com/adfharrison1/go-baas/pkg/domain"
	"github.com/adfharrison1/go-baas/pkg/files"
	"github.com/gorilla/mux"
)

// Handler provides HTTP handlers over the collection and tree adapters
type Handler struct {
	docs     domain.DocumentStore
	trees    domain.TreeStore
	users    *actions.Users
	uploader *files.Uploader
}

// NewHandler creates a new API handler with dependency injection.
// objects may be nil, in which case the file routes answer 503.
func NewHandler(docs domain.DocumentStore, trees domain.TreeStore, objects files.ObjectStore) *Handler {
	h := &Handler{
		docs:  docs,
		trees: trees,
		users: actions.NewUsers(docs, trees),
	}
	if objects != nil {
		h.uploader = files.NewUploader(objects)
	}
	return h
}

// collection resolves the {coll} route variable against the collection
// registry and binds an adapter to it. On failure the response is written.
func (h *Handler) collection(w http.ResponseWriter, r *http.Request) (*dao.CollectionDAO, bool) {
	collName := mux.Vars(r)["coll"]
	name, ok := domain.LookupCollection(collName)
	if !ok {
		log.Printf("ERROR: Unknown collection '%s'", collName)
		WriteJSONError(w, http.StatusNotFound, fmt.Sprintf("unknown collection '%s'", collName))
		return nil, false
	}
	return dao.NewCollectionDAO(h.docs, name), true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR: Encoding response failed: %v", err)
	}
}

func decodeDocument(r *http.Request) (domain.Document, error) {
	var doc domain.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("request body must be a JSON object")
	}
	return doc, nil
}

// intParam parses a query parameter; a missing parameter yields def.
func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: parameter '%s' must be an integer", domain.ErrInvalidQuery, name)
	}
	return n, nil
}

// parseValue reads a query-string operand as JSON when it parses, so that
// 30, true, null and ["a","b"] keep their types. Anything else is a string.
func parseValue(raw string) interface{} {
	var v interface{}
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v
	}
	return raw
}
