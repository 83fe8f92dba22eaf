package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/adfharrison1/go-baas/pkg/dao"
	"github.com/gorilla/mux"
)

// treeNode binds a tree adapter to the {path} route variable. An empty path
// is the root. On failure the response is written.
func (h *Handler) treeNode(w http.ResponseWriter, r *http.Request) (*dao.TreeDAO, bool) {
	node, err := dao.NewTreeDAO(h.trees, mux.Vars(r)["path"])
	if err != nil {
		log.Printf("ERROR: Invalid tree path '%s': %v", mux.Vars(r)["path"], err)
		writeStoreError(w, err)
		return nil, false
	}
	return node, true
}

// HandleTreeGet handles GET requests reading the subtree at a path. An absent
// subtree reads as []; the X-Tree-Exists header tells it apart from a stored value.
func (h *Handler) HandleTreeGet(w http.ResponseWriter, r *http.Request) {
	node, ok := h.treeNode(w, r)
	if !ok {
		return
	}

	log.Printf("INFO: handleTreeGet called for path '/%s'", node.Path())

	value, exists, err := node.Lookup(r.Context())
	if err != nil {
		log.Printf("ERROR: Tree read failed for path '/%s': %v", node.Path(), err)
		writeStoreError(w, err)
		return
	}
	if !exists {
		value = []interface{}{}
		w.Header().Set("X-Tree-Exists", "false")
	} else {
		w.Header().Set("X-Tree-Exists", "true")
	}
	writeJSON(w, http.StatusOK, value)
}

// HandleTreeSet handles PUT requests replacing the subtree at a path
func (h *Handler) HandleTreeSet(w http.ResponseWriter, r *http.Request) {
	node, ok := h.treeNode(w, r)
	if !ok {
		return
	}

	log.Printf("INFO: handleTreeSet called for path '/%s'", node.Path())

	var value interface{}
	if err := json.NewDecoder(r.Body).Decode(&value); err != nil {
		log.Printf("ERROR: Decoding body failed: %v", err)
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := node.Set(r.Context(), value); err != nil {
		log.Printf("ERROR: Tree overwrite failed for path '/%s': %v", node.Path(), err)
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// HandleTreeUpdate handles PATCH requests merging keys into the subtree at a path
func (h *Handler) HandleTreeUpdate(w http.ResponseWriter, r *http.Request) {
	node, ok := h.treeNode(w, r)
	if !ok {
		return
	}

	log.Printf("INFO: handleTreeUpdate called for path '/%s'", node.Path())

	var values map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		log.Printf("ERROR: Decoding body failed: %v", err)
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := node.Update(r.Context(), values); err != nil {
		log.Printf("ERROR: Tree update failed for path '/%s': %v", node.Path(), err)
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// HandleTreeRemove handles DELETE requests removing the subtree at a path
func (h *Handler) HandleTreeRemove(w http.ResponseWriter, r *http.Request) {
	node, ok := h.treeNode(w, r)
	if !ok {
		return
	}

	log.Printf("INFO: handleTreeRemove called for path '/%s'", node.Path())

	if err := node.Remove(r.Context()); err != nil {
		log.Printf("ERROR: Tree remove failed for path '/%s': %v", node.Path(), err)
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
