package api

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API routes with the given router
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.HandleHealth).Methods("GET")

	// Collection operations
	router.HandleFunc("/collections/{coll}/documents", h.HandleFindAll).Methods("GET")
	router.HandleFunc("/collections/{coll}/documents", h.HandleInsert).Methods("POST")
	router.HandleFunc("/collections/{coll}/where", h.HandleFindWithFilter).Methods("GET")
	router.HandleFunc("/collections/{coll}/ordered", h.HandleOrderBy).Methods("GET")
	router.HandleFunc("/collections/{coll}/page", h.HandlePaginate).Methods("GET")
	router.HandleFunc("/collections/{coll}/pages", h.HandleFetchPage).Methods("GET")
	router.HandleFunc("/collections/{coll}/ids", h.HandleGenerateID).Methods("POST")

	// Document operations (by ID)
	router.HandleFunc("/collections/{coll}/documents/{id}", h.HandleGetById).Methods("GET")
	router.HandleFunc("/collections/{coll}/documents/{id}", h.HandleUpdateById).Methods("PATCH") // Partial update
	router.HandleFunc("/collections/{coll}/documents/{id}", h.HandleReplaceById).Methods("PUT")  // Insert with explicit ID
	router.HandleFunc("/collections/{coll}/documents/{id}", h.HandleDeleteById).Methods("DELETE")

	// Tree operations; /tree is the root
	for _, pattern := range []string{"/tree", "/tree/{path:.*}"} {
		router.HandleFunc(pattern, h.HandleTreeGet).Methods("GET")
		router.HandleFunc(pattern, h.HandleTreeSet).Methods("PUT")
		router.HandleFunc(pattern, h.HandleTreeUpdate).Methods("PATCH")
		router.HandleFunc(pattern, h.HandleTreeRemove).Methods("DELETE")
	}

	// Server actions
	router.HandleFunc("/users", h.HandleGetUsers).Methods("GET")
	router.HandleFunc("/users/tree", h.HandleGetUsersFromTree).Methods("GET")

	// Files
	router.HandleFunc("/files/{reference}/{refID}", h.HandleUpload).Methods("POST")
	router.HandleFunc("/files", h.HandleRemoveFile).Methods("DELETE")
}
