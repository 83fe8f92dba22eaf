package api

import (
	"log"
	"net/http"
)

// HandleGetUsers handles GET requests listing user records from the document store
func (h *Handler) HandleGetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.GetAllUsers(r.Context())
	if err != nil {
		log.Printf("ERROR: Listing users failed: %v", err)
		writeStoreError(w, err)
		return
	}
	log.Printf("INFO: Listed %d users", len(users))
	writeJSON(w, http.StatusOK, users)
}

// HandleGetUsersFromTree handles GET requests reading the users subtree
func (h *Handler) HandleGetUsersFromTree(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.GetAllUsersFromTree(r.Context())
	if err != nil {
		log.Printf("ERROR: Reading users subtree failed: %v", err)
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}
