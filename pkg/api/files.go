package api

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
)

// UploadResponse carries the download URL of a stored file.
type UploadResponse struct {
	URL string `json:"url"`
}

// HandleUpload handles POST requests storing the raw request body at
// {reference}/{refID}
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if h.uploader == nil {
		WriteJSONError(w, http.StatusServiceUnavailable, "file uploads are not configured")
		return
	}
	vars := mux.Vars(r)
	reference, refID := vars["reference"], vars["refID"]

	log.Printf("INFO: handleUpload called for '%s/%s'", reference, refID)

	url, err := h.uploader.Upload(r.Context(), reference, refID, r.Body, r.Header.Get("Content-Type"))
	if err != nil {
		log.Printf("ERROR: Upload failed for '%s/%s': %v", reference, refID, err)
		writeStoreError(w, err)
		return
	}

	log.Printf("INFO: Uploaded '%s/%s'", reference, refID)
	writeJSON(w, http.StatusCreated, UploadResponse{URL: url})
}

// HandleRemoveFile handles DELETE requests removing the file behind ?url=
func (h *Handler) HandleRemoveFile(w http.ResponseWriter, r *http.Request) {
	if h.uploader == nil {
		WriteJSONError(w, http.StatusServiceUnavailable, "file uploads are not configured")
		return
	}
	downloadURL := r.URL.Query().Get("url")

	log.Printf("INFO: handleRemoveFile called for '%s'", downloadURL)

	if err := h.uploader.Remove(r.Context(), downloadURL); err != nil {
		log.Printf("ERROR: Remove failed for '%s': %v", downloadURL, err)
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
