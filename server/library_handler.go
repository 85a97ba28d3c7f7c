package server

import (
	"net/http"

	"mpdfm/logger"
)

// LibraryHandler returns the relative path of every playable file under the
// music directory. The listing is served from the Redis cache when warm.
func (h *APIHandler) LibraryHandler(w http.ResponseWriter, r *http.Request) {
	files, err := h.library.Files(r.Context())
	if err != nil {
		logger.Error("failed to list library", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to list library")
		return
	}

	writeJSON(w, http.StatusOK, files)
}
