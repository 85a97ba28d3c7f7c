package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"mpdfm/logger"
	"mpdfm/repository"

	"github.com/gorilla/mux"
)

// SavePlaylistRequest is the body of a playlist save.
type SavePlaylistRequest struct {
	Songs []string `json:"songs"`
}

// PlaylistNamesResponse lists the caller's playlist names.
type PlaylistNamesResponse struct {
	Names []string `json:"names"`
}

// ListPlaylistsHandler returns the names of every playlist owned by the
// authenticated user.
func (h *APIHandler) ListPlaylistsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	names, err := h.playlistRepo.ListNames(userID)
	if err != nil {
		logger.Error("failed to list playlists", logger.Int64("userId", userID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to list playlists")
		return
	}

	writeJSON(w, http.StatusOK, PlaylistNamesResponse{Names: names})
}

// GetPlaylistHandler returns the song list stored under the named playlist.
// A name the user never saved yields an empty list, not an error.
func (h *APIHandler) GetPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	name := mux.Vars(r)["name"]

	playlist, err := h.playlistRepo.GetByName(userID, name)
	if err != nil {
		logger.Error("failed to get playlist", logger.Int64("userId", userID),
			logger.String("name", name), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to get playlist")
		return
	}
	if playlist == nil {
		writeJSON(w, http.StatusOK, []string{})
		return
	}

	songs, err := playlist.Songs()
	if err != nil {
		logger.Error("failed to decode playlist", logger.Int64("userId", userID),
			logger.String("name", name), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to decode playlist")
		return
	}

	writeJSON(w, http.StatusOK, songs)
}

// SavePlaylistHandler creates or overwrites the named playlist with the
// posted song list.
func (h *APIHandler) SavePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	name := mux.Vars(r)["name"]

	var req SavePlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if _, err := h.playlistRepo.Save(userID, name, req.Songs); err != nil {
		logger.Error("failed to save playlist", logger.Int64("userId", userID),
			logger.String("name", name), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to save playlist")
		return
	}

	logger.Info("playlist saved", logger.Int64("userId", userID),
		logger.String("name", name), logger.Int("songs", len(req.Songs)))

	writeMessage(w, fmt.Sprintf("Playlist '%s' saved successfully", name))
}

// DeletePlaylistHandler removes the named playlist. Deleting a playlist
// that does not exist is a 404, unlike reading one.
func (h *APIHandler) DeletePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	name := mux.Vars(r)["name"]

	if err := h.playlistRepo.Delete(userID, name); err != nil {
		if errors.Is(err, repository.ErrPlaylistNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("Playlist '%s' not found", name))
			return
		}
		logger.Error("failed to delete playlist", logger.Int64("userId", userID),
			logger.String("name", name), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to delete playlist")
		return
	}

	logger.Info("playlist deleted", logger.Int64("userId", userID), logger.String("name", name))

	writeMessage(w, fmt.Sprintf("Playlist '%s' deleted successfully", name))
}
