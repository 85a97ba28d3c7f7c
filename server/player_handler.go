package server

import (
	"fmt"
	"net/http"
	"strconv"

	"mpdfm/logger"

	"github.com/gorilla/mux"
)

// requirePlayer replies 503 when the MPD connection is down and reports
// whether the handler may proceed.
func (h *APIHandler) requirePlayer(w http.ResponseWriter) bool {
	if h.player == nil || !h.player.Connected() {
		writeError(w, http.StatusServiceUnavailable, "MPD is not connected")
		return false
	}
	return true
}

// StatusHandler returns the MPD player status.
func (h *APIHandler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	if !h.requirePlayer(w) {
		return
	}

	status, err := h.player.Status()
	if err != nil {
		logger.Error("failed to retrieve MPD status", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to retrieve status")
		return
	}

	writeJSON(w, http.StatusOK, status)
}

// QueueHandler returns the songs in the current MPD queue.
func (h *APIHandler) QueueHandler(w http.ResponseWriter, r *http.Request) {
	if !h.requirePlayer(w) {
		return
	}

	queue, err := h.player.PlaylistInfo()
	if err != nil {
		logger.Error("failed to read MPD queue", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to read queue")
		return
	}

	writeJSON(w, http.StatusOK, queue)
}

// MPDPlaylistsHandler lists the playlists stored on the MPD server itself,
// as opposed to the per-user playlists in the database.
func (h *APIHandler) MPDPlaylistsHandler(w http.ResponseWriter, r *http.Request) {
	if !h.requirePlayer(w) {
		return
	}

	names, err := h.player.ListPlaylists()
	if err != nil {
		logger.Error("failed to list MPD playlists", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "Failed to list playlists")
		return
	}

	writeJSON(w, http.StatusOK, names)
}

// LoadMPDPlaylistHandler appends a stored MPD playlist onto the queue.
func (h *APIHandler) LoadMPDPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	if !h.requirePlayer(w) {
		return
	}
	name := mux.Vars(r)["name"]

	if err := h.player.Load(name); err != nil {
		logger.Error("failed to load MPD playlist", logger.String("name", name), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error loading playlist: %v", err))
		return
	}

	writeMessage(w, fmt.Sprintf("Loading '%s'", name))
}

// SaveMPDPlaylistHandler saves the current queue as a named playlist on the
// MPD server.
func (h *APIHandler) SaveMPDPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	if !h.requirePlayer(w) {
		return
	}
	name := mux.Vars(r)["name"]

	if err := h.player.Save(name); err != nil {
		logger.Error("failed to save MPD playlist", logger.String("name", name), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error saving playlist: %v", err))
		return
	}

	writeMessage(w, "Playlist saved")
}

// GenQueueHandler adds every song under a folder (relative to MPD's music
// directory) to the queue.
func (h *APIHandler) GenQueueHandler(w http.ResponseWriter, r *http.Request) {
	if !h.requirePlayer(w) {
		return
	}
	folder := mux.Vars(r)["folder"]

	if err := h.player.Add(folder); err != nil {
		logger.Error("failed to add folder to queue", logger.String("folder", folder), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error adding folder: %v", err))
		return
	}

	writeMessage(w, fmt.Sprintf("Added '%s' to the queue", folder))
}

// PlayHandler starts or resumes playback.
func (h *APIHandler) PlayHandler(w http.ResponseWriter, r *http.Request) {
	if !h.requirePlayer(w) {
		return
	}

	if err := h.player.Play(); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error playing music: %v", err))
		return
	}
	writeMessage(w, "Playback started")
}

// PlayIDHandler plays the queue entry with the given song id.
func (h *APIHandler) PlayIDHandler(w http.ResponseWriter, r *http.Request) {
	if !h.requirePlayer(w) {
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Song id must be an integer")
		return
	}

	if err := h.player.PlayID(id); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error selecting song: %v", err))
		return
	}
	writeMessage(w, fmt.Sprintf("Playing song with id %d", id))
}

// PauseHandler toggles pause.
func (h *APIHandler) PauseHandler(w http.ResponseWriter, r *http.Request) {
	if !h.requirePlayer(w) {
		return
	}

	if err := h.player.Pause(); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error pausing music: %v", err))
		return
	}
	writeMessage(w, "Playback paused/unpaused")
}

// StopHandler stops playback.
func (h *APIHandler) StopHandler(w http.ResponseWriter, r *http.Request) {
	if !h.requirePlayer(w) {
		return
	}

	if err := h.player.Stop(); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error stopping music: %v", err))
		return
	}
	writeMessage(w, "Playback stopped")
}

// NextHandler skips to the next song.
func (h *APIHandler) NextHandler(w http.ResponseWriter, r *http.Request) {
	if !h.requirePlayer(w) {
		return
	}

	if err := h.player.Next(); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error skipping to next song: %v", err))
		return
	}
	writeMessage(w, "Skipped to the next song")
}

// PrevHandler goes back to the previous song.
func (h *APIHandler) PrevHandler(w http.ResponseWriter, r *http.Request) {
	if !h.requirePlayer(w) {
		return
	}

	if err := h.player.Previous(); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error skipping to previous song: %v", err))
		return
	}
	writeMessage(w, "Skipped to the previous song")
}

// SetVolumeHandler sets the MPD volume, 0..100.
func (h *APIHandler) SetVolumeHandler(w http.ResponseWriter, r *http.Request) {
	if !h.requirePlayer(w) {
		return
	}

	volume, err := strconv.Atoi(mux.Vars(r)["volume"])
	if err != nil || volume < 0 || volume > 100 {
		writeError(w, http.StatusBadRequest, "Volume must be an integer between 0 and 100")
		return
	}

	if err := h.player.SetVolume(volume); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error setting volume: %v", err))
		return
	}
	writeMessage(w, fmt.Sprintf("Volume set to %d", volume))
}

// PlaymodeHandler flips repeat/random/single flags. Each is optional; only
// the query parameters present are applied.
func (h *APIHandler) PlaymodeHandler(w http.ResponseWriter, r *http.Request) {
	if !h.requirePlayer(w) {
		return
	}

	query := r.URL.Query()
	for param, set := range map[string]func(bool) error{
		"repeat": h.player.Repeat,
		"random": h.player.Random,
		"single": h.player.Single,
	} {
		raw := query.Get(param)
		if raw == "" {
			continue
		}
		on, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("%s must be a boolean", param))
			return
		}
		if err := set(on); err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("Error setting play mode: %v", err))
			return
		}
	}

	writeMessage(w, "Play mode updated")
}
