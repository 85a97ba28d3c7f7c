package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Routes builds the API router.
func (h *APIHandler) Routes() *mux.Router {
	router := mux.NewRouter()

	// Auth endpoints
	router.HandleFunc("/register", h.RegisterHandler).Methods(http.MethodPost)
	router.HandleFunc("/token", h.TokenHandler).Methods(http.MethodPost)
	router.HandleFunc("/users/me/", h.AuthMiddleware(h.MeHandler)).Methods(http.MethodGet)

	// Per-user playlist endpoints
	router.HandleFunc("/pc_get_playlist_List", h.AuthMiddleware(h.ListPlaylistsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/pc_get_playlist_files/{name}", h.AuthMiddleware(h.GetPlaylistHandler)).Methods(http.MethodGet)
	router.HandleFunc("/pc_save_playlists_tolist/{name}", h.AuthMiddleware(h.SavePlaylistHandler)).Methods(http.MethodPost)
	router.HandleFunc("/pc_delete_playlist_list/{name}", h.AuthMiddleware(h.DeletePlaylistHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/pc_get_playlist_all", h.AuthMiddleware(h.LibraryHandler)).Methods(http.MethodGet)

	// MPD pass-through endpoints for the Pi control surface
	router.HandleFunc("/status", h.StatusHandler).Methods(http.MethodGet)
	router.HandleFunc("/pi_get_playlist", h.QueueHandler).Methods(http.MethodGet)
	router.HandleFunc("/pi_get_playlists_list", h.MPDPlaylistsHandler).Methods(http.MethodGet)
	router.HandleFunc("/pi_load_from_playlist/{name}", h.LoadMPDPlaylistHandler).Methods(http.MethodGet)
	router.HandleFunc("/pi_save_to_playlist/{name}", h.SaveMPDPlaylistHandler).Methods(http.MethodGet)
	router.HandleFunc("/pi_gen_playlist/{folder}", h.GenQueueHandler).Methods(http.MethodGet)
	router.HandleFunc("/pi_play", h.PlayHandler).Methods(http.MethodPost)
	router.HandleFunc("/pi_playid/{id}", h.PlayIDHandler).Methods(http.MethodPost)
	router.HandleFunc("/pi_pause", h.PauseHandler).Methods(http.MethodPost)
	router.HandleFunc("/pi_stop", h.StopHandler).Methods(http.MethodPost)
	router.HandleFunc("/pi_next", h.NextHandler).Methods(http.MethodPost)
	router.HandleFunc("/pi_prev", h.PrevHandler).Methods(http.MethodPost)
	router.HandleFunc("/pi_setvolume/{volume}", h.SetVolumeHandler).Methods(http.MethodPut)
	router.HandleFunc("/pi_playmode", h.PlaymodeHandler).Methods(http.MethodPut)

	return router
}
