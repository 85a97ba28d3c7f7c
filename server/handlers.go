package server

import (
	"encoding/json"
	"net/http"
	"time"

	"mpdfm/config"
	"mpdfm/core/library"
	"mpdfm/core/mpd"
	"mpdfm/logger"
	"mpdfm/repository"

	"github.com/google/uuid"
)

// APIHandler bundles the dependencies of the HTTP handlers.
type APIHandler struct {
	userRepo     repository.UserRepository
	playlistRepo repository.PlaylistRepository
	player       *mpd.Client
	library      *library.Service
	cfg          *config.Config
}

// NewAPIHandler creates an APIHandler.
func NewAPIHandler(
	userRepo repository.UserRepository,
	playlistRepo repository.PlaylistRepository,
	player *mpd.Client,
	lib *library.Service,
	cfg *config.Config,
) *APIHandler {
	return &APIHandler{
		userRepo:     userRepo,
		playlistRepo: playlistRepo,
		player:       player,
		library:      lib,
		cfg:          cfg,
	}
}

// writeJSON writes v as a JSON response body.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", logger.ErrorField(err))
	}
}

// writeError writes a JSON error body with the given status.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeMessage writes a JSON success message.
func writeMessage(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}

// corsMiddleware allows the frontend, which is served from another origin,
// to call the API.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// loggingMiddleware tags every request with an id and logs method, path,
// status and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.New().String()
		start := time.Now()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		rec.Header().Set("X-Request-ID", reqID)

		next.ServeHTTP(rec, r)

		logger.Info("request",
			logger.String("requestId", reqID),
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Int("status", rec.status),
			logger.Duration("duration", time.Since(start)),
		)
	})
}
