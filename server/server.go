package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mpdfm/config"
	"mpdfm/core/auth"
	"mpdfm/core/library"
	"mpdfm/core/mpd"
	"mpdfm/db"
	"mpdfm/logger"
	"mpdfm/repository"
)

// Start initializes and starts the HTTP server.
func Start() {
	cfg := config.Load()

	logger.Init(logger.Config{
		Level:      cfg.LogLevel,
		OutputPath: cfg.LogPath,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	})

	auth.InitTokens(cfg.JWTSecret, cfg.TokenTTL)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Connect to the database
	if err := db.ConnectDB(cfg); err != nil {
		logger.Fatal("Failed to connect to database", logger.ErrorField(err))
	}
	defer db.DB.Close()

	if err := db.ConnectGormDB(cfg); err != nil {
		logger.Fatal("Failed to connect to database with GORM", logger.ErrorField(err))
	}
	defer db.CloseGormDB()

	// Initialize database schema
	if err := db.InitDB(); err != nil {
		logger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}

	// Redis only backs the library cache; the server stays up without it.
	if err := db.ConnectRedis(cfg); err != nil {
		logger.Warn("Failed to connect to Redis, library listing will be uncached", logger.ErrorField(err))
	} else {
		defer db.CloseRedis()
		logger.Info("Successfully connected to Redis")
	}

	// Connect to MPD. Pi endpoints answer 503 until the daemon is reachable.
	player := mpd.NewClient(cfg.MPDHost, cfg.MPDPort)
	if err := player.Connect(); err != nil {
		logger.Warn("Failed to connect to MPD", logger.ErrorField(err))
	} else {
		defer player.Close()
		logger.Info("Connected to MPD", logger.String("version", player.Version()))
		if _, err := player.Update(); err != nil {
			logger.Warn("Failed to trigger MPD database update", logger.ErrorField(err))
		}
	}

	lib := library.NewService(cfg.MusicDir, cfg.LibraryCacheTTL)

	watchCtx, cancelWatch := context.WithCancel(context.Background())
	defer cancelWatch()
	go func() {
		if err := lib.Watch(watchCtx); err != nil {
			logger.Warn("Music directory watcher stopped", logger.ErrorField(err))
		}
	}()

	userRepo := repository.NewMySQLUserRepository(db.DB)
	playlistRepo := repository.NewGormPlaylistRepository(db.GormDB)

	apiHandler := NewAPIHandler(userRepo, playlistRepo, player, lib, cfg)

	router := apiHandler.Routes()
	router.Use(corsMiddleware)
	router.Use(loggingMiddleware)

	server.Handler = router

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Server starting", logger.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", logger.ErrorField(err))
		}
	}()

	<-stop
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	logger.Info("Server stopped")
}
