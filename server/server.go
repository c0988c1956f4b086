package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"moodfm/cache"
	"moodfm/config"
	"moodfm/core/ingest"
	"moodfm/db"
	"moodfm/logger"
	"moodfm/repository"
	"moodfm/storage"

	"github.com/gorilla/mux"
)

// Start initializes all backing services and runs the HTTP server until a
// shutdown signal arrives.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogPath,
		MaxSize:    100,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	})

	store, err := storage.New(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize object store", logger.ErrorField(err))
	}

	if err := db.ConnectDB(cfg); err != nil {
		logger.Fatal("Failed to connect to database", logger.ErrorField(err))
	}
	defer db.DB.Close()

	if err := db.ConnectRedis(cfg); err != nil {
		logger.Fatal("Failed to connect to Redis", logger.ErrorField(err))
	}
	defer db.CloseRedis()

	if err := db.InitDB(); err != nil {
		logger.Fatal("Failed to initialize database schema", logger.ErrorField(err))
	}

	artistRepo := repository.NewMySQLArtistRepository(db.DB)
	albumRepo := repository.NewMySQLAlbumRepository(db.DB)
	songRepo := repository.NewMySQLSongRepository(db.DB)

	coordinator := ingest.NewCoordinator(artistRepo, albumRepo, songRepo)
	acquirer := ingest.NewAcquirer(cfg)
	pipeline := ingest.NewPipeline(acquirer, store, coordinator)
	deleter := ingest.NewDeleter(songRepo, store)
	songCache := cache.NewSongCache(db.RedisClient)

	handler := NewAPIHandler(pipeline, deleter, artistRepo, albumRepo, songRepo, songCache, cfg)
	router := newRouter(handler)

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Minute, // uploads and extractions are slow
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Server starting", logger.String("addr", cfg.ServerAddr))
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

// newRouter wires every endpoint onto a mux router. The CORS middleware
// wraps the router itself so preflight requests are answered even for
// method-restricted routes.
func newRouter(handler *APIHandler) http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/", handler.HealthHandler).Methods(http.MethodGet)

	router.HandleFunc("/api/upload", handler.UploadSongHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/upload-simple", handler.UploadSimpleHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/test-upload", handler.TestUploadHandler).Methods(http.MethodPost)

	router.HandleFunc("/api/songs", handler.GetSongsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/songs/mood/{mood}", handler.GetSongsByMoodHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/songs/{id}", handler.DeleteSongHandler).Methods(http.MethodDelete)

	router.HandleFunc("/api/artists", handler.GetArtistsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/artists", handler.CreateArtistHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/artists/search", handler.SearchArtistsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/albums", handler.GetAlbumsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/albums", handler.CreateAlbumHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/albums/search", handler.SearchAlbumsHandler).Methods(http.MethodGet)

	return corsMiddleware(router)
}
