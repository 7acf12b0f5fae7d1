package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"linkshelf/internal/config"
	custommiddleware "linkshelf/internal/middleware"
	"linkshelf/internal/repository"
	"linkshelf/internal/service"
	"linkshelf/internal/storage"
	"linkshelf/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *sql.DB
}

// NewServer wires repositories, services and handlers onto a chi
// router. AuthService must already have bootstrapped the default
// admin.
func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB, authService service.AuthService, images *storage.ImageStore) *Server {
	router := chi.NewRouter()

	// Basic middleware stack
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.CORSMiddleware(nil, cfg.Server.Env == "development"))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.SessionMiddleware(authService, logger))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Initialize repositories
	productRepo := repository.NewProductRepository(db)
	clickRepo := repository.NewClickRepository(db)

	// Initialize services
	catalogService := service.NewCatalogService(productRepo)
	trackingService := service.NewTrackingService(productRepo, clickRepo)
	analyticsService := service.NewAnalyticsService(clickRepo)
	importService := service.NewImportService(productRepo)

	// Gates
	requireSession := custommiddleware.RequireSession(logger)
	requireAdmin := custommiddleware.RequireAdmin(logger)

	// Initialize handlers
	secureCookies := cfg.Server.Env == "production"
	authHandler := transport.NewAuthHandler(authService, logger, secureCookies)
	productHandler := transport.NewProductHandler(catalogService, images, cfg.Uploads.MaxBytes, logger)
	trackHandler := transport.NewTrackHandler(trackingService, logger)
	importHandler := transport.NewImportHandler(importService, cfg.Uploads.MaxBytes, logger)
	analyticsHandler := transport.NewAnalyticsHandler(analyticsService, logger)

	// Register routes
	authHandler.RegisterRoutes(router, requireSession, requireAdmin)
	productHandler.RegisterRoutes(router, requireAdmin)
	trackHandler.RegisterRoutes(router)
	importHandler.RegisterRoutes(router, requireAdmin)
	analyticsHandler.RegisterRoutes(router, requireAdmin)

	// Uploaded product images
	router.Handle("/static/images/*", http.StripPrefix("/static/images/",
		http.FileServer(http.Dir(images.Dir()))))

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
