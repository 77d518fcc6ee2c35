package server

import (
	"fmt"
	"net/http"
	"time"

	"catalogo-api/internal/config"
	"catalogo-api/internal/database"
	custommiddleware "catalogo-api/internal/middleware"
	"catalogo-api/internal/repository"
	"catalogo-api/internal/service"
	"catalogo-api/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     database.Service
}

func NewServer(cfg *config.Config, logger *zap.Logger, db database.Service, registry *prometheus.Registry) (*Server, error) {
	router, err := NewRouter(cfg, logger, db, registry)
	if err != nil {
		return nil, err
	}

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

	return server, nil
}

// NewRouter assembles the middleware chain and every API route
func NewRouter(cfg *config.Config, logger *zap.Logger, db database.Service, registry *prometheus.Registry) (chi.Router, error) {
	metrics, err := custommiddleware.NewMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, !cfg.Server.IsProduction()))
	router.Use(metrics.Middleware)

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		custommiddleware.RespondWithError(w, http.StatusNotFound, "Rota não encontrada")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		custommiddleware.RespondWithError(w, http.StatusMethodNotAllowed, "Método não permitido")
	})

	router.Method(http.MethodGet, "/metrics", metrics.Handler())

	// Initialize repositories
	productRepo := repository.NewProductRepository(db.DB())
	clientRepo := repository.NewClientRepository(db.DB())

	// Initialize services
	productService := service.NewProductService(productRepo)
	clientService := service.NewClientService(clientRepo)

	// Register routes
	transport.NewHealthHandler(db, logger).RegisterRoutes(router)
	transport.NewProductHandler(productService, logger).RegisterRoutes(router)
	transport.NewClientHandler(clientService, logger).RegisterRoutes(router)

	return router, nil
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
