package server

import (
	"context"
	"crypto/rsa"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/unif001/mra-encrypt/internal/config"
	"github.com/unif001/mra-encrypt/internal/crypto"
	"github.com/unif001/mra-encrypt/internal/mra"
	mrahandlers "github.com/unif001/mra-encrypt/internal/mra/handlers"
	"github.com/unif001/mra-encrypt/internal/server/handlers"
	ownmiddleware "github.com/unif001/mra-encrypt/internal/server/middleware"
	"github.com/unif001/mra-encrypt/internal/version"
)

type Server struct {
	config    *config.ServerEnvironment
	logger    *slog.Logger
	router    *chi.Mux
	publicKey *rsa.PublicKey
	pipeline  *mra.Pipeline
}

func NewServer(
	cfg *config.ServerEnvironment,
	logger *slog.Logger,
) (*Server, error) {
	server := &Server{
		config: cfg,
		logger: logger,
		router: chi.NewRouter(),
	}

	// Missing or unusable key material is a configuration error and fails
	// startup, never a request.
	publicKey, err := crypto.LoadPublicKeyFromFile(cfg.MRAPublicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load MRA public key: %w", err)
	}
	server.publicKey = publicKey

	logger.Info("MRA public key loaded",
		slog.String("path", cfg.MRAPublicKeyPath),
		slog.Int("key_bits", publicKey.N.BitLen()))

	authority := mra.NewAuthorityClient(cfg)
	server.pipeline = mra.NewPipeline(cfg, publicKey, authority)

	server.setupMiddleware()
	server.registerRoutes()

	return server, nil
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))
	s.router.Use(ownmiddleware.RequestLogging(s.logger))
	s.router.Use(ownmiddleware.SecurityHeaders(s.config.Environment))
	s.router.Use(ownmiddleware.RequestSizeLimit(s.config.MaxRequestBodySize))
	s.router.Use(ownmiddleware.RateLimit(s.config.RateLimitRPS, s.config.RateLimitBurst))
}

func (s *Server) registerRoutes() {
	// Calling an endpoint with the wrong method is part of the API contract
	// (405 with a JSON body), so replace chi's plain-text default.
	s.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		mra.RespondWithErrorResponse(w, r,
			mra.NewMethodNotAllowedError(fmt.Sprintf("method %s is not allowed on %s", r.Method, r.URL.Path)))
	})

	rsaEncrypt := mrahandlers.NewRSAEncryptHandler(s.publicKey)
	process := mrahandlers.NewProcessHandler(s.pipeline)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/generate-aes", mrahandlers.HandleGenerateAES)
		r.Post("/rsa-encrypt", rsaEncrypt.HandleRSAEncrypt)
		r.Post("/decrypt-aes", mrahandlers.HandleDecryptAES)
		r.Post("/encrypt-invoice", mrahandlers.HandleEncryptInvoice)
		r.Post("/mra-process", process.HandleProcess)
	})

	s.router.Get("/health/live", handlers.HandleHealth)

	s.router.Get("/version", handlers.HandleVersion(version.Get()))
}

// Router exposes the configured router; used by the HTTP server and tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) Start(ctx context.Context) error {
	serverAddr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	httpServer := &http.Server{
		Addr:         serverAddr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("service listening",
			slog.String("environment", s.config.Environment),
			slog.String("address", serverAddr))

		err := httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			serverErrors <- fmt.Errorf("server failed to start: %w", err)
		}
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), s.config.ServerShutdownTimeout)
	defer shutdownCancel()

	s.logger.Info("shutting down HTTP server")

	err := httpServer.Shutdown(shutdownCtx)
	if err != nil {
		s.logger.Warn("HTTP server shutdown error",
			slog.String("error", err.Error()))
		return fmt.Errorf("HTTP server shutdown failed: %w", err)
	}

	s.logger.Info("HTTP server shutdown complete")
	return nil
}
