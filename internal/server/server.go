// Package server wires handlers, middleware, and routes together and
// owns the HTTP server lifecycle. It is the composition root: every
// dependency is constructed here and injected downward.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/skill-tracker/internal/auth"
	"github.com/sakif/skill-tracker/internal/config"
	"github.com/sakif/skill-tracker/internal/handler"
	"github.com/sakif/skill-tracker/internal/middleware"
	sqliteRepo "github.com/sakif/skill-tracker/internal/repository/sqlite"
	"github.com/sakif/skill-tracker/internal/service"
)

// Server holds the router and the resources it owns. The database
// connection is closed during graceful shutdown.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server and assembles the dependency chain from the
// sqlite stores through the services and handlers to the routes.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware, constructs the services, and maps
// the route table:
//
//	GET    /                    → health banner
//	POST   /register            → create account, issue token
//	POST   /login               → verify credentials, issue token
//	GET    /dashboard           → protected; echoes token claims
//	GET    /skills              → list skill catalog
//	POST   /add-skill           → create skill
//	PUT    /update-skill/{id}   → update skill
//	DELETE /delete-skill/{id}   → delete skill
//	GET    /auth/github/login   → (optional) GitHub sign-in redirect
//	GET    /auth/github/callback→ (optional) GitHub sign-in completion
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.JWTSecret, s.config.TokenTTL)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService(s.config.BcryptCost)

	var github *auth.GitHubProvider
	if s.config.GitHubEnabled() {
		github = auth.NewGitHubProvider(
			s.config.GitHubClientID,
			s.config.GitHubClientSecret,
			s.config.GitHubCallbackURL,
		)
	}

	authService := service.NewAuthService(s.db.Users(), tokens, passwords, s.logger)
	skillService := service.NewSkillService(s.db.Skills(), s.logger)

	authHandler := handler.NewAuthHandler(authService, github, s.logger)
	skillHandler := handler.NewSkillHandler(skillService, s.logger)

	s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Skill Tracker API is running..."))
	})

	s.router.Post("/register", authHandler.HandleRegister)
	s.router.Post("/login", authHandler.HandleLogin)

	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))
		r.Get("/dashboard", authHandler.HandleDashboard)
	})

	s.router.Get("/skills", skillHandler.HandleList)
	s.router.Post("/add-skill", skillHandler.HandleCreate)
	s.router.Put("/update-skill/{id}", skillHandler.HandleUpdate)
	s.router.Delete("/delete-skill/{id}", skillHandler.HandleDelete)

	if github != nil {
		s.router.Get("/auth/github/login", authHandler.HandleGitHubLogin)
		s.router.Get("/auth/github/callback", authHandler.HandleGitHubCallback)
	} else {
		s.logger.Info("GitHub sign-in not configured; OAuth routes disabled")
	}

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then drains in-flight
// requests (30s budget) and closes the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
