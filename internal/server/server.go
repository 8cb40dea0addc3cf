// Package server sets up the HTTP server, router, and all route definitions.
//
// SERVER ARCHITECTURE:
// This package is the wiring layer. It decides:
//   - which URL patterns map to which handler functions
//   - what middleware runs on which routes
//   - how the server starts and stops gracefully
//
// DEPENDENCY INJECTION FLOW:
// main.go creates:
//
//	config.Config, *slog.Logger, *sqlstore.Store, *auth.PasswordService
//
// server.New creates:
//
//	store.Animals()     -> AnimalService     -> AnimalHandler
//	store.Protectores() -> ProtectoraService -> ProtectoraHandler
//	store.Usuaris()     -> UsuarioService    -> UsuarioHandler, admin guard
//
// This is the composition root: every dependency is wired here and nowhere
// else.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/buscadorpelut/buscadorpelut/internal/auth"
	"github.com/buscadorpelut/buscadorpelut/internal/config"
	_ "github.com/buscadorpelut/buscadorpelut/internal/docs" // registers the swagger document
	"github.com/buscadorpelut/buscadorpelut/internal/handler"
	"github.com/buscadorpelut/buscadorpelut/internal/middleware"
	"github.com/buscadorpelut/buscadorpelut/internal/model"
	"github.com/buscadorpelut/buscadorpelut/internal/repository/sqlstore"
	"github.com/buscadorpelut/buscadorpelut/internal/service"
)

// Server represents the HTTP server and all its dependencies.
//
// RESOURCE MANAGEMENT:
// The Server owns the store. Start closes it after the HTTP server has
// drained, so in-flight requests never see a closed database.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	store  *sqlstore.Store

	usuaris *service.UsuarioService
}

// New wires services, handlers and routes over store.
func New(cfg config.Config, store *sqlstore.Store, passwords *auth.PasswordService, logger *slog.Logger) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		config:  cfg,
		logger:  logger,
		store:   store,
		usuaris: service.NewUsuarioService(store.Usuaris(), passwords, logger),
	}
	s.setupRoutes()
	return s
}

// Handler exposes the router, for tests and for embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	GET    /health                          -> liveness probe
//	GET    /swagger/*                       -> API docs (SWAGGER_ENABLED)
//	POST   /api/register, /api/login
//	GET    /api/animals, /api/animals/adoptats, /api/animals/{id}
//	GET    /api/protectores, /api/protectores/{id}
//	GET    /api/usuarios                    -> ADMIN (Basic auth)
//	GET    /api/usuarios/{id}               -> the account itself or ADMIN
//	PUT    /api/usuarios/{id}               -> the account itself or ADMIN
//	*      /api/admin/{usuaris,animals,protectores}[/{id}]  (ADMIN only when ADMIN_AUTH)
//
// MIDDLEWARE ORDER MATTERS:
//  1. RequestID, so every later log line can carry it
//  2. RealIP
//  3. Logger
//  4. Recoverer, inside Logger so a panic is still logged as a 500
//  5. CORS, which answers preflight requests before any route runs
func (s *Server) setupRoutes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.config.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	s.router.Get("/health", s.handleHealth)

	if s.config.SwaggerEnabled {
		s.router.Get("/swagger/*", httpSwagger.WrapHandler)
	}

	animals := handler.NewAnimalHandler(service.NewAnimalService(s.store.Animals(), s.logger), s.logger)
	protectores := handler.NewProtectoraHandler(service.NewProtectoraService(s.store.Protectores(), s.logger), s.logger)
	usuaris := handler.NewUsuarioHandler(s.usuaris, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/register", usuaris.HandleRegister)
		r.Post("/login", usuaris.HandleLogin)

		r.Get("/animals", animals.HandleList)
		r.Get("/animals/adoptats", animals.HandleListAdopted)
		r.Get("/animals/{id}", animals.HandleGet)

		r.Get("/protectores", protectores.HandleSearch)
		r.Get("/protectores/{id}", protectores.HandleGet)

		// Profiles are never anonymous, whatever ADMIN_AUTH says.
		r.Route("/usuarios", func(r chi.Router) {
			r.With(auth.RequireRole(s.usuaris, s.logger, model.RolAdmin)).Get("/", usuaris.HandleList)
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireUser(s.usuaris, s.logger))
				r.Get("/{id}", usuaris.HandleGetProfile)
				r.Put("/{id}", usuaris.HandleUpdateProfile)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			if s.config.AdminAuth {
				// Stateless: every admin request carries and re-checks
				// its credentials.
				r.Use(auth.RequireRole(s.usuaris, s.logger, model.RolAdmin))
				r.Use(s.auditAdmin)
			} else {
				s.logger.Warn("admin routes are NOT protected (ADMIN_AUTH=false)")
			}

			r.Route("/usuaris", func(r chi.Router) {
				r.Get("/", usuaris.HandleList)
				r.Post("/", usuaris.HandleAdminCreate)
				r.Get("/{id}", usuaris.HandleGet)
				r.Put("/{id}", usuaris.HandleAdminUpdate)
				r.Delete("/{id}", usuaris.HandleAdminDelete)
			})
			r.Route("/animals", func(r chi.Router) {
				r.Get("/", animals.HandleListAll)
				r.Post("/", animals.HandleCreate)
				r.Get("/{id}", animals.HandleGet)
				r.Put("/{id}", animals.HandleUpdate)
				r.Delete("/{id}", animals.HandleDelete)
			})
			r.Route("/protectores", func(r chi.Router) {
				r.Get("/", protectores.HandleList)
				r.Post("/", protectores.HandleCreate)
				r.Get("/{id}", protectores.HandleGet)
				r.Put("/{id}", protectores.HandleUpdate)
				r.Delete("/{id}", protectores.HandleDelete)
			})
		})
	})
}

// handleHealth answers "ok" when the database answers a ping.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := s.store.DB().PingContext(ctx); err != nil {
		s.logger.Error("health check failed", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("database unavailable"))
		return
	}
	_, _ = w.Write([]byte("ok"))
}

// auditAdmin logs which account issued each write on the admin routes.
func (s *Server) auditAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			if user, ok := auth.UserFromContext(r.Context()); ok {
				s.logger.Info("admin write",
					slog.Int64("admin_id", user.ID),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Bootstrap creates the configured admin account if it does not exist
// yet. With the admin guard on, this is the only way to get a first ADMIN.
func (s *Server) Bootstrap(ctx context.Context) error {
	if s.config.AdminEmail == "" {
		if s.config.AdminAuth {
			s.logger.Info("no bootstrap admin configured; /api/admin needs an existing ADMIN account")
		}
		return nil
	}
	if _, err := s.usuaris.EnsureAdmin(ctx, s.config.AdminEmail, s.config.AdminPassword); err != nil {
		return fmt.Errorf("bootstrapping admin: %w", err)
	}
	return nil
}

// Start starts the HTTP server and handles graceful shutdown.
//
// GRACEFUL SHUTDOWN:
//  1. Stop accepting new HTTP connections
//  2. Wait for in-flight requests to finish (30s timeout)
//  3. Close the store
func (s *Server) Start() error {
	defer func() {
		if err := s.store.Close(); err != nil {
			s.logger.Error("closing store", slog.String("error", err.Error()))
		}
	}()

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
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("database", s.store.Dialect()),
			slog.Bool("admin_auth", s.config.AdminAuth),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
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
