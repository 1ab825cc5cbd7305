// Package server provides the HTTP bridge between an ACP-speaking
// front-end and the orchestrator: session CRUD, turn execution, the
// built-in tool catalog, MCP server management, and an SSE event feed.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/agentcore/agentcore/internal/builtintool"
	"github.com/agentcore/agentcore/internal/hook"
	"github.com/agentcore/agentcore/internal/logging"
	"github.com/agentcore/agentcore/internal/mcpclient"
	"github.com/agentcore/agentcore/internal/orchestrator"
	"github.com/agentcore/agentcore/internal/session"
)

// Config holds server configuration.
type Config struct {
	Port         int
	Directory    string
	EnableCORS   bool
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns default server configuration.
func DefaultConfig() *Config {
	return &Config{
		Port:         8765,
		EnableCORS:   true,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // no write timeout, the event feed is long-lived
	}
}

// Server is the HTTP server.
type Server struct {
	config  *Config
	router  *chi.Mux
	httpSrv *http.Server

	Store *session.Store
	Tools *builtintool.Registry
	MCP   *mcpclient.Manager
	Hooks *hook.Registry
	Orch  *orchestrator.Orchestrator
}

// New wires a Server around its collaborators and sets up routes.
func New(cfg *Config, store *session.Store, tools *builtintool.Registry, mcpMgr *mcpclient.Manager, hooks *hook.Registry, orch *orchestrator.Orchestrator) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	s := &Server{
		config: cfg,
		router: chi.NewRouter(),
		Store:  store,
		Tools:  tools,
		MCP:    mcpMgr,
		Hooks:  hooks,
		Orch:   orch,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RealIP)

	if s.config.EnableCORS {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
}

// Router returns the chi router, primarily for tests.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server until it errors or is shut down.
func (s *Server) Start() error {
	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	logging.Info().Int("port", s.config.Port).Msg("server: listening")
	return s.httpSrv.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}
