package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-directory-auth/auth"
	"github.com/jrsteele09/go-directory-auth/directory"
	"github.com/jrsteele09/go-directory-auth/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Deps holds the collaborators the server routes requests into.
type Deps struct {
	Auth      *auth.Authenticator
	Companies directory.CompanyRepo
}

type Server struct {
	env       string // Environment (e.g., "DEV", "PROD")
	mux       *http.ServeMux
	routes    []string
	config    config.Config
	auth      *auth.Authenticator
	companies directory.CompanyRepo
	metrics   *Metrics
	log       zerolog.Logger
}

func New(cfg config.Config, deps Deps) (*Server, error) {
	if deps.Auth == nil {
		return nil, errors.New("[server.New] authenticator is required")
	}
	if deps.Companies == nil {
		return nil, errors.New("[server.New] company repo is required")
	}

	s := &Server{
		mux:       http.NewServeMux(),
		config:    cfg,
		auth:      deps.Auth,
		companies: deps.Companies,
		metrics:   NewMetrics(),
		log:       log.With().Str("component", "server").Logger(),
	}
	s.env = cfg.GetEnv()

	// Bootstrap: ensure an initial admin principal exists
	if err := s.InitialiseSystem(context.Background()); err != nil {
		return nil, fmt.Errorf("[server.New] failed to initialise the system: %w", err)
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			s.logRoute(parts[0], parts[1])
		} else {
			s.logRoute("", parts[0])
		}
	}
}

func (s *Server) logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	s.log.Info().Msgf("[%-19s] %s", displayMethod, path)
}
