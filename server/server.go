package server

import (
	"net/http"

	"github.com/jrsteele09/go-bizcuit-gateway/bizcuit"
	"github.com/jrsteele09/go-bizcuit-gateway/internal/config"
)

type Server struct {
	env     string // Environment (e.g., "DEV", "production")
	mux     *http.ServeMux
	routes  []string
	config  config.Config
	bizcuit *bizcuit.Service
}

func New(config config.Config, service *bizcuit.Service) *Server {
	s := &Server{
		mux:     http.NewServeMux(),
		config:  config,
		bizcuit: service,
		env:     config.GetEnv(),
	}

	s.initRoutes()

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) initRoutes() {
	middleware := []func(http.HandlerFunc) http.HandlerFunc{
		s.LoggingMiddleware,
		s.RecoverMiddleware,
	}

	s.RegisterRouteFunc("GET "+RouteAuth, ChainMiddleware(s.AuthHandler(), middleware...))
	s.RegisterRouteFunc("GET "+RouteAuthResponse, ChainMiddleware(s.AuthResponseHandler(), middleware...))
	s.RegisterRouteFunc("GET "+RouteTransactions, ChainMiddleware(s.TransactionsHandler(), middleware...))
}
