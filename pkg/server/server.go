package server

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/adfharrison1/go-baas/pkg/api"
	"github.com/adfharrison1/go-baas/pkg/platform"
)

// Server holds the router and the store handles it serves.
type Server struct {
	router   *mux.Router
	platform *platform.Platform
}

// NewServer creates a new instance of Server around already-connected handles.
func NewServer(p *platform.Platform) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		platform: p,
	}

	api.NewHandler(p.Docs, p.Trees, p.Files).RegisterRoutes(s.router)

	// Use the logging middleware for all routes
	s.router.Use(requestLoggerMiddleware)

	// Customize NotFoundHandler to log 404s
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("WARN: No route found for %s %s", r.Method, r.URL.Path)
		api.WriteJSONError(w, http.StatusNotFound, "no route for "+r.URL.Path)
	})

	return s
}

// requestLoggerMiddleware logs the method, URL path, and duration for each request.
func requestLoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		elapsed := time.Since(start)
		log.Printf("INFO: Request %s %s took %s", r.Method, r.URL.Path, elapsed)
	})
}

// Router exposes the internal mux.Router.
func (s *Server) Router() http.Handler {
	return s.router
}
