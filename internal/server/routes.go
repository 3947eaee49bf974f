package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// middleware returns the stack applied to every route, outermost first.
// Logging wraps recovery so a recovered panic is still logged as a 500.
func (s *Server) middleware() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		correlationIDMiddleware,
		loggingMiddleware(s.logger),
		recoveryMiddleware(s.logger),
		cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "HEAD", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID", "X-Correlation-ID"},
			ExposedHeaders: []string{"X-Correlation-ID"},
			MaxAge:         300,
		}),
	}
}

// routes builds the router with the middleware stack applied.
func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.middleware()...)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Head("/health", s.handleHealth)
		r.Get("/version", s.handleVersion)
		r.Get("/benchmarks", s.handleBenchmarks)

		r.Route("/returns", func(r chi.Router) {
			r.Post("/lump-sum", s.handleLumpSum)
			r.Post("/dca", s.handleDCA)
			r.Post("/chart", s.handleChart)
		})
	})

	return r
}
