package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/pbaille/voyago/internal/engine"
	"github.com/pbaille/voyago/internal/export"
	"github.com/pbaille/voyago/internal/logging"
	"github.com/pbaille/voyago/internal/planner"
	"github.com/pbaille/voyago/internal/store"
)

const maxBodyBytes = 1 << 20

// Options configures the HTTP surface
type Options struct {
	Addr              string
	CORSOrigins       []string
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// Server handles HTTP requests for the trip planner API
type Server struct {
	planner *planner.Planner
	opts    Options
	log     zerolog.Logger
}

// New creates a new API server
func New(p *planner.Planner, opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}
	return &Server{planner: p, opts: opts, log: logging.Component("api")}
}

// Handler builds the router
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         86400,
	}))
	if s.opts.RateLimitRequests > 0 && s.opts.RateLimitWindow > 0 {
		r.Use(httprate.LimitByIP(s.opts.RateLimitRequests, s.opts.RateLimitWindow))
	}

	r.Get("/health", s.health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/filters", s.filters)
		r.Get("/surprise-destination", s.surprise)
		r.Get("/places", s.listPlaces)
		r.Post("/recommendations", s.recommend)

		r.Post("/trips", s.createTrip)
		r.Get("/trips/user/{userID}", s.listTrips)
		r.Route("/trips/{tripID}", func(r chi.Router) {
			r.Get("/", s.getTrip)
			r.Delete("/", s.deleteTrip)
			r.Get("/export", s.exportTrip)

			r.Get("/items", s.listItems)
			r.Post("/items", s.addItem)

			r.Get("/expenses", s.listExpenses)
			r.Post("/expenses", s.addExpense)
			r.Delete("/expenses", s.clearExpenses)
			r.Get("/actually-spent", s.actuallySpent)
		})

		r.Put("/items/{itemID}", s.updateItem)
		r.Delete("/items/{itemID}", s.deleteItem)

		r.Patch("/expenses/{expenseID}", s.patchExpense)
		r.Delete("/expenses/{expenseID}", s.deleteExpense)
	})

	return r
}

// Run starts the HTTP server and shuts it down when ctx is done
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.opts.Addr).Msg("starting server")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.log.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.log.Info().
			Str("request_id", chimiddleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// fail maps domain errors onto status codes; anything unexpected is logged
// and hidden behind a generic message
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error().
			Err(err).
			Str("request_id", chimiddleware.GetReqID(r.Context())).
			Str("path", r.URL.Path).
			Msg("request failed")
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, planner.ErrInvalidRequest),
		errors.Is(err, engine.ErrEmptySelection),
		errors.Is(err, export.ErrUnknownFormat):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func message(text string) map[string]string {
	return map[string]string{"message": text}
}
