// internal/httpserver/server.go
//
// HTTP server wiring for the solver.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/debug/words".
//   - Solver endpoints: POST /fit, POST /solve, POST /strategy.
//   - Game endpoints (player token issued on demand): POST /game/new, POST /game/guess.
//   - Stats (player token required): GET /stats/me.
//
// Notes:
//   - Every request runs under chimw.Timeout; the solver honours the request
//     context, so an oversized scoring pass stops instead of running on.
//   - Domain errors map to status codes in writeError.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/matheusvictorello/termo-solver/internal/config"
	"github.com/matheusvictorello/termo-solver/internal/game"
	"github.com/matheusvictorello/termo-solver/internal/store"
	"github.com/matheusvictorello/termo-solver/internal/termo"
	"github.com/matheusvictorello/termo-solver/internal/words"
)

const (
	maxRanked   = 50 // alternatives /solve returns
	maxBranches = 64 // histories one /strategy request may aggregate
)

// Server bundles router, dictionary, solver and stores.
type Server struct {
	r       *chi.Mux
	srv     *http.Server
	cfg     config.Config
	dict    *words.Dictionary
	solver  *termo.Solver
	games   store.Store
	records *store.Records // nil when recording is disabled

	gameMu sync.Mutex // serializes guess application
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg config.Config, dict *words.Dictionary, games store.Store, records *store.Records) *Server {
	solver := termo.NewSolver(dict.Words())
	solver.Workers = cfg.Workers
	s := &Server{r: chi.NewRouter(), cfg: cfg, dict: dict, solver: solver, games: games, records: records}
	s.srv = &http.Server{Handler: s.r, ReadHeaderTimeout: 5 * time.Second}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(cfg.SolveTimeout))
	s.r.Use(jsonContentType)
	s.r.Use(cors(cfg.ClientOrigin))

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"termo-solver","endpoints":["/health","POST /fit","POST /solve","POST /strategy","POST /game/new","POST /game/guess","/stats/me"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]int{"words": s.dict.Len()})
	})

	// --- solver ---
	s.r.Post("/fit", s.handleFit)
	s.r.Post("/solve", s.handleSolve)
	s.r.Post("/strategy", s.handleStrategy)

	// --- games ---
	s.r.With(s.withPlayer()).Post("/game/new", s.handleNewGame)
	s.r.With(s.withPlayer()).Post("/game/guess", s.handleGuess)
	s.r.With(s.requirePlayer()).Get("/stats/me", s.handleStats)

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})
	return s
}

// Start serves HTTP on addr until Shutdown, which makes it return
// http.ErrServerClosed.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.srv.Serve(ln)
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ------------------------------- helpers -----------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decode reads a JSON body into v. Word and pattern fields validate while
// decoding, so their errors keep the termo sentinels.
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, termo.ErrInvalidWord) || errors.Is(err, termo.ErrInvalidPattern) {
			return err
		}
		return errBadJSON
	}
	return nil
}

var (
	errBadJSON         = errors.New("malformed JSON body")
	errTooManyBranches = fmt.Errorf("more than %d branches", maxBranches)
)

// writeError maps err to a status code and a JSON error body.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := http.StatusInternalServerError, "internal"
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		// chimw.Timeout answers 504 once the handler returns
		log.Warn().Str("path", r.URL.Path).Msg("request timed out")
		return
	case errors.Is(err, errBadJSON):
		status, code = http.StatusBadRequest, "bad_json"
	case errors.Is(err, termo.ErrInvalidWord):
		status, code = http.StatusBadRequest, "invalid_word"
	case errors.Is(err, termo.ErrInvalidPattern):
		status, code = http.StatusBadRequest, "invalid_pattern"
	case errors.Is(err, errTooManyBranches):
		status, code = http.StatusBadRequest, "too_many_branches"
	case errors.Is(err, termo.ErrNoBranches):
		status, code = http.StatusBadRequest, "no_branches"
	case errors.Is(err, game.ErrNotInList):
		status, code = http.StatusBadRequest, "not_in_word_list"
	case errors.Is(err, termo.ErrEmptyCandidatePool):
		status, code = http.StatusUnprocessableEntity, "empty_candidate_pool"
	case errors.Is(err, game.ErrFinished):
		status, code = http.StatusConflict, "game_finished"
	case errors.Is(err, errDailyPlayed):
		status, code = http.StatusConflict, "daily_played"
	case errors.Is(err, store.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	}
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	writeJSON(w, status, map[string]string{"error": code, "detail": err.Error()})
}
