package httpserver

import (
	"math"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/matheusvictorello/termo-solver/internal/termo"
)

type fitReq struct {
	Guess  termo.Word `json:"guess"`
	Hidden termo.Word `json:"hidden"`
}

type fitRes struct {
	Pattern termo.Pattern `json:"pattern"`
	Code    int           `json:"code"`
}

func (s *Server) handleFit(w http.ResponseWriter, r *http.Request) {
	var req fitReq
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if !req.Guess.Valid() || !req.Hidden.Valid() {
		writeError(w, r, termo.ErrInvalidWord)
		return
	}
	p := termo.Fit(req.Guess, req.Hidden)
	writeJSON(w, http.StatusOK, fitRes{Pattern: p, Code: p.Code()})
}

type solveReq struct {
	History []termo.Constraint `json:"history"`
	Top     int                `json:"top"` // also return this many ranked alternatives
}

type scoredWord struct {
	Word termo.Word `json:"word"`
	// Score is nil for the certain single candidate; JSON has no infinity.
	Score   *float64 `json:"score"`
	Certain bool     `json:"certain"`
}

type solveRes struct {
	scoredWord
	Candidates   int          `json:"candidates"`
	Alternatives []scoredWord `json:"alternatives,omitempty"`
}

func scored(w termo.Word, v float64) scoredWord {
	if math.IsInf(v, 1) {
		return scoredWord{Word: w, Certain: true}
	}
	return scoredWord{Word: w, Score: &v}
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req solveReq
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := termo.ValidateHistory(req.History); err != nil {
		writeError(w, r, err)
		return
	}
	start := time.Now()
	rec, ranked, err := s.solver.Rank(r.Context(), req.History, min(max(req.Top, 0), maxRanked))
	if err != nil {
		writeError(w, r, err)
		return
	}
	res := solveRes{scoredWord: scored(rec.Word, rec.Score), Candidates: rec.Candidates}
	for _, rk := range ranked {
		res.Alternatives = append(res.Alternatives, scored(rk.Word, rk.Score))
	}
	log.Debug().
		Int("rounds", len(req.History)).
		Int("candidates", rec.Candidates).
		Str("word", rec.Word.String()).
		Dur("took", time.Since(start)).
		Msg("solved")
	writeJSON(w, http.StatusOK, res)
}

type strategyReq struct {
	Branches [][]termo.Constraint `json:"branches"`
}

type strategyRes struct {
	scoredWord
	Candidates int `json:"candidates"`
}

func (s *Server) handleStrategy(w http.ResponseWriter, r *http.Request) {
	var req strategyReq
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if len(req.Branches) > maxBranches {
		writeError(w, r, errTooManyBranches)
		return
	}
	for _, b := range req.Branches {
		if err := termo.ValidateHistory(b); err != nil {
			writeError(w, r, err)
			return
		}
	}
	rec, err := s.solver.AggregateContext(r.Context(), req.Branches)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, strategyRes{scoredWord: scored(rec.Word, rec.Score), Candidates: rec.Candidates})
}
