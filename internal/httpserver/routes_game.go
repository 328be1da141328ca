// internal/httpserver/routes_game.go
//
// Game routes: play a puzzle against the server and optionally ask the
// solver for the next guess after every round.
//   - POST /game/new   → start a game (random, fixed answer, or today's daily word)
//   - POST /game/guess → apply a guess; returns feedback, state and a hint
//   - GET  /stats/me   → finished-game stats for the calling player
//
// Finished games are written to the Records store when it is enabled, which
// also limits each player to one finished daily game per date.

package httpserver

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/matheusvictorello/termo-solver/internal/daily"
	"github.com/matheusvictorello/termo-solver/internal/game"
	"github.com/matheusvictorello/termo-solver/internal/store"
	"github.com/matheusvictorello/termo-solver/internal/termo"
)

var errDailyPlayed = errors.New("daily word already played today")

type newGameReq struct {
	Answer string `json:"answer"` // optional fixed answer (testing)
	Daily  bool   `json:"daily"`
}

type newGameRes struct {
	GameID string `json:"gameId"`
	Rows   int    `json:"rows"`
	Daily  string `json:"daily,omitempty"`
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if r.ContentLength != 0 {
		if err := decode(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
	}

	var answer termo.Word
	var dateKey string
	switch {
	case req.Answer != "":
		parsed, err := termo.ParseWord(req.Answer)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if !s.dict.Contains(parsed) {
			writeError(w, r, fmt.Errorf("%w: %s", game.ErrNotInList, parsed))
			return
		}
		answer = parsed
	case req.Daily:
		now := time.Now()
		dateKey = daily.DateKey(now)
		if s.records != nil {
			played, err := s.records.DailyPlayed(r.Context(), playerID(r), dateKey)
			if err != nil {
				writeError(w, r, err)
				return
			}
			if played {
				writeError(w, r, errDailyPlayed)
				return
			}
		}
		answer = s.dict.At(daily.WordIndex(now, s.cfg.DailySalt, s.dict.Len()))
	default:
		answer = s.dict.At(rand.IntN(s.dict.Len()))
	}

	g := game.New(answer)
	g.PlayerID = playerID(r)
	g.Daily = dateKey
	if err := s.games.Save(r.Context(), g); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newGameRes{GameID: g.ID, Rows: g.Rows, Daily: dateKey})
}

type guessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
	Hint   bool   `json:"hint"` // also return the solver's next guess
}

type guessRes struct {
	Pattern    termo.Pattern `json:"pattern"`
	State      game.State    `json:"state"`
	Round      int           `json:"round"`
	Candidates int           `json:"candidates,omitempty"`
	Suggestion *scoredWord   `json:"suggestion,omitempty"`
	Answer     string        `json:"answer,omitempty"` // revealed once lost
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	s.gameMu.Lock()
	g, err := s.games.Get(r.Context(), req.GameID)
	if err == nil && g.PlayerID != playerID(r) {
		err = store.ErrNotFound
	}
	if err != nil {
		s.gameMu.Unlock()
		writeError(w, r, err)
		return
	}
	p, state, err := g.ApplyGuess(req.Guess, s.dict)
	rounds := g.Rounds()
	s.gameMu.Unlock()
	if err != nil {
		writeError(w, r, err)
		return
	}

	res := guessRes{Pattern: p, State: state, Round: len(rounds)}
	switch state {
	case game.StatePlaying:
		if req.Hint {
			rec, err := s.solver.SolveContext(r.Context(), rounds)
			if err != nil {
				writeError(w, r, err)
				return
			}
			sw := scored(rec.Word, rec.Score)
			res.Suggestion, res.Candidates = &sw, rec.Candidates
		}
	case game.StateLost:
		res.Answer = g.Answer.String()
		fallthrough
	default:
		s.finish(r, g)
	}
	writeJSON(w, http.StatusOK, res)
}

// finish records a finished game (best effort) and drops it from the live store.
func (s *Server) finish(r *http.Request, g *game.Game) {
	if s.records != nil {
		if err := s.records.InsertRecord(r.Context(), store.RecordOf(g)); err != nil {
			log.Warn().Err(err).Str("gameId", g.ID).Msg("record finished game")
		}
	}
	if err := s.games.Delete(r.Context(), g.ID); err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("drop finished game")
	}
}

type statsRes struct {
	store.Stats
	Recent []recentGame `json:"recent"`
}

type recentGame struct {
	GameID     string    `json:"gameId"`
	Answer     string    `json:"answer"`
	History    string    `json:"history"`
	Won        bool      `json:"won"`
	FinishedAt time.Time `json:"finishedAt"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.records == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "stats_disabled"})
		return
	}
	id := playerID(r)
	st, err := s.records.PlayerStats(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	recs, err := s.records.Recent(r.Context(), id, 10)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res := statsRes{Stats: st, Recent: make([]recentGame, 0, len(recs))}
	for _, rec := range recs {
		res.Recent = append(res.Recent, recentGame{
			GameID: rec.GameID, Answer: rec.Answer, History: rec.History,
			Won: rec.Won, FinishedAt: rec.FinishedAt,
		})
	}
	writeJSON(w, http.StatusOK, res)
}
