// internal/store/sqlite.go
//
// SQLite persistence for finished games.
// Responsibilities:
//   - Open the database with safe defaults (WAL, busy timeout, foreign keys).
//   - Apply the embedded migrations in lexical order, once each
//     (recorded in _migrations).
//   - Insert finished-game records and aggregate per-player stats.
//
// Only finished games are written; live games stay in the Memory store and
// the solver itself keeps no state here.

package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/matheusvictorello/termo-solver/internal/game"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Records stores finished games.
type Records struct {
	db *sql.DB
}

// Record is one finished game as stored.
type Record struct {
	GameID     string
	PlayerID   string
	Answer     string
	Daily      string
	History    string // comma separated guess:PATTERN, as termo.ParseHistory reads it
	Guesses    int
	Won        bool
	FinishedAt time.Time
}

// Stats summarizes a player's finished games.
type Stats struct {
	PlayerID    string  `json:"playerId"`
	GamesPlayed int     `json:"gamesPlayed"`
	Wins        int     `json:"wins"`
	AvgGuesses  float64 `json:"avgGuesses"` // over won games
}

// Open opens (and creates if missing) the SQLite file at path and migrates it.
func Open(path string) (*Records, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Records{db: db}, nil
}

// Close closes the database.
func (r *Records) Close() error { return r.db.Close() }

// migrate applies every embedded migration not yet recorded.
func migrate(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	files, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(files)

	for _, f := range files {
		var done int
		err := db.QueryRow(`SELECT 1 FROM _migrations WHERE name=?`, f).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", f).Msg("already applied")
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("query _migrations: %w", err)
		}

		sqlText, err := migrations.ReadFile(f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(string(sqlText)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", f, err)
		}
		if _, err := tx.Exec(`INSERT INTO _migrations(name) VALUES (?)`, f); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", f, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", f, err)
		}
		log.Info().Str("migration", f).Msg("applied")
	}
	return nil
}

// RecordOf builds the stored form of a finished game.
func RecordOf(g *game.Game) Record {
	rounds := make([]string, len(g.History))
	for i, c := range g.History {
		rounds[i] = c.String()
	}
	return Record{
		GameID:     g.ID,
		PlayerID:   g.PlayerID,
		Answer:     g.Answer.String(),
		Daily:      g.Daily,
		History:    strings.Join(rounds, ","),
		Guesses:    len(g.History),
		Won:        g.Won,
		FinishedAt: time.Now().UTC(),
	}
}

// InsertRecord stores rec. Recording the same game twice is a no-op.
func (r *Records) InsertRecord(ctx context.Context, rec Record) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO games
            (id, player_id, answer, daily, history, guesses, won, finished_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.GameID, rec.PlayerID, rec.Answer, rec.Daily, rec.History,
		rec.Guesses, rec.Won, rec.FinishedAt.Format(time.RFC3339),
	)
	return err
}

// PlayerStats aggregates the finished games of playerID.
func (r *Records) PlayerStats(ctx context.Context, playerID string) (Stats, error) {
	s := Stats{PlayerID: playerID}
	var avg sql.NullFloat64
	err := r.db.QueryRowContext(ctx, `
        SELECT COUNT(1),
               COALESCE(SUM(won), 0),
               AVG(CASE WHEN won THEN guesses END)
        FROM games
        WHERE player_id=?`, playerID,
	).Scan(&s.GamesPlayed, &s.Wins, &avg)
	if err != nil {
		return Stats{}, err
	}
	s.AvgGuesses = avg.Float64
	return s, nil
}

// DailyPlayed reports whether playerID already finished the daily game of date.
func (r *Records) DailyPlayed(ctx context.Context, playerID, date string) (bool, error) {
	if date == "" {
		return false, nil
	}
	var played bool
	err := r.db.QueryRowContext(ctx, `
        SELECT EXISTS(SELECT 1 FROM games WHERE player_id=? AND daily=?)`,
		playerID, date,
	).Scan(&played)
	return played, err
}

// Recent returns the latest finished games of playerID, newest first.
func (r *Records) Recent(ctx context.Context, playerID string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, player_id, answer, daily, history, guesses, won, finished_at
        FROM games
        WHERE player_id=?
        ORDER BY finished_at DESC, id ASC
        LIMIT ?`, playerID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Record, 0, limit)
	for rows.Next() {
		var rec Record
		var finished string
		if err := rows.Scan(&rec.GameID, &rec.PlayerID, &rec.Answer, &rec.Daily,
			&rec.History, &rec.Guesses, &rec.Won, &finished); err != nil {
			return nil, err
		}
		rec.FinishedAt, _ = time.Parse(time.RFC3339, finished)
		out = append(out, rec)
	}
	return out, rows.Err()
}
