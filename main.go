package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/matheusvictorello/termo-solver/internal/config"
	"github.com/matheusvictorello/termo-solver/internal/httpserver"
	"github.com/matheusvictorello/termo-solver/internal/store"
	"github.com/matheusvictorello/termo-solver/internal/words"
)

const usage = `usage: termo-solver [command] [flags]

commands:
  serve   run the HTTP API (default)
  solve   recommend the next guess for a history
  fit     show the feedback for a guess against a hidden word
  bench   let the solver play every dictionary word
`

// shutdownGrace bounds how long in-flight requests may run after a signal.
const shutdownGrace = 15 * time.Second

func main() {
	cfg := config.Load()
	setupLogging(cfg)

	cmd, args := "serve", os.Args[1:]
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		cmd, args = args[0], args[1:]
	}

	var err error
	switch cmd {
	case "serve":
		err = serve(cfg)
	case "solve":
		err = runSolve(cfg, args)
	case "fit":
		err = runFit(args)
	case "bench":
		err = runBench(cfg, args)
	case "help":
		fmt.Print(usage)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Str("command", cmd).Msg("failed")
	}
}

func setupLogging(cfg config.Config) {
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

// loadDictionary loads the configured word list; failure ends the process.
func loadDictionary(cfg config.Config) *words.Dictionary {
	dict, err := words.Open(cfg.WordsFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.WordsFile).Msg("failed to load word list")
	}
	log.Info().Int("words", dict.Len()).Msg("dictionary loaded")
	return dict
}

func serve(cfg config.Config) error {
	dict := loadDictionary(cfg)

	var records *store.Records
	if cfg.DBEnabled() {
		var err error
		if records, err = store.Open(cfg.DBPath); err != nil {
			return fmt.Errorf("open database %s: %w", cfg.DBPath, err)
		}
		defer func() {
			if err := records.Close(); err != nil {
				log.Warn().Err(err).Msg("close database")
			}
		}()
	}

	mem := store.NewMemoryStore()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go sweep(ctx, mem)

	srv := httpserver.New(cfg, dict, mem, records)
	log.Info().Str("port", cfg.Port).Bool("records", records != nil).Msg("starting termo-solver")
	errc := make(chan error, 1)
	go func() { errc <- srv.Start(":" + cfg.Port) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// sweep drops abandoned games once an hour.
func sweep(ctx context.Context, mem *store.Memory) {
	t := time.NewTicker(time.Hour)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := mem.Sweep(now.Add(-24 * time.Hour)); n > 0 {
				log.Info().Int("games", n).Msg("swept abandoned games")
			}
		}
	}
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: termo-solver %s [flags]\n", name)
		fs.PrintDefaults()
	}
	return fs
}
