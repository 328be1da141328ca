package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/TwiN/go-color"
	"github.com/schollz/progressbar/v3"

	"github.com/matheusvictorello/termo-solver/internal/bench"
	"github.com/matheusvictorello/termo-solver/internal/config"
	"github.com/matheusvictorello/termo-solver/internal/termo"
)

// runSolve prints the recommendation for -history (or SOLVE_HISTORY).
// Repeating -branch aggregates several histories instead.
func runSolve(cfg config.Config, args []string) error {
	fs := newFlagSet("solve")
	historyFlag := fs.String("history", os.Getenv("SOLVE_HISTORY"), "rounds played, e.g. tarso:WPPWW,morto:RRWWW")
	top := fs.Int("top", 5, "also list this many ranked guesses")
	var branches branchFlag
	fs.Var(&branches, "branch", "alternative history to aggregate (repeatable)")
	_ = fs.Parse(args)

	dict := loadDictionary(cfg)
	solver := termo.NewSolver(dict.Words())
	solver.Workers = cfg.Workers

	if len(branches) > 0 {
		rec, err := solver.Aggregate(branches)
		if err != nil {
			return err
		}
		fmt.Printf("%d branches, %d candidates in total\n", len(branches), rec.Candidates)
		fmt.Printf("guess %s  (%s)\n", color.Ize(color.Bold, rec.Word.String()), formatScore(rec.Score))
		return nil
	}

	history, err := termo.ParseHistory(*historyFlag)
	if err != nil {
		return err
	}
	for _, c := range history {
		fmt.Println(renderRound(c))
	}
	rec, ranked, err := solver.Rank(context.Background(), history, *top)
	if err != nil {
		return err
	}
	fmt.Printf("%d candidates\n", rec.Candidates)
	fmt.Printf("guess %s  (%s)\n", color.Ize(color.Bold, rec.Word.String()), formatScore(rec.Score))
	for i, r := range ranked {
		fmt.Printf("%3d. %s  %s\n", i+1, r.Word, formatScore(r.Score))
	}
	return nil
}

func runFit(args []string) error {
	fs := newFlagSet("fit")
	guess := fs.String("guess", "", "guessed word")
	hidden := fs.String("hidden", "", "hidden word")
	_ = fs.Parse(args)

	g, err := termo.ParseWord(*guess)
	if err != nil {
		return err
	}
	h, err := termo.ParseWord(*hidden)
	if err != nil {
		return err
	}
	c := termo.Constraint{Guess: g, Pattern: termo.Fit(g, h)}
	fmt.Printf("%s  %s  bucket %d\n", renderRound(c), c.Pattern, c.Pattern.Code())
	return nil
}

func runBench(cfg config.Config, args []string) error {
	fs := newFlagSet("bench")
	limit := fs.Int("limit", 0, "play only the first N words (0 = all)")
	_ = fs.Parse(args)

	dict := loadDictionary(cfg)
	solver := termo.NewSolver(dict.Words())
	solver.Workers = cfg.Workers
	answers := dict.Words()
	if *limit > 0 && *limit < len(answers) {
		answers = answers[:*limit]
	}

	bar := progressbar.Default(int64(len(answers)), "playing")
	res, err := bench.Run(context.Background(), solver, answers, func() { _ = bar.Add(1) })
	if err != nil {
		return err
	}
	_ = bar.Finish()

	fmt.Printf("opening %s\n", res.Opening)
	fmt.Printf("won %d/%d (%.1f%%), %.3f guesses per win\n",
		res.Wins, res.Games, 100*float64(res.Wins)/float64(max(res.Games, 1)), res.AvgGuesses())
	rounds := make([]int, 0, len(res.Distribution))
	for n := range res.Distribution {
		rounds = append(rounds, n)
	}
	sort.Ints(rounds)
	for _, n := range rounds {
		fmt.Printf("%2d: %d\n", n, res.Distribution[n])
	}
	if len(res.Lost) > 0 {
		lost := make([]string, len(res.Lost))
		for i, w := range res.Lost {
			lost[i] = w.String()
		}
		fmt.Println("lost:", strings.Join(lost, " "))
	}
	return nil
}

// renderRound draws a guess with puzzle colours: green Right, yellow Place, gray Wrong.
func renderRound(c termo.Constraint) string {
	var b strings.Builder
	for i, s := range c.Pattern {
		letter := strings.ToUpper(string(c.Guess[i]))
		switch s {
		case termo.Right:
			b.WriteString(color.Ize(color.Green, letter))
		case termo.Place:
			b.WriteString(color.Ize(color.Yellow, letter))
		default:
			b.WriteString(color.Ize(color.Gray, letter))
		}
	}
	return b.String()
}

func formatScore(v float64) string {
	if math.IsInf(v, 1) {
		return "certain"
	}
	return fmt.Sprintf("%.4f bits", v)
}

// branchFlag collects repeated -branch histories.
type branchFlag [][]termo.Constraint

func (b *branchFlag) String() string { return fmt.Sprint(len(*b), " branches") }

func (b *branchFlag) Set(s string) error {
	h, err := termo.ParseHistory(s)
	if err != nil {
		return err
	}
	*b = append(*b, h)
	return nil
}
