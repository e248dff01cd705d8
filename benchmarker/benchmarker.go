// Package benchmarker times the solver over seeded random boards.
package benchmarker

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"row-major/boggle/board"
	"row-major/boggle/solver"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Config selects the boards to solve.
type Config struct {
	Boards int
	Rows   int
	Cols   int
	Seed   int64

	// Dice rolls standard 4x4 boards from the Boggle dice; Rows and Cols are
	// ignored.
	Dice bool
}

// Report summarizes one run.
type Report struct {
	Boards int
	Rows   int
	Cols   int

	MinTime    time.Duration
	MedianTime time.Duration
	MaxTime    time.Duration
	TotalTime  time.Duration

	MinScore   int
	MaxScore   int
	AvgScore   float64
	TotalWords int

	// BestBoard is the highest scoring board seen.
	BestBoard board.Grid
}

func (c Config) board(r *rand.Rand) board.Grid {
	if c.Dice {
		return board.NewDice(r)
	}
	return board.NewRandom(r, c.Rows, c.Cols)
}

// Run solves cfg.Boards boards with s.  Only the Solve call is timed.
func Run(ctx context.Context, s *solver.Solver, cfg Config) (*Report, error) {
	tracer := otel.Tracer("row-major/boggle/benchmarker")
	var span trace.Span
	ctx, span = tracer.Start(ctx, "benchmarker.Run")
	defer span.End()

	if cfg.Boards <= 0 {
		return nil, fmt.Errorf("need at least one board, got %d: %w", cfg.Boards, solver.ErrInvalidArgument)
	}
	if !cfg.Dice && (cfg.Rows < 0 || cfg.Cols < 0) {
		return nil, fmt.Errorf("bad board shape %dx%d: %w", cfg.Rows, cfg.Cols, solver.ErrInvalidArgument)
	}

	r := rand.New(rand.NewSource(cfg.Seed))

	rep := &Report{
		Boards:   cfg.Boards,
		Rows:     cfg.Rows,
		Cols:     cfg.Cols,
		MinScore: -1,
	}
	if cfg.Dice {
		rep.Rows, rep.Cols = 4, 4
	}

	runTimings := make([]time.Duration, 0, cfg.Boards)
	totalScore := 0
	for i := 0; i < cfg.Boards; i++ {
		g := cfg.board(r)

		start := time.Now()
		words, err := s.Solve(ctx, g)
		elapsed := time.Since(start)
		if err != nil {
			return nil, fmt.Errorf("while solving board %d:\n%s: %w", i, g.DisplayString(), err)
		}

		runTimings = append(runTimings, elapsed)
		rep.TotalTime += elapsed

		score := s.TotalScore(words)
		totalScore += score
		rep.TotalWords += len(words)
		if score > rep.MaxScore || i == 0 {
			rep.MaxScore = score
			rep.BestBoard = g
		}
		if rep.MinScore == -1 || score < rep.MinScore {
			rep.MinScore = score
		}
	}

	sort.Slice(runTimings, func(i, j int) bool {
		return runTimings[i] < runTimings[j]
	})
	rep.MinTime = runTimings[0]
	rep.MedianTime = runTimings[len(runTimings)/2]
	rep.MaxTime = runTimings[len(runTimings)-1]
	rep.AvgScore = float64(totalScore) / float64(cfg.Boards)

	span.SetAttributes(
		attribute.Int("boards", cfg.Boards),
		attribute.Int64("total_time_ns", int64(rep.TotalTime)),
	)

	return rep, nil
}

func (r *Report) String() string {
	return fmt.Sprintf(
		"boards=%d %dx%d total=%v min=%v med=%v max=%v words=%d score(max=%d min=%d avg=%.2f)",
		r.Boards, r.Rows, r.Cols, r.TotalTime, r.MinTime, r.MedianTime, r.MaxTime,
		r.TotalWords, r.MaxScore, r.MinScore, r.AvgScore,
	)
}
