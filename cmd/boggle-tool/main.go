// boggle-tool solves and scores boards from the command line.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"row-major/boggle/benchmarker"
	"row-major/boggle/board"
	"row-major/boggle/dictionary"
	"row-major/boggle/solver"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
)

var cmdRoot = &cobra.Command{
	Use:          "boggle-tool",
	SilenceUsage: true,
}

var (
	dictionarySource string
	workers          int
)

func init() {
	cmdRoot.PersistentFlags().StringVar(&dictionarySource, "dictionary", "", "Word list, either a local path or gs://bucket/object.")
	cmdRoot.PersistentFlags().IntVar(&workers, "workers", 1, "Goroutines used to search a single board.")

	// Exposes glog's -v, -logtostderr and friends.
	cmdRoot.PersistentFlags().AddGoFlagSet(flag.CommandLine)
}

func loadSolver(ctx context.Context) (*solver.Solver, error) {
	if dictionarySource == "" {
		return nil, fmt.Errorf("--dictionary is required")
	}

	words, _, err := dictionary.Load(ctx, dictionarySource)
	if err != nil {
		return nil, fmt.Errorf("while loading dictionary: %w", err)
	}

	s, err := solver.New(words, solver.WithWorkers(workers))
	if err != nil {
		return nil, fmt.Errorf("while building solver: %w", err)
	}
	return s, nil
}

var (
	solveBoardFile string
	solveRows      string
)

var cmdSolve = &cobra.Command{
	Use:   "solve",
	Short: "List every word on a board and the board's total score.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var g board.Grid
		switch {
		case solveBoardFile != "":
			data, err := os.ReadFile(solveBoardFile)
			if err != nil {
				return fmt.Errorf("while reading board file: %w", err)
			}
			g, err = board.Parse(string(data))
			if err != nil {
				return fmt.Errorf("while parsing board file %q: %w", solveBoardFile, err)
			}
		case solveRows != "":
			var err error
			g, err = board.NewGridFromRows(strings.Split(solveRows, ","))
			if err != nil {
				return fmt.Errorf("while parsing --rows: %w", err)
			}
		default:
			return fmt.Errorf("one of --board or --rows is required")
		}

		s, err := loadSolver(ctx)
		if err != nil {
			return err
		}

		words, err := s.Solve(ctx, g)
		if err != nil {
			return fmt.Errorf("while solving: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprint(out, g.DisplayString())
		for _, w := range words.Sorted() {
			fmt.Fprintf(out, "%s %d\n", w, s.ScoreOf(w))
		}
		fmt.Fprintf(out, "words=%d score=%d\n", len(words), s.TotalScore(words))
		return nil
	},
}

var cmdScore = &cobra.Command{
	Use:   "score WORD...",
	Short: "Score words against the dictionary.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		s, err := loadSolver(ctx)
		if err != nil {
			return err
		}

		for _, w := range args {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d\n", strings.ToUpper(w), s.ScoreOf(strings.ToUpper(w)))
		}
		return nil
	},
}

var benchConfig benchmarker.Config

var cmdBench = &cobra.Command{
	Use:   "bench",
	Short: "Time the solver over seeded random boards.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		s, err := loadSolver(ctx)
		if err != nil {
			return err
		}

		rep, err := benchmarker.Run(ctx, s, benchConfig)
		if err != nil {
			return fmt.Errorf("while benchmarking: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), rep.String())
		fmt.Fprintf(cmd.OutOrStdout(), "best board:\n%s", rep.BestBoard.DisplayString())
		return nil
	},
}

func init() {
	cmdSolve.Flags().StringVar(&solveBoardFile, "board", "", "Board file: a \"rows cols\" header, then whitespace-separated tiles.")
	cmdSolve.Flags().StringVar(&solveRows, "rows", "", "Comma-separated board rows, e.g. CAT,ODE,GSX.  Q is the Qu tile.")

	cmdBench.Flags().IntVar(&benchConfig.Boards, "boards", 1000, "How many boards to solve.")
	cmdBench.Flags().IntVar(&benchConfig.Rows, "board-rows", 5, "Rows per random board.")
	cmdBench.Flags().IntVar(&benchConfig.Cols, "board-cols", 5, "Columns per random board.")
	cmdBench.Flags().Int64Var(&benchConfig.Seed, "seed", 487489, "Random seed.")
	cmdBench.Flags().BoolVar(&benchConfig.Dice, "dice", false, "Roll 4x4 boards from the standard dice instead.")

	cmdRoot.AddCommand(cmdSolve, cmdScore, cmdBench)
}

func main() {
	glog.CopyStandardLogTo("INFO")
	defer glog.Flush()

	if err := cmdRoot.Execute(); err != nil {
		glog.Flush()
		os.Exit(1)
	}
}
