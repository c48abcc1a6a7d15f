package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Orca-bit/argmin/pkg/checkpoint"
	"github.com/Orca-bit/argmin/pkg/core"
	"github.com/Orca-bit/argmin/pkg/linalg"
)

var resumeRunID string

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume an optimization from its last checkpoint",
	Long: `Restores solver and state from a run's checkpoint and continues the
optimization with a fresh iteration budget. The objective and solver flags
must match the original run; solver configuration is rebuilt from flags,
only the optimization state is restored.`,
	RunE: resumeOptimization,
}

func init() {
	resumeCmd.Flags().StringVar(&resumeRunID, "run-id", "", "Run ID to resume (required)")
	resumeCmd.Flags().StringVar(&objectiveName, "objective", "sphere", "Objective: sphere, rosenbrock")
	resumeCmd.Flags().StringVar(&solverName, "solver", "gd", "Solver: gd, mayfly")
	resumeCmd.Flags().IntVar(&dim, "dim", 2, "Problem dimension")
	resumeCmd.Flags().Uint64Var(&maxIters, "max-iters", 100, "Additional iteration budget")
	resumeCmd.Flags().Float64Var(&targetCost, "target-cost", 0, "Stop once best cost reaches this value (0 disables)")
	resumeCmd.Flags().Float64Var(&gradTol, "grad-tol", 1e-6, "Gradient norm convergence tolerance (gd)")
	resumeCmd.Flags().StringVar(&dataDir, "data-dir", "./data", "Directory for checkpoints and traces")
	resumeCmd.Flags().Uint64Var(&checkpointEvery, "checkpoint-every", 1, "Checkpoint every N iterations")
	resumeCmd.Flags().StringVar(&tracePath, "trace", "", "Cost trace file (JSONL, empty disables)")
	resumeCmd.Flags().BoolVar(&traceParam, "trace-param", false, "Include best parameter vector in trace entries")
	resumeCmd.Flags().Float64Var(&lowerBound, "lower", -5, "Lower search bound (mayfly)")
	resumeCmd.Flags().Float64Var(&upperBound, "upper", 5, "Upper search bound (mayfly)")
	resumeCmd.Flags().IntVar(&popSize, "pop", 30, "Population size (mayfly)")
	resumeCmd.Flags().IntVar(&chunkIters, "chunk-iters", 20, "Inner iterations per chunk (mayfly)")
	resumeCmd.Flags().Int64Var(&seed, "seed", 42, "Random seed (mayfly)")

	resumeCmd.MarkFlagRequired("run-id")
	rootCmd.AddCommand(resumeCmd)
}

func resumeOptimization(cmd *cobra.Command, args []string) error {
	solver, err := buildSolver(solverName)
	if err != nil {
		return err
	}

	store, err := checkpoint.NewFile[vecSolver, *vecState](dataDir, resumeRunID, core.CheckpointEvery(checkpointEvery))
	if err != nil {
		return err
	}

	loaded := core.NewIterState[linalg.Vec, linalg.Vec, struct{}, struct{}, float64]()
	found, err := store.Load(solver, loaded)
	if err != nil {
		return fmt.Errorf("failed to load checkpoint: %w", err)
	}
	if !found {
		return &checkpoint.NotFoundError{RunID: resumeRunID}
	}

	slog.Info("Resuming optimization",
		"runID", resumeRunID,
		"iter", loaded.Iter(),
		"best_cost", loaded.BestCost(),
	)

	exec, trace, err := buildExecutor(solver, resumeRunID)
	if err != nil {
		return err
	}
	if trace != nil {
		defer trace.Close()
	}

	exec.Configure(func(s *vecState) {
		*s = *loaded
		s.ResetTermination()
		s.SetMaxIters(loaded.Iter() + maxIters)
		if targetCost > 0 {
			s.SetTargetCost(targetCost)
		}
	})

	result, err := exec.Run()
	if err != nil {
		return fmt.Errorf("optimization failed: %w", err)
	}

	slog.Info("Optimization complete",
		"runID", resumeRunID,
		"termination", result.State.TerminationReason().String(),
		"best_cost", result.State.BestCost(),
		"iterations", result.State.Iter(),
	)
	fmt.Print(result)
	return nil
}
