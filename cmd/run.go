package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Orca-bit/argmin/pkg/checkpoint"
	"github.com/Orca-bit/argmin/pkg/core"
	"github.com/Orca-bit/argmin/pkg/linalg"
	"github.com/Orca-bit/argmin/pkg/observer"
	"github.com/Orca-bit/argmin/pkg/solver/gradientdescent"
	"github.com/Orca-bit/argmin/pkg/solver/linesearch"
	"github.com/Orca-bit/argmin/pkg/solver/swarm"
)

// The CLI optimizes over dense float64 vectors; these aliases pin the generic
// machinery to that instantiation.
type (
	vecProblem = core.Problem[linalg.Vec, linalg.Vec, struct{}, struct{}, float64]
	vecState   = core.IterState[linalg.Vec, linalg.Vec, struct{}, struct{}, float64]
	vecSolver  = core.Solver[linalg.Vec, linalg.Vec, struct{}, struct{}, float64]
)

var (
	objectiveName   string
	solverName      string
	dim             int
	startVal        float64
	maxIters        uint64
	targetCost      float64
	gradTol         float64
	runTimeout      time.Duration
	dataDir         string
	checkpointEvery uint64
	tracePath       string
	traceParam      bool
	lowerBound      float64
	upperBound      float64
	popSize         int
	chunkIters      int
	seed            int64
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an optimization from scratch",
	Long:  `Runs a solver against a benchmark objective and prints the result.`,
	RunE:  runOptimization,
}

func init() {
	runCmd.Flags().StringVar(&objectiveName, "objective", "sphere", "Objective: sphere, rosenbrock")
	runCmd.Flags().StringVar(&solverName, "solver", "gd", "Solver: gd, mayfly")
	runCmd.Flags().IntVar(&dim, "dim", 2, "Problem dimension")
	runCmd.Flags().Float64Var(&startVal, "start", -1.2, "Initial value for every coordinate")
	runCmd.Flags().Uint64Var(&maxIters, "max-iters", 100, "Max iterations")
	runCmd.Flags().Float64Var(&targetCost, "target-cost", 0, "Stop once best cost reaches this value (0 disables)")
	runCmd.Flags().Float64Var(&gradTol, "grad-tol", 1e-6, "Gradient norm convergence tolerance (gd)")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 0, "Wall-clock budget (0 disables)")
	runCmd.Flags().StringVar(&dataDir, "data-dir", "./data", "Directory for checkpoints and traces")
	runCmd.Flags().Uint64Var(&checkpointEvery, "checkpoint-every", 0, "Checkpoint every N iterations (0 disables)")
	runCmd.Flags().StringVar(&tracePath, "trace", "", "Cost trace file (JSONL, empty disables)")
	runCmd.Flags().BoolVar(&traceParam, "trace-param", false, "Include best parameter vector in trace entries")
	runCmd.Flags().Float64Var(&lowerBound, "lower", -5, "Lower search bound (mayfly)")
	runCmd.Flags().Float64Var(&upperBound, "upper", 5, "Upper search bound (mayfly)")
	runCmd.Flags().IntVar(&popSize, "pop", 30, "Population size (mayfly)")
	runCmd.Flags().IntVar(&chunkIters, "chunk-iters", 20, "Inner iterations per chunk (mayfly)")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Random seed (mayfly)")

	rootCmd.AddCommand(runCmd)
}

func buildSolver(name string) (vecSolver, error) {
	switch name {
	case "gd":
		hz := linesearch.NewHagerZhangLineSearch[linalg.Vec, linalg.Vec, struct{}, struct{}, float64]()
		sd := gradientdescent.New[linalg.Vec, struct{}, struct{}, float64](hz)
		if err := sd.SetGradTol(gradTol); err != nil {
			return nil, err
		}
		return sd, nil
	case "mayfly":
		mf, err := swarm.New[struct{}, struct{}](dim, lowerBound, upperBound)
		if err != nil {
			return nil, err
		}
		mf.PopSize = popSize
		mf.ChunkIters = chunkIters
		mf.Seed = seed
		return mf, nil
	default:
		return nil, fmt.Errorf("unknown solver: %s", name)
	}
}

func buildExecutor(solver vecSolver, runID string) (*core.Executor[linalg.Vec, linalg.Vec, struct{}, struct{}, float64], *observer.Trace[linalg.Vec, linalg.Vec, struct{}, struct{}, float64], error) {
	obj, err := buildObjective(objectiveName)
	if err != nil {
		return nil, nil, err
	}
	problem := core.NewProblem[linalg.Vec, linalg.Vec, struct{}, struct{}, float64](obj)

	exec := core.NewExecutor(problem, solver).
		AddObserver(observer.NewSlog[linalg.Vec, linalg.Vec, struct{}, struct{}, float64](logger), core.ObserveAlways())

	var trace *observer.Trace[linalg.Vec, linalg.Vec, struct{}, struct{}, float64]
	if tracePath != "" {
		trace, err = observer.NewTrace[linalg.Vec, linalg.Vec, struct{}, struct{}, float64](tracePath, traceParam)
		if err != nil {
			return nil, nil, err
		}
		exec.AddObserver(trace, core.ObserveAlways())
	}

	if checkpointEvery > 0 {
		cp, err := checkpoint.NewFile[vecSolver, *vecState](dataDir, runID, core.CheckpointEvery(checkpointEvery))
		if err != nil {
			return nil, nil, err
		}
		exec.Checkpointing(cp)
	}

	if runTimeout > 0 {
		exec.Timeout(runTimeout)
	}
	return exec, trace, nil
}

func runOptimization(cmd *cobra.Command, args []string) error {
	runID := uuid.New().String()[:8]
	slog.Info("Starting optimization",
		"runID", runID, "objective", objectiveName, "solver", solverName, "dim", dim)

	solver, err := buildSolver(solverName)
	if err != nil {
		return err
	}
	exec, trace, err := buildExecutor(solver, runID)
	if err != nil {
		return err
	}
	if trace != nil {
		defer trace.Close()
	}

	exec.Configure(func(s *vecState) {
		s.SetParam(linalg.Fill(dim, startVal)).SetMaxIters(maxIters)
		if targetCost > 0 {
			s.SetTargetCost(targetCost)
		}
	})

	result, err := exec.Run()
	if err != nil {
		return fmt.Errorf("optimization failed: %w", err)
	}

	slog.Info("Optimization complete",
		"runID", runID,
		"termination", result.State.TerminationReason().String(),
		"best_cost", result.State.BestCost(),
		"iterations", result.State.Iter(),
	)
	fmt.Print(result)
	return nil
}
