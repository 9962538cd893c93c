package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lpdss/internal/config"
	"lpdss/internal/solver/solve"
)

var solveCmd = &cobra.Command{
	Use:   "solve <file>",
	Short: "Solve a model file offline",
	Long:  `Read a model text file and solve it through the same dispatch facade the HTTP API uses, without starting the server.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runSolve(args[0])
	},
}

var solveAlgorithmFlag string

func init() {
	solveCmd.Flags().StringVar(&solveAlgorithmFlag, "algorithm", "", "algorithm to force (PrimalSimplex, RevisedSimplex, DualSimplex, BranchAndBound, Knapsack01, CuttingPlane); default auto-selects")
	rootCmd.AddCommand(solveCmd)
}

func runSolve(path string) {
	text, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read %s: %v\n", path, err)
		os.Exit(1)
	}

	cfg := config.Load()
	settings := solve.DefaultSettings()
	settings.MaxIterations = cfg.Solver.MaxIterations
	settings.MaxNodes = cfg.Solver.MaxNodes
	settings.MaxCuts = cfg.Solver.MaxCuts
	settings.TimeLimitSeconds = cfg.Solver.DefaultTimeLimitSeconds

	algo, err := parseAlgorithmFlag(solveAlgorithmFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	result := solve.Solve(context.Background(), solve.Request{
		Algorithm: algo,
		ModelText: string(text),
		Settings:  settings,
	})

	if result.ParseError != "" {
		fmt.Fprintf(os.Stderr, "parse error: %s\n", result.ParseError)
		os.Exit(1)
	}

	fmt.Printf("algorithm: %s\n", result.AlgorithmUsed)
	switch {
	case result.Cancelled:
		fmt.Println("cancelled before completion")
	case result.Unbounded:
		fmt.Println("unbounded")
	case result.Infeasible:
		fmt.Println("infeasible")
	case result.Success:
		if result.Objective != nil {
			fmt.Printf("objective: %.6f\n", *result.Objective)
		}
		fmt.Println(result.SolutionSummary)
	}
	if result.OutputText != "" {
		fmt.Println("---")
		fmt.Println(result.OutputText)
	}
}

func parseAlgorithmFlag(name string) (solve.Algorithm, error) {
	switch name {
	case "":
		return solve.AlgorithmAuto, nil
	case "PrimalSimplex":
		return solve.PrimalSimplex, nil
	case "RevisedSimplex":
		return solve.RevisedSimplex, nil
	case "DualSimplex":
		return solve.DualSimplex, nil
	case "BranchAndBound":
		return solve.BranchAndBound, nil
	case "Knapsack01":
		return solve.Knapsack01, nil
	case "CuttingPlane":
		return solve.CuttingPlane, nil
	default:
		return solve.AlgorithmAuto, fmt.Errorf("unknown --algorithm %q", name)
	}
}
