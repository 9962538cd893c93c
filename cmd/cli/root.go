package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lpdss",
	Short: "lpdss - a teaching linear/mixed-integer programming engine",
	Long: `lpdss parses small linear and mixed-integer programs from a plain-text
model format and solves them with two-phase primal simplex, dual simplex,
branch-and-bound, Gomory cuts, and a 0-1 knapsack specialization, exposing
duality and sensitivity analysis as follow-up operations.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags can be added here
	// rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file")
}
