// blayer is the training driver for the boundary-layer PINN solver.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "v0.1.0"

var rootCmd = &cobra.Command{
	Use:   "blayer",
	Short: "Physics-informed neural network solver for turbulent boundary layers",
	Long: `blayer trains a neural approximator against boundary data and interior
collocation points so that its automatic-differentiation derivatives satisfy
the steady incompressible RANS boundary-layer equations.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("blayer %s\n", version)
	},
}

func main() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(trainCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
