// semsim is an educational, deterministic simulator for the bounded-buffer
// producer-consumer problem solved with counting semaphores. Every step is
// recorded so execution can be scrubbed forward and backward.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
)

// Global flags shared by the subcommands.
var (
	scenarioName string
	scenarioPath string
	orderName    string
	verbose      bool
)

func main() {
	root := &cobra.Command{
		Use:     "semsim",
		Short:   "Bounded-buffer semaphore simulator",
		Long:    "A deterministic, reversible simulator for the classic producer-consumer problem with empty/full/mutex semaphores.",
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				GetLogger().SetLevel(LogLevelDebug)
			}
		},
	}

	root.PersistentFlags().StringVar(&scenarioName, "scenario", "", "predefined scenario name (see 'semsim scenarios')")
	root.PersistentFlags().StringVar(&scenarioPath, "scenario-file", "", "YAML scenario file (overrides --scenario)")
	root.PersistentFlags().StringVar(&orderName, "order", "declaration", "scheduling scan order: declaration | consumers-first | interleaved")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newRunCommand())
	root.AddCommand(newServeCommand())
	root.AddCommand(newExportCommand())
	root.AddCommand(newScenariosCommand())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
