package cli

import (
	"github.com/spf13/cobra"
)

var thresholdsFile string

var rootCmd = &cobra.Command{
	Use:   "tracelink",
	Short: "tracelink - test-to-code traceability link recovery",
	Long: `tracelink produces, evaluates and compares test-to-code traceability
links recovered from a dynamic execution trace, using a set of independent
scoring techniques (naming, string similarity, and frequency-based).`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&thresholdsFile, "thresholds-file", "", "Path to a YAML file overriding per-technique thresholds")
}

func Execute() error {
	return rootCmd.Execute()
}
