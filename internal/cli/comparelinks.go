package cli

import (
	"os"

	"github.com/spf13/cobra"

	"tracelink/internal/orchestrate"
)

var (
	compareLinksMetrics                   []string
	compareLinksAsPercentage              bool
	compareLinksClassificationsOutputPath string
	compareLinksMetricsOutputPath         string
)

var compareLinksCmd = &cobra.Command{
	Use:   "compare-links <predicted-links-path> <ground-truth-path>",
	Short: "Compare a set of links against a ground truth",
	Long: `Compare a previously produced set of test-to-code traceability links
against a ground truth. Both files are JSON objects keyed by test artefact
name; every test in the ground truth must also appear in the predicted
links. Predicted tests absent from the ground truth are ignored.`,
	Args: cobra.ExactArgs(2),
	RunE: runCompareLinks,
}

func init() {
	compareLinksCmd.Flags().StringSliceVar(&compareLinksMetrics, "metric", nil, "Use a specific evaluation metric (repeatable); default: all")
	compareLinksCmd.Flags().BoolVar(&compareLinksAsPercentage, "as-percentage", false, "Report continuous metrics as percentages")
	compareLinksCmd.Flags().StringVar(&compareLinksClassificationsOutputPath, "classifications-output-path", "", "Path to write the classifications JSON")
	compareLinksCmd.Flags().StringVar(&compareLinksMetricsOutputPath, "metrics-output-path", "", "Path to write the evaluation metrics CSV")
	rootCmd.AddCommand(compareLinksCmd)
}

func runCompareLinks(cmd *cobra.Command, args []string) error {
	if err := validateMetrics(compareLinksMetrics); err != nil {
		return err
	}
	_, err := orchestrate.CompareLinks(orchestrate.CompareLinksOptions{
		PredictedPath:             args[0],
		GroundTruthPath:           args[1],
		Metrics:                   compareLinksMetrics,
		AsPercentage:              compareLinksAsPercentage,
		Stdout:                    os.Stdout,
		ClassificationsOutputPath: compareLinksClassificationsOutputPath,
		MetricsOutputPath:         compareLinksMetricsOutputPath,
		ConfirmOverwrite:          confirmOverwrite(),
	})
	return err
}
