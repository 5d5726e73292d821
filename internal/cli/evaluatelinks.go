package cli

import (
	"os"

	"github.com/spf13/cobra"

	"tracelink/internal/orchestrate"
)

var (
	evaluateLinksTechniques               []string
	evaluateLinksMetrics                  []string
	evaluateLinksLevel                    string
	evaluateLinksAddCombined              bool
	evaluateLinksAsPercentage             bool
	evaluateLinksDisplayClassifications   bool
	evaluateLinksClassificationsOutputDir string
	evaluateLinksMetricsOutputPath        string
)

var evaluateLinksCmd = &cobra.Command{
	Use:   "evaluate-links <trace-csv-log-path> <ground-truth-path>",
	Short: "Produce and evaluate links against a ground truth",
	Long: `Produce test-to-code traceability links for a given trace log CSV
file and evaluate them against a ground truth. For each technique's links,
a classification of true positives, false positives and false negatives is
computed per test, and the requested evaluation metrics are reported.`,
	Args: cobra.ExactArgs(2),
	RunE: runEvaluateLinks,
}

func init() {
	evaluateLinksCmd.Flags().StringSliceVar(&evaluateLinksTechniques, "technique", nil, "Use a specific technique (repeatable); default: all")
	evaluateLinksCmd.Flags().StringSliceVar(&evaluateLinksMetrics, "metric", nil, "Use a specific evaluation metric (repeatable); default: all")
	evaluateLinksCmd.Flags().StringVar(&evaluateLinksLevel, "level", "function", "Traceability level: function or class")
	evaluateLinksCmd.Flags().BoolVar(&evaluateLinksAddCombined, "add-combined", false, "Also evaluate the averaged combination of the selected techniques")
	evaluateLinksCmd.Flags().BoolVar(&evaluateLinksAsPercentage, "as-percentage", false, "Report continuous metrics as percentages")
	evaluateLinksCmd.Flags().BoolVar(&evaluateLinksDisplayClassifications, "display-classifications", false, "Display classifications for every technique on standard output")
	evaluateLinksCmd.Flags().StringVar(&evaluateLinksClassificationsOutputDir, "classifications-output-directory", "", "Directory to write one classifications JSON file per technique")
	evaluateLinksCmd.Flags().StringVar(&evaluateLinksMetricsOutputPath, "metrics-output-path", "", "Path to write the evaluation metrics CSV")
	rootCmd.AddCommand(evaluateLinksCmd)
}

func runEvaluateLinks(cmd *cobra.Command, args []string) error {
	if err := validateTechniques(evaluateLinksTechniques); err != nil {
		return err
	}
	if err := validateMetrics(evaluateLinksMetrics); err != nil {
		return err
	}
	level, err := parseLevel(evaluateLinksLevel)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(evaluateLinksTechniques)
	if err != nil {
		return err
	}
	logger, err := openRunLogger()
	if err != nil {
		return err
	}
	defer logger.Close()

	_, err = orchestrate.EvaluateLinks(orchestrate.EvaluateLinksOptions{
		TracePath:                args[0],
		GroundTruthPath:          args[1],
		Techniques:               evaluateLinksTechniques,
		Metrics:                  evaluateLinksMetrics,
		Level:                    level,
		AddCombined:              evaluateLinksAddCombined,
		AsPercentage:             evaluateLinksAsPercentage,
		DisplayClassifications:   evaluateLinksDisplayClassifications,
		ClassificationsOutputDir: evaluateLinksClassificationsOutputDir,
		MetricsOutputPath:        evaluateLinksMetricsOutputPath,
		Stdout:                   os.Stdout,
		Cfg:                      cfg,
		Logger:                   logger,
		ConfirmOverwrite:         confirmOverwrite(),
	})
	return err
}
