package cli

import (
	"os"

	"github.com/spf13/cobra"

	"tracelink/internal/orchestrate"
)

var (
	produceLinksTechniques  []string
	produceLinksLevel       string
	produceLinksAddCombined bool
	produceLinksOutputDir   string
)

var produceLinksCmd = &cobra.Command{
	Use:   "produce-links <trace-csv-log-path>",
	Short: "Produce test-to-code traceability links for a given trace",
	Long: `Produce test-to-code traceability links for a given trace log CSV
file using the specified traceability techniques. If no techniques are
given, every selectable technique runs. The resulting predictions are a
list of code artefact names for each test artefact in the trace.`,
	Args: cobra.ExactArgs(1),
	RunE: runProduceLinks,
}

func init() {
	produceLinksCmd.Flags().StringSliceVar(&produceLinksTechniques, "technique", nil, "Use a specific technique (repeatable); default: all")
	produceLinksCmd.Flags().StringVar(&produceLinksLevel, "level", "function", "Traceability level: function or class")
	produceLinksCmd.Flags().BoolVar(&produceLinksAddCombined, "add-combined", false, "Also produce links from the averaged combination of the selected techniques")
	produceLinksCmd.Flags().StringVar(&produceLinksOutputDir, "output-directory", "", "Directory to write one JSON file per technique; if omitted, links print to standard output")
	rootCmd.AddCommand(produceLinksCmd)
}

func runProduceLinks(cmd *cobra.Command, args []string) error {
	if err := validateTechniques(produceLinksTechniques); err != nil {
		return err
	}
	level, err := parseLevel(produceLinksLevel)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(produceLinksTechniques)
	if err != nil {
		return err
	}
	logger, err := openRunLogger()
	if err != nil {
		return err
	}
	defer logger.Close()

	_, err = orchestrate.ProduceLinks(orchestrate.ProduceLinksOptions{
		TracePath:        args[0],
		Techniques:       produceLinksTechniques,
		Level:            level,
		AddCombined:      produceLinksAddCombined,
		OutputDir:        produceLinksOutputDir,
		Stdout:           os.Stdout,
		Cfg:              cfg,
		Logger:           logger,
		ConfirmOverwrite: confirmOverwrite(),
	})
	return err
}
