package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"tracelink/internal/config"
	"tracelink/internal/confirm"
	"tracelink/internal/orchestrate"
	"tracelink/internal/runlog"
	"tracelink/internal/trace"
)

// defaultRunLogPath mirrors the teacher's ~/.<tool>/ convention.
func defaultRunLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tracelink/run.jsonl"
	}
	return filepath.Join(home, ".tracelink", "run.jsonl")
}

func openRunLogger() (*runlog.Logger, error) {
	path := defaultRunLogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create run log directory: %w", err)
	}
	return runlog.Open(path)
}

func parseLevel(level string) (trace.Granularity, error) {
	g, ok := trace.ParseGranularity(level)
	if !ok {
		return 0, fmt.Errorf("unknown level %q (want \"function\" or \"class\")", level)
	}
	return g, nil
}

func loadConfig(techniques []string) (*config.Config, error) {
	return config.Load(techniques, thresholdsFile)
}

// validateTechniques fails fast on an unknown --technique name, before any
// input file is opened (spec §7, UnknownSelector is fatal before any work
// begins).
func validateTechniques(names []string) error {
	for _, n := range names {
		known := false
		for _, t := range config.AllTechniques() {
			if t == n {
				known = true
				break
			}
		}
		if !known {
			return orchestrate.NewError(orchestrate.KindUnknownSelector, "technique", fmt.Errorf("unknown technique %q", n))
		}
	}
	return nil
}

// validateMetrics fails fast on an unknown --metric name, before any input
// file is opened.
func validateMetrics(names []string) error {
	for _, n := range names {
		if !orchestrate.IsKnownMetric(n) {
			return orchestrate.NewError(orchestrate.KindUnknownSelector, "metric", fmt.Errorf("unknown metric %q", n))
		}
	}
	return nil
}

// confirmOverwrite is nil in non-interactive runs, never overwriting
// existing output silently.
func confirmOverwrite() func(string) bool {
	if !confirm.IsInteractive() {
		return nil
	}
	return confirm.Overwrite
}
