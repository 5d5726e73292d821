package orchestrate

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"tracelink/internal/config"
	"tracelink/internal/predict"
	"tracelink/internal/runlog"
	"tracelink/internal/technique"
	"tracelink/internal/trace"
)

// ProduceLinksOptions configures one produce-links run.
type ProduceLinksOptions struct {
	TracePath        string
	Techniques       []string
	Level            trace.Granularity
	AddCombined      bool
	OutputDir        string // empty: print to Stdout instead of writing files
	Stdout           io.Writer
	Cfg              *config.Config
	Logger           *runlog.Logger
	ConfirmOverwrite func(path string) bool // nil: never overwrite
}

// ProduceLinks runs every requested technique over a trace and either
// displays the predicted links (OutputDir == "") or writes one JSON file
// per technique into OutputDir — the two destinations are mutually
// exclusive per run.
func ProduceLinks(opts ProduceLinksOptions) (map[string]predict.PredictedLinks, error) {
	r, err := buildRun(opts.TracePath, opts.Level, opts.Techniques, opts.Cfg, "produce-links", opts.Logger)
	if err != nil {
		return nil, err
	}

	results := r.results
	if opts.AddCombined {
		results = append(append([]technique.Result(nil), results...), r.combinedResult(opts.Cfg.Thresholds))
	}

	links := predictAll(r, results, nil)

	if opts.OutputDir == "" {
		for _, res := range results {
			displayPredictedLinks(opts.Stdout, links[res.Name], fmt.Sprintf("Predicted links (%s)", res.Name))
		}
		return links, nil
	}

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	for _, res := range results {
		path := filepath.Join(opts.OutputDir, res.Name+".json")
		if shouldSkipWrite(path, opts.ConfirmOverwrite) {
			continue
		}
		if err := writeLinksJSON(path, links[res.Name]); err != nil {
			return nil, fmt.Errorf("write predicted links for %s: %w", res.Name, err)
		}
	}
	return links, nil
}

func shouldSkipWrite(path string, confirmOverwrite func(string) bool) bool {
	if _, err := os.Stat(path); err != nil {
		return false
	}
	if confirmOverwrite == nil {
		return true
	}
	return !confirmOverwrite(path)
}
