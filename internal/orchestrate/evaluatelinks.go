package orchestrate

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"tracelink/internal/config"
	"tracelink/internal/evaluate"
	"tracelink/internal/runlog"
	"tracelink/internal/technique"
	"tracelink/internal/trace"
)

// AllMetrics is the CLI's default metric selection when none is given
// (spec §6).
func AllMetrics() []string {
	return []string{"precision", "recall", "f1", "map", "auc", "tp", "fp", "fn"}
}

// EvaluateLinksOptions configures one evaluate-links run.
type EvaluateLinksOptions struct {
	TracePath                string
	GroundTruthPath          string
	Techniques               []string
	Metrics                  []string
	Level                    trace.Granularity
	AddCombined              bool
	AsPercentage             bool
	DisplayClassifications   bool
	ClassificationsOutputDir string
	MetricsOutputPath        string
	Stdout                   io.Writer
	Cfg                      *config.Config
	Logger                   *runlog.Logger
	ConfirmOverwrite         func(path string) bool
}

// EvaluateLinks produces links restricted to the ground truth's tests
// (the (SUPPLEMENTED) onlyTests restriction), classifies and scores them
// against the ground truth, and writes/displays the results.
func EvaluateLinks(opts EvaluateLinksOptions) ([]MetricRow, error) {
	metricNames := opts.Metrics
	if len(metricNames) == 0 {
		metricNames = AllMetrics()
	}
	for _, m := range metricNames {
		if !IsKnownMetric(m) {
			return nil, wrap(KindUnknownSelector, "metric", fmt.Errorf("unknown metric %q", m))
		}
	}
	if _, _, err := validateTechniqueNames(opts.Techniques); err != nil {
		return nil, err
	}

	g, err := readLinksJSON(opts.GroundTruthPath)
	if err != nil {
		return nil, err
	}

	r, err := buildRun(opts.TracePath, opts.Level, opts.Techniques, opts.Cfg, "evaluate-links", opts.Logger)
	if err != nil {
		return nil, err
	}

	results := r.results
	if opts.AddCombined {
		results = append(append([]technique.Result(nil), results...), r.combinedResult(opts.Cfg.Thresholds))
	}

	onlyTests := make([]string, 0, len(g))
	for t := range g {
		onlyTests = append(onlyTests, t)
	}
	links := predictAll(r, results, onlyTests)

	rows := make([]MetricRow, 0, len(results))
	for _, res := range results {
		predicted := links[res.Name]
		classes := evaluate.Classify(predicted, g)
		if opts.ClassificationsOutputDir != "" {
			path := filepath.Join(opts.ClassificationsOutputDir, res.Name+".json")
			if !shouldSkipWrite(path, opts.ConfirmOverwrite) {
				if err := os.MkdirAll(opts.ClassificationsOutputDir, 0o755); err != nil {
					return nil, fmt.Errorf("create classifications directory: %w", err)
				}
				if err := writeClassificationsJSON(path, classes); err != nil {
					return nil, fmt.Errorf("write classifications for %s: %w", res.Name, err)
				}
			}
		}
		if opts.DisplayClassifications {
			displayClassifications(opts.Stdout, classes, fmt.Sprintf("Classifications (%s)", res.Name))
		}
		rows = append(rows, MetricRow{Technique: res.Name, Values: computeMetrics(metricNames, predicted, classes, res, r, g, opts.AsPercentage)})
	}

	if opts.MetricsOutputPath != "" {
		if !shouldSkipWrite(opts.MetricsOutputPath, opts.ConfirmOverwrite) {
			if err := writeMetricsCSV(opts.MetricsOutputPath, metricNames, rows); err != nil {
				return nil, fmt.Errorf("write evaluation metrics CSV: %w", err)
			}
		}
	} else {
		displayEvaluationResults(opts.Stdout, metricNames, rows, "Evaluation Metrics")
	}

	return rows, nil
}

// IsKnownMetric reports whether name is one of AllMetrics, so callers
// (including the CLI layer) can validate --metric flags before any file
// is read.
func IsKnownMetric(name string) bool {
	for _, m := range AllMetrics() {
		if m == name {
			return true
		}
	}
	return false
}

func computeMetrics(names []string, predicted map[string][]string, classes evaluate.Classifications, res technique.Result, r *run, g evaluate.GroundTruth, asPercentage bool) map[string]string {
	tp, fp, fn := classes.Counts()
	precision := evaluate.Precision(tp, fp)
	recall := evaluate.Recall(tp, fn)
	f1 := evaluate.F1(precision, recall)
	mapScore := evaluate.MAP(predicted, g)

	scale := func(v float64) float64 {
		if asPercentage {
			return evaluate.AsPercentage(v)
		}
		return v
	}

	values := make(map[string]string, len(names))
	for _, m := range names {
		switch m {
		case "precision":
			values[m] = formatContinuous(scale(precision))
		case "recall":
			values[m] = formatContinuous(scale(recall))
		case "f1":
			values[m] = formatContinuous(scale(f1))
		case "map":
			values[m] = formatContinuous(scale(mapScore))
		case "auc":
			auc, applicable := evaluate.AUC(res.Meta, res.Surface, r.idx, g)
			if !applicable {
				values[m] = notApplicable
			} else {
				values[m] = formatContinuous(scale(auc))
			}
		case "tp":
			values[m] = formatCount(tp)
		case "fp":
			values[m] = formatCount(fp)
		case "fn":
			values[m] = formatCount(fn)
		}
	}
	return values
}
