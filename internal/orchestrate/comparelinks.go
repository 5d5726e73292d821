package orchestrate

import (
	"fmt"
	"io"

	"tracelink/internal/evaluate"
)

// CompareLinksOptions configures one compare-links run.
type CompareLinksOptions struct {
	PredictedPath             string
	GroundTruthPath           string
	Metrics                   []string
	AsPercentage              bool
	Stdout                    io.Writer
	ClassificationsOutputPath string
	MetricsOutputPath         string
	ConfirmOverwrite          func(path string) bool
}

// CompareLinks classifies and scores a previously produced predictions
// file against a ground truth, without re-running any technique.
func CompareLinks(opts CompareLinksOptions) (MetricRow, error) {
	metricNames := opts.Metrics
	if len(metricNames) == 0 {
		metricNames = AllMetrics()
	}
	for _, m := range metricNames {
		if !IsKnownMetric(m) {
			return MetricRow{}, wrap(KindUnknownSelector, "metric", fmt.Errorf("unknown metric %q", m))
		}
	}

	predicted, err := readLinksJSON(opts.PredictedPath)
	if err != nil {
		return MetricRow{}, err
	}
	g, err := readLinksJSON(opts.GroundTruthPath)
	if err != nil {
		return MetricRow{}, err
	}

	for testID := range g {
		if _, ok := predicted[testID]; !ok {
			return MetricRow{}, wrap(KindSchemaMismatch, "compare-links",
				fmt.Errorf("ground truth test %q is missing from predictions", testID))
		}
	}

	classes := evaluate.Classify(predicted, g)
	if opts.ClassificationsOutputPath != "" {
		if !shouldSkipWrite(opts.ClassificationsOutputPath, opts.ConfirmOverwrite) {
			if err := writeClassificationsJSON(opts.ClassificationsOutputPath, classes); err != nil {
				return MetricRow{}, fmt.Errorf("write classifications: %w", err)
			}
		}
	}

	tp, fp, fn := classes.Counts()
	precision := evaluate.Precision(tp, fp)
	recall := evaluate.Recall(tp, fn)
	f1 := evaluate.F1(precision, recall)
	mapScore := evaluate.MAP(predicted, g)

	scale := func(v float64) float64 {
		if opts.AsPercentage {
			return evaluate.AsPercentage(v)
		}
		return v
	}

	values := make(map[string]string, len(metricNames))
	for _, m := range metricNames {
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
			// compare-links has no ScoreSurface, only rank-ordered lists.
			values[m] = notApplicable
		case "tp":
			values[m] = formatCount(tp)
		case "fp":
			values[m] = formatCount(fp)
		case "fn":
			values[m] = formatCount(fn)
		}
	}

	row := MetricRow{Technique: "compared", Values: values}

	if opts.MetricsOutputPath != "" {
		if !shouldSkipWrite(opts.MetricsOutputPath, opts.ConfirmOverwrite) {
			if err := writeMetricsCSV(opts.MetricsOutputPath, metricNames, []MetricRow{row}); err != nil {
				return MetricRow{}, fmt.Errorf("write evaluation metrics CSV: %w", err)
			}
		}
	} else {
		displayEvaluationResults(opts.Stdout, metricNames, []MetricRow{row}, "Evaluation Metrics")
	}

	return row, nil
}
