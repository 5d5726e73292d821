package orchestrate

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"tracelink/internal/evaluate"
	"tracelink/internal/predict"
)

func openTrace(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, wrap(KindInputNotFound, "open trace", err)
		}
		return nil, wrap(KindInputUnreadable, "open trace", err)
	}
	return f, nil
}

func readLinksJSON(path string) (predict.PredictedLinks, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, wrap(KindInputNotFound, "read links", err)
		}
		return nil, wrap(KindInputUnreadable, "read links", err)
	}
	var links predict.PredictedLinks
	if err := json.Unmarshal(data, &links); err != nil {
		return nil, wrap(KindInputMalformed, "parse links JSON", err)
	}
	return links, nil
}

// writeLinksJSON writes links as a sorted, 4-space-indented JSON object —
// Go's encoding/json sorts map[string]... keys automatically.
func writeLinksJSON(path string, links predict.PredictedLinks) error {
	for k, v := range links {
		if v == nil {
			links[k] = []string{}
		}
	}
	return writeJSONIndented(path, links)
}

type classificationJSON struct {
	TruePositives  []string `json:"True Positives"`
	FalsePositives []string `json:"False Positives"`
	FalseNegatives []string `json:"False Negatives"`
}

func writeClassificationsJSON(path string, classes evaluate.Classifications) error {
	out := make(map[string]classificationJSON, len(classes))
	for testID, c := range classes {
		out[testID] = classificationJSON{
			TruePositives:  nonNil(c.TruePositives),
			FalsePositives: nonNil(c.FalsePositives),
			FalseNegatives: nonNil(c.FalseNegatives),
		}
	}
	return writeJSONIndented(path, out)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func writeJSONIndented(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// MetricRow is one output row of the evaluation-metrics CSV: a technique
// name plus its pre-formatted value for each requested metric.
type MetricRow struct {
	Technique string
	Values    map[string]string
}

// writeMetricsCSV writes the Technique column followed by one column per
// metric, in the caller's requested order (spec §6).
func writeMetricsCSV(path string, metricNames []string, rows []MetricRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create metrics CSV: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := append([]string{"Technique"}, metricNames...)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		record := make([]string, 0, len(header))
		record = append(record, row.Technique)
		for _, m := range metricNames {
			record = append(record, row.Values[m])
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// formatContinuous rounds a continuous metric to one decimal place, per
// spec §6's evaluation-metrics CSV column format.
func formatContinuous(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func formatCount(v int) string {
	return strconv.Itoa(v)
}

const notApplicable = "n/a"
