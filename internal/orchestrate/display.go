package orchestrate

import (
	"fmt"
	"io"
	"sort"

	"tracelink/internal/evaluate"
	"tracelink/internal/predict"
)

func banner(w io.Writer, title string) {
	fmt.Fprintf(w, "%s %s %s\n\n", repeat("=", 15), title, repeat("=", 15))
}

func repeat(s string, n int) string {
	out := make([]byte, 0, n*len(s))
	for i := 0; i < n; i++ {
		out = append(out, s...)
	}
	return string(out)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// displayPredictedLinks prints one technique's PredictedLinks, one section
// per test, in the original Python tool's numbered-list display style.
func displayPredictedLinks(w io.Writer, links predict.PredictedLinks, title string) {
	banner(w, title)
	for _, test := range sortedKeys(links) {
		fmt.Fprintf(w, "%s %s %s\n", repeat("=", 5), test, repeat("=", 5))
		for i, fn := range links[test] {
			fmt.Fprintf(w, "%-3d: %s\n", i+1, fn)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, repeat("=", 50))
	fmt.Fprintln(w)
}

// displayClassifications prints per-test TP/FP/FN lists.
func displayClassifications(w io.Writer, classes evaluate.Classifications, title string) {
	banner(w, title)
	for _, test := range sortedKeys(classes) {
		c := classes[test]
		fmt.Fprintf(w, "%s %s %s\n", repeat("=", 5), test, repeat("=", 5))
		printClassificationList(w, "True Positives", c.TruePositives)
		printClassificationList(w, "False Positives", c.FalsePositives)
		printClassificationList(w, "False Negatives", c.FalseNegatives)
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, repeat("=", 50))
}

func printClassificationList(w io.Writer, label string, ids []string) {
	fmt.Fprintf(w, "%s:\n", label)
	for i, id := range ids {
		fmt.Fprintf(w, "%-3d: %s\n", i+1, id)
	}
	fmt.Fprintln(w)
}

// displayEvaluationResults prints metric scores per technique, in the
// caller's requested metric order (spec §6).
func displayEvaluationResults(w io.Writer, metricNames []string, rows []MetricRow, title string) {
	banner(w, title)
	for _, row := range rows {
		fmt.Fprintf(w, "%s %s %s\n", repeat("=", 5), row.Technique, repeat("=", 5))
		for _, m := range metricNames {
			fmt.Fprintf(w, "%s: %s\n", m, row.Values[m])
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, repeat("=", 50))
	fmt.Fprintln(w)
}
