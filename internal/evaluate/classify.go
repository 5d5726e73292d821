// Package evaluate scores PredictedLinks against a GroundTruth: per-test
// classifications, the four rate metrics, MAP, and AUC (spec §4.7).
package evaluate

import (
	"sort"

	"tracelink/internal/predict"
)

// GroundTruth has the same shape as PredictedLinks: test id to the list of
// code ids it is truly linked to.
type GroundTruth = predict.PredictedLinks

// Classification is one test's True/False Positive/Negative sets.
type Classification struct {
	TruePositives  []string
	FalsePositives []string
	FalseNegatives []string
}

// Classifications maps test id to its Classification. Only tests present
// in the ground truth are classified — a prediction for a test absent from
// G contributes nothing (spec §4.7's classification scope note).
type Classifications map[string]Classification

// Classify computes TP/FP/FN sets for every test in g, using p's
// predictions for that test (an empty list if p has none).
func Classify(p predict.PredictedLinks, g GroundTruth) Classifications {
	out := make(Classifications, len(g))
	for testID, truth := range g {
		truthSet := toSet(truth)
		predSet := toSet(p[testID])

		c := Classification{}
		for _, id := range p[testID] {
			if _, ok := truthSet[id]; ok {
				c.TruePositives = append(c.TruePositives, id)
			} else {
				c.FalsePositives = append(c.FalsePositives, id)
			}
		}
		for _, id := range truth {
			if _, ok := predSet[id]; !ok {
				c.FalseNegatives = append(c.FalseNegatives, id)
			}
		}
		sort.Strings(c.TruePositives)
		sort.Strings(c.FalsePositives)
		sort.Strings(c.FalseNegatives)
		out[testID] = c
	}
	return out
}

func toSet(ids []string) map[string]struct{} {
	s := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Counts sums TP/FP/FN across every classified test.
func (cs Classifications) Counts() (tp, fp, fn int) {
	for _, c := range cs {
		tp += len(c.TruePositives)
		fp += len(c.FalsePositives)
		fn += len(c.FalseNegatives)
	}
	return tp, fp, fn
}
