// Package predict turns a technique's ScoreSurface into PredictedLinks:
// per-test ranked lists of candidate code ids, selected by the
// technique's own threshold-vs-binary rule (spec §4.6).
package predict

import (
	"sort"

	"tracelink/internal/index"
	"tracelink/internal/technique"
)

// PredictedLinks maps a test id to its ranked list of predicted code ids,
// ordered by descending confidence. It is also the shape of ground-truth
// and predicted-links JSON at the I/O boundary.
type PredictedLinks map[string][]string

// Predict selects and ranks candidates for every test in idx (or, if
// onlyTests is non-nil, for exactly those ids). A test id in onlyTests
// that idx never observed gets an empty candidate list rather than being
// omitted, per spec §4.6.
func Predict(surf *technique.ScoreSurface, meta technique.Meta, idx *index.Indexes, onlyTests []string) PredictedLinks {
	tests := onlyTests
	if tests == nil {
		tests = make([]string, len(idx.TestNames))
		for i, tn := range idx.TestNames {
			tests[i] = tn.FullyQualifiedName
		}
	}

	out := make(PredictedLinks, len(tests))
	for _, testID := range tests {
		ti, ok := idx.TestHandle(testID)
		if !ok {
			out[testID] = []string{}
			continue
		}
		out[testID] = candidatesForTest(surf, meta, idx, ti)
	}
	return out
}

type candidate struct {
	id    string
	score float64
}

func candidatesForTest(surf *technique.ScoreSurface, meta technique.Meta, idx *index.Indexes, ti int) []string {
	var cands []candidate
	row := surf.Row(ti)
	for ci, score := range row {
		selected := false
		switch {
		case meta.Binary:
			selected = score == 1
		case meta.UsesThreshold:
			selected = score >= meta.Threshold
		}
		if selected {
			cands = append(cands, candidate{id: idx.FunctionNames[ci].FullyQualifiedName, score: score})
		}
	}

	sort.SliceStable(cands, func(i, j int) bool { return cands[i].score > cands[j].score })

	ids := make([]string, len(cands))
	for i, c := range cands {
		ids[i] = c.id
	}
	return ids
}
