// Package technique implements the nine traceability scoring techniques
// (spec §4.3), their shared post-processing (§4.4), and the mean-of-
// techniques combiner (§4.5). Every technique is a value satisfying the
// Technique interface and is otherwise independent of the others — the
// Engine drives them, optionally in parallel, over a read-only Indexes.
package technique

import "tracelink/internal/index"

// ScoreSurface is the dense [test x code] score matrix. Row-major by test,
// addressed through the handles index.Indexes hands out — the dense
// layout is spec §9's resolution of the dense-vs-sparse question, chosen
// because AUC and per-test normalization both need every cell anyway.
type ScoreSurface struct {
	NumTests int
	NumCode  int
	scores   []float64
}

// NewScoreSurface allocates a zero-filled surface. Zero is the correct
// default per spec §4.3: "when c not in CalledBy[t], the score is 0."
func NewScoreSurface(numTests, numCode int) *ScoreSurface {
	return &ScoreSurface{
		NumTests: numTests,
		NumCode:  numCode,
		scores:   make([]float64, numTests*numCode),
	}
}

func (s *ScoreSurface) At(t, c int) float64 {
	return s.scores[t*s.NumCode+c]
}

func (s *ScoreSurface) Set(t, c int, v float64) {
	s.scores[t*s.NumCode+c] = v
}

// Row returns test t's scores as a slice sharing the surface's backing
// array — callers must not retain it across a Set on the same surface.
func (s *ScoreSurface) Row(t int) []float64 {
	return s.scores[t*s.NumCode : (t+1)*s.NumCode]
}

// ByTest returns a copy of the surface as a map keyed by fully qualified
// test id, then code id, for callers that need string ids instead of
// handles.
func (s *ScoreSurface) ByTest(idx *index.Indexes) map[string]map[string]float64 {
	out := make(map[string]map[string]float64, s.NumTests)
	for ti, tn := range idx.TestNames {
		row := make(map[string]float64, s.NumCode)
		for ci, cn := range idx.FunctionNames {
			row[cn.FullyQualifiedName] = s.At(ti, ci)
		}
		out[tn.FullyQualifiedName] = row
	}
	return out
}
