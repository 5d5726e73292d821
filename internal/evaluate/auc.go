package evaluate

import (
	"sort"

	"gonum.org/v1/gonum/integrate"

	"tracelink/internal/index"
	"tracelink/internal/technique"
)

type scoredPair struct {
	label int
	score float64
}

// AUC computes the area under the precision-recall curve for a technique's
// ScoreSurface against ground truth g, per spec §4.7. Binary techniques
// carry no continuous score to rank on, so AUC is reported as not
// applicable (applicable == false) rather than computed.
//
// Pairs with equal scores keep trace-encounter order (tests, then code
// units, in the order the trace first showed them), so ties are broken
// deterministically, though not necessarily as any particular reference
// precision-recall routine would break them.
func AUC(meta technique.Meta, surf *technique.ScoreSurface, idx *index.Indexes, g GroundTruth) (value float64, applicable bool) {
	if meta.Binary {
		return 0, false
	}

	var pairs []scoredPair
	totalPositives := 0
	for ti, tn := range idx.TestNames {
		truth, ok := g[tn.FullyQualifiedName]
		if !ok {
			continue
		}
		truthSet := toSet(truth)
		for ci, cn := range idx.FunctionNames {
			label := 0
			if _, ok := truthSet[cn.FullyQualifiedName]; ok {
				label = 1
				totalPositives++
			}
			pairs = append(pairs, scoredPair{label: label, score: surf.At(ti, ci)})
		}
	}

	if totalPositives == 0 {
		return 0, true
	}

	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].score > pairs[j].score })

	recalls := make([]float64, 0, len(pairs)+1)
	precisions := make([]float64, 0, len(pairs)+1)
	recalls = append(recalls, 0)
	precisions = append(precisions, 1)

	tp, fp := 0, 0
	for _, p := range pairs {
		if p.label == 1 {
			tp++
		} else {
			fp++
		}
		precisions = append(precisions, float64(tp)/float64(tp+fp))
		recalls = append(recalls, float64(tp)/float64(totalPositives))
	}

	return integrate.Trapezoidal(recalls, precisions), true
}
