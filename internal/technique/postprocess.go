package technique

import "tracelink/internal/index"

// discountFactor is the base of the call-depth discount (spec §4.4).
const discountFactor = 0.5

// ApplyDiscount rewrites surf in place: every cell (t, c) with c present in
// idx.CalledByDepth[t] is scaled by discountFactor^(depth-1). Cells outside
// that set are left untouched — they are zero already per §4.3.
func ApplyDiscount(surf *ScoreSurface, idx *index.Indexes) {
	for ti, tn := range idx.TestNames {
		depths := idx.CalledByDepth[tn.FullyQualifiedName]
		if len(depths) == 0 {
			continue
		}
		for cID, depth := range depths {
			ci, ok := idx.CodeHandle(cID)
			if !ok {
				continue
			}
			if depth < 1 {
				depth = 1
			}
			scale := 1.0
			for i := 1; i < depth; i++ {
				scale *= discountFactor
			}
			surf.Set(ti, ci, surf.At(ti, ci)*scale)
		}
	}
}

// ApplyMaxNormalize rewrites surf in place: for each test row, divide every
// cell by the row's maximum. A row whose maximum is 0 is left unchanged.
func ApplyMaxNormalize(surf *ScoreSurface) {
	for t := 0; t < surf.NumTests; t++ {
		row := surf.Row(t)
		max := 0.0
		for _, v := range row {
			if v > max {
				max = v
			}
		}
		if max == 0 {
			continue
		}
		for c, v := range row {
			row[c] = v / max
		}
	}
}

// PostProcess applies the post-processors a technique's Meta requests, in
// the fixed order of §4.4: discount, then normalize.
func PostProcess(surf *ScoreSurface, idx *index.Indexes, meta Meta) {
	if meta.Discount {
		ApplyDiscount(surf, idx)
	}
	if meta.Normalize {
		ApplyMaxNormalize(surf)
	}
}
