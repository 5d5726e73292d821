package technique

// CombinedThreshold is the default threshold the combined technique is
// evaluated against (spec §4.5). The combined technique is produced by
// averaging rather than run, so it is not a registered Technique; its Meta
// comes from CombinedMeta.
const CombinedThreshold = 0.85

// CombinedMeta describes the pseudo-technique produced by Combine: always
// thresholded, never binary, and already normalized by Combine itself.
func CombinedMeta() Meta {
	return Meta{UsesThreshold: true, Threshold: CombinedThreshold}
}

// Combine merges one or more ScoreSurfaces, all for the same (numTests,
// numCode) shape, into their per-cell mean, then applies per-test
// max-normalization. It panics if given no inputs or mismatched shapes —
// both are caller programming errors, never a function of trace content.
func Combine(surfaces ...*ScoreSurface) *ScoreSurface {
	if len(surfaces) == 0 {
		panic("technique: Combine requires at least one surface")
	}
	numTests, numCode := surfaces[0].NumTests, surfaces[0].NumCode
	out := NewScoreSurface(numTests, numCode)
	n := float64(len(surfaces))

	for _, s := range surfaces {
		if s.NumTests != numTests || s.NumCode != numCode {
			panic("technique: Combine given mismatched surface shapes")
		}
	}

	for t := 0; t < numTests; t++ {
		for c := 0; c < numCode; c++ {
			sum := 0.0
			for _, s := range surfaces {
				sum += s.At(t, c)
			}
			out.Set(t, c, sum/n)
		}
	}

	ApplyMaxNormalize(out)
	return out
}
