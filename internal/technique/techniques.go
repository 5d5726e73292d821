package technique

import (
	"math"
	"strings"

	"tracelink/internal/index"
	"tracelink/internal/strsim"
)

// newFilledSurface allocates a ScoreSurface and invokes score once for
// every (t, c) pair with c in CalledBy[t], per the §4.3 contract that
// cells outside the call set stay at their zero default.
func newFilledSurface(idx *index.Indexes, score func(tn, cn index.NameRecord) float64) *ScoreSurface {
	surf := NewScoreSurface(idx.NumTests(), idx.NumCode())
	for ti, tn := range idx.TestNames {
		for cID := range idx.CalledBy[tn.FullyQualifiedName] {
			ci, ok := idx.CodeHandle(cID)
			if !ok {
				continue
			}
			surf.Set(ti, ci, score(tn, idx.FunctionNames[ci]))
		}
	}
	return surf
}

// nc — exact short-name match after stripping the test prefix.
type nc struct{}

func (nc) Name() string { return "nc" }
func (nc) Meta() Meta   { return Meta{Binary: true} }
func (nc) Run(idx *index.Indexes, _ *strsim.Memo) *ScoreSurface {
	return newFilledSurface(idx, func(tn, cn index.NameRecord) float64 {
		if cn.ShortName == strsim.StripTestPrefix(tn.ShortName) {
			return 1
		}
		return 0
	})
}

// ncc — short code name is a substring of the stripped test name.
type ncc struct{}

func (ncc) Name() string { return "ncc" }
func (ncc) Meta() Meta   { return Meta{Binary: true} }
func (ncc) Run(idx *index.Indexes, _ *strsim.Memo) *ScoreSurface {
	return newFilledSurface(idx, func(tn, cn index.NameRecord) float64 {
		stripped := strsim.StripTestPrefix(tn.ShortName)
		if strings.Contains(stripped, cn.ShortName) {
			return 1
		}
		return 0
	})
}

// lcsb — longest common subsequence, normalized by the longer of the two
// names (bidirectional normalization).
type lcsb struct{}

func (lcsb) Name() string { return "lcsb" }
func (lcsb) Meta() Meta {
	return Meta{UsesThreshold: true, Threshold: 0.65, Discount: true, Normalize: true}
}
func (lcsb) Run(idx *index.Indexes, memo *strsim.Memo) *ScoreSurface {
	return newFilledSurface(idx, func(tn, cn index.NameRecord) float64 {
		stripped := strsim.StripTestPrefix(tn.ShortName)
		denom := maxInt(runeLen(stripped), runeLen(cn.ShortName))
		if denom == 0 {
			return 0
		}
		return float64(memo.LCS(stripped, cn.ShortName)) / float64(denom)
	})
}

// lcsu — longest common subsequence, normalized by the code name alone
// (unidirectional normalization).
type lcsu struct{}

func (lcsu) Name() string { return "lcsu" }
func (lcsu) Meta() Meta {
	return Meta{UsesThreshold: true, Threshold: 0.75, Discount: true, Normalize: true}
}
func (lcsu) Run(idx *index.Indexes, memo *strsim.Memo) *ScoreSurface {
	return newFilledSurface(idx, func(tn, cn index.NameRecord) float64 {
		stripped := strsim.StripTestPrefix(tn.ShortName)
		denom := runeLen(cn.ShortName)
		if denom == 0 {
			return 0
		}
		return float64(memo.LCS(stripped, cn.ShortName)) / float64(denom)
	})
}

// leven — complement of normalized edit distance.
type leven struct{}

func (leven) Name() string { return "leven" }
func (leven) Meta() Meta {
	return Meta{UsesThreshold: true, Threshold: 0.95, Discount: true, Normalize: true}
}
func (leven) Run(idx *index.Indexes, memo *strsim.Memo) *ScoreSurface {
	return newFilledSurface(idx, func(tn, cn index.NameRecord) float64 {
		stripped := strsim.StripTestPrefix(tn.ShortName)
		denom := maxInt(runeLen(stripped), runeLen(cn.ShortName))
		if denom == 0 {
			return 0
		}
		return 1 - float64(memo.Levenshtein(stripped, cn.ShortName))/float64(denom)
	})
}

// lcba — code unit is the most recently returned SOURCE before an ASSERT
// within the test's window.
type lcba struct{}

func (lcba) Name() string { return "lcba" }
func (lcba) Meta() Meta   { return Meta{Binary: true} }
func (lcba) Run(idx *index.Indexes, _ *strsim.Memo) *ScoreSurface {
	return newFilledSurface(idx, func(tn, cn index.NameRecord) float64 {
		if _, ok := idx.CalledBeforeAssert[tn.FullyQualifiedName][cn.FullyQualifiedName]; ok {
			return 1
		}
		return 0
	})
}

// tarantula — weights code called by fewer tests more heavily, via the
// classic fault-localization suspiciousness ratio.
type tarantula struct{}

func (tarantula) Name() string { return "tarantula" }
func (tarantula) Meta() Meta {
	return Meta{UsesThreshold: true, Threshold: 0.95, Discount: true, Normalize: true}
}
func (tarantula) Run(idx *index.Indexes, _ *strsim.Memo) *ScoreSurface {
	numTests := idx.NumTests()
	return newFilledSurface(idx, func(tn, cn index.NameRecord) float64 {
		if numTests <= 1 {
			return 0
		}
		ratio := float64(len(idx.CallsTest[cn.FullyQualifiedName])-1) / float64(numTests-1)
		return 1 / (ratio + 1)
	})
}

// tfidf — term frequency over a test's call fan-out, inverse document
// frequency over how many tests reach a given code unit.
type tfidf struct{}

func (tfidf) Name() string { return "tfidf" }
func (tfidf) Meta() Meta {
	return Meta{UsesThreshold: true, Threshold: 0.90, Discount: true, Normalize: true}
}
func (tfidf) Run(idx *index.Indexes, _ *strsim.Memo) *ScoreSurface {
	numTests := idx.NumTests()
	return newFilledSurface(idx, func(tn, cn index.NameRecord) float64 {
		calledByT := len(idx.CalledBy[tn.FullyQualifiedName])
		callsTestC := len(idx.CallsTest[cn.FullyQualifiedName])
		if calledByT == 0 || callsTestC == 0 {
			return 0
		}
		tf := math.Log(1 + 1/float64(calledByT))
		idfv := math.Log(1 + float64(numTests)/float64(callsTestC))
		return tf * idfv
	})
}

// tfidfMultiset — as tfidf, but term frequency weights by call count
// rather than presence/absence.
type tfidfMultiset struct{}

func (tfidfMultiset) Name() string { return "tfidf_multiset" }
func (tfidfMultiset) Meta() Meta {
	return Meta{UsesThreshold: true, Threshold: 0.90, Discount: true, Normalize: true}
}
func (tfidfMultiset) Run(idx *index.Indexes, _ *strsim.Memo) *ScoreSurface {
	numTests := idx.NumTests()
	surf := NewScoreSurface(idx.NumTests(), idx.NumCode())
	for ti, tn := range idx.TestNames {
		total := 0
		for _, n := range idx.CalledByCount[tn.FullyQualifiedName] {
			total += n
		}
		if total == 0 {
			continue
		}
		for cID := range idx.CalledBy[tn.FullyQualifiedName] {
			ci, ok := idx.CodeHandle(cID)
			if !ok {
				continue
			}
			callsTestC := len(idx.CallsTest[cID])
			if callsTestC == 0 {
				continue
			}
			count := idx.CalledByCount[tn.FullyQualifiedName][cID]
			tf := math.Log(1 + float64(count)/float64(total))
			idfv := math.Log(1 + float64(numTests)/float64(callsTestC))
			surf.Set(ti, ci, tf*idfv)
		}
	}
	return surf
}

func runeLen(s string) int { return len([]rune(s)) }

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
