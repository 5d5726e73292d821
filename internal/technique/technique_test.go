package technique

import (
	"math"
	"testing"

	"tracelink/internal/index"
	"tracelink/internal/strsim"
	"tracelink/internal/trace"
)

func rec(depth int, ft trace.FunctionType, tm trace.TestingMethod, et trace.EventType, fn, fq string) trace.Record {
	return trace.Record{
		Depth:                      depth,
		FunctionType:               ft,
		TestingMethod:              tm,
		EventType:                  et,
		FunctionName:               fn,
		FullyQualifiedFunctionName: fq,
	}
}

// S1 — exact naming.
func TestNC_S1_ExactNaming(t *testing.T) {
	records := []trace.Record{
		rec(5, "", trace.TestMethodCall, "", "test_bar", "pkg.tests.test_foo.test_bar"),
		rec(6, trace.FunctionSource, "", trace.EventCall, "bar", "pkg.src.foo.bar"),
		rec(6, trace.FunctionSource, "", trace.EventReturn, "bar", "pkg.src.foo.bar"),
		rec(5, "", trace.TestMethodReturn, "", "", ""),
	}
	idx := index.Build(records, trace.Function, nil)
	memo := strsim.NewMemo()

	surf := nc{}.Run(idx, memo)
	ti, _ := idx.TestHandle("pkg.tests.test_foo.test_bar")
	ci, _ := idx.CodeHandle("pkg.src.foo.bar")
	if got := surf.At(ti, ci); got != 1 {
		t.Errorf("nc score = %v, want 1", got)
	}

	// ncc also matches ("bar" is a substring of "bar"); lcba has no ASSERT.
	for _, other := range []struct {
		tech Technique
		want float64
	}{{ncc{}, 1}, {lcba{}, 0}} {
		s := other.tech.Run(idx, memo)
		if got := s.At(ti, ci); got != other.want {
			t.Errorf("%s score = %v, want %v", other.tech.Name(), got, other.want)
		}
	}
}

// S2 — depth discount.
func TestLCSB_S2_DepthDiscount(t *testing.T) {
	records := []trace.Record{
		rec(5, "", trace.TestMethodCall, "", "test_bar", "pkg.tests.test_foo.test_bar"),
		rec(7, trace.FunctionSource, "", trace.EventCall, "bar", "pkg.src.foo.bar"),
		rec(7, trace.FunctionSource, "", trace.EventReturn, "bar", "pkg.src.foo.bar"),
		rec(5, "", trace.TestMethodReturn, "", "", ""),
	}
	idx := index.Build(records, trace.Function, nil)
	memo := strsim.NewMemo()

	tq := lcsb{}
	surf := tq.Run(idx, memo)
	ti, _ := idx.TestHandle("pkg.tests.test_foo.test_bar")
	ci, _ := idx.CodeHandle("pkg.src.foo.bar")

	if got := surf.At(ti, ci); got != 1.0 {
		t.Fatalf("raw lcsb score = %v, want 1.0", got)
	}

	ApplyDiscount(surf, idx)
	if got := surf.At(ti, ci); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("discounted score = %v, want 0.5", got)
	}

	ApplyMaxNormalize(surf)
	if got := surf.At(ti, ci); got != 1.0 {
		t.Errorf("normalized score = %v, want 1.0 (sole positive in row)", got)
	}
}

// S3 — tarantula degeneracy with a single test.
func TestTarantula_S3_SingleTestDegeneracy(t *testing.T) {
	records := []trace.Record{
		rec(5, "", trace.TestMethodCall, "", "test_t", "t"),
		rec(6, trace.FunctionSource, "", trace.EventCall, "c", "c"),
		rec(6, trace.FunctionSource, "", trace.EventReturn, "c", "c"),
		rec(5, "", trace.TestMethodReturn, "", "", ""),
	}
	idx := index.Build(records, trace.Function, nil)

	surf := tarantula{}.Run(idx, strsim.NewMemo())
	ti, _ := idx.TestHandle("t")
	ci, _ := idx.CodeHandle("c")
	if got := surf.At(ti, ci); got != 0 {
		t.Errorf("tarantula raw score = %v, want 0 (degenerate denominator)", got)
	}
}

// S4 — lcba predicts only the code returned immediately before the assert.
func TestLCBA_S4_AssertAttribution(t *testing.T) {
	records := []trace.Record{
		rec(5, "", trace.TestMethodCall, "", "test_t", "t"),
		rec(6, trace.FunctionSource, "", trace.EventCall, "a", "a"),
		rec(6, trace.FunctionSource, "", trace.EventReturn, "a", "a"),
		rec(6, trace.FunctionSource, "", trace.EventCall, "b", "b"),
		rec(6, trace.FunctionSource, "", trace.EventReturn, "b", "b"),
		rec(6, trace.FunctionAssert, "", trace.EventLine, "", ""),
		rec(5, "", trace.TestMethodReturn, "", "", ""),
	}
	idx := index.Build(records, trace.Function, nil)
	surf := lcba{}.Run(idx, strsim.NewMemo())

	ti, _ := idx.TestHandle("t")
	ca, _ := idx.CodeHandle("a")
	cb, _ := idx.CodeHandle("b")
	if got := surf.At(ti, cb); got != 1 {
		t.Errorf("lcba[b] = %v, want 1", got)
	}
	if got := surf.At(ti, ca); got != 0 {
		t.Errorf("lcba[a] = %v, want 0", got)
	}
}

// Zero-outside-call-set invariant, checked across every technique.
func TestAllTechniques_ZeroOutsideCallSet(t *testing.T) {
	records := []trace.Record{
		rec(5, "", trace.TestMethodCall, "", "test_foo", "test_foo"),
		rec(6, trace.FunctionSource, "", trace.EventCall, "bar", "bar"),
		rec(6, trace.FunctionSource, "", trace.EventReturn, "bar", "bar"),
		rec(5, "", trace.TestMethodReturn, "", "", ""),
		rec(1, "", trace.TestMethodCall, "", "test_other", "test_other"),
		rec(2, trace.FunctionSource, "", trace.EventCall, "baz", "baz"),
		rec(2, trace.FunctionSource, "", trace.EventReturn, "baz", "baz"),
		rec(1, "", trace.TestMethodReturn, "", "", ""),
	}
	idx := index.Build(records, trace.Function, nil)
	memo := strsim.NewMemo()

	tFoo, _ := idx.TestHandle("test_foo")
	cBaz, _ := idx.CodeHandle("baz")

	for _, tech := range All().order {
		technique, _ := All().Lookup(tech)
		surf := technique.Run(idx, memo)
		PostProcess(surf, idx, technique.Meta())
		if got := surf.At(tFoo, cBaz); got != 0 {
			t.Errorf("%s: test_foo was never observed calling baz, got score %v", tech, got)
		}
	}
}

// Combiner linearity (invariant 9): identical input surfaces combine to
// themselves after normalization.
func TestCombine_Linearity(t *testing.T) {
	records := []trace.Record{
		rec(5, "", trace.TestMethodCall, "", "test_t", "t"),
		rec(6, trace.FunctionSource, "", trace.EventCall, "a", "a"),
		rec(6, trace.FunctionSource, "", trace.EventReturn, "a", "a"),
		rec(5, "", trace.TestMethodReturn, "", "", ""),
	}
	idx := index.Build(records, trace.Function, nil)
	surf := lcba{}.Run(idx, strsim.NewMemo())
	PostProcess(surf, idx, lcba{}.Meta())

	combined := Combine(surf, surf, surf)
	ti, _ := idx.TestHandle("t")
	ci, _ := idx.CodeHandle("a")
	if got, want := combined.At(ti, ci), surf.At(ti, ci); got != want {
		t.Errorf("combined identical surfaces = %v, want %v", got, want)
	}
}

func TestApplyMaxNormalize_ZeroRowUnchanged(t *testing.T) {
	surf := NewScoreSurface(1, 2)
	ApplyMaxNormalize(surf)
	if surf.At(0, 0) != 0 || surf.At(0, 1) != 0 {
		t.Errorf("expected all-zero row to remain unchanged")
	}
}
