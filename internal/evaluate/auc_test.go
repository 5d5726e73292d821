package evaluate

import (
	"testing"

	"tracelink/internal/index"
	"tracelink/internal/technique"
	"tracelink/internal/trace"
)

func buildThreeCodeIndex() *index.Indexes {
	records := []trace.Record{
		{Depth: 5, TestingMethod: trace.TestMethodCall, FunctionName: "test_t", FullyQualifiedFunctionName: "t"},
		{Depth: 6, FunctionType: trace.FunctionSource, EventType: trace.EventCall, FunctionName: "x", FullyQualifiedFunctionName: "x"},
		{Depth: 6, FunctionType: trace.FunctionSource, EventType: trace.EventReturn, FunctionName: "x", FullyQualifiedFunctionName: "x"},
		{Depth: 6, FunctionType: trace.FunctionSource, EventType: trace.EventCall, FunctionName: "y", FullyQualifiedFunctionName: "y"},
		{Depth: 6, FunctionType: trace.FunctionSource, EventType: trace.EventReturn, FunctionName: "y", FullyQualifiedFunctionName: "y"},
		{Depth: 6, FunctionType: trace.FunctionSource, EventType: trace.EventCall, FunctionName: "z", FullyQualifiedFunctionName: "z"},
		{Depth: 6, FunctionType: trace.FunctionSource, EventType: trace.EventReturn, FunctionName: "z", FullyQualifiedFunctionName: "z"},
		{Depth: 5, TestingMethod: trace.TestMethodReturn},
	}
	return index.Build(records, trace.Function, nil)
}

func TestAUC_BinaryTechniqueIsNotApplicable(t *testing.T) {
	idx := buildThreeCodeIndex()
	surf := technique.NewScoreSurface(idx.NumTests(), idx.NumCode())
	g := GroundTruth{"t": {"x"}}

	_, applicable := AUC(technique.Meta{Binary: true}, surf, idx, g)
	if applicable {
		t.Errorf("expected AUC to be not applicable for a binary technique")
	}
}

func TestAUC_PerfectRankingScoresOne(t *testing.T) {
	idx := buildThreeCodeIndex()
	surf := technique.NewScoreSurface(idx.NumTests(), idx.NumCode())
	ti, _ := idx.TestHandle("t")
	cx, _ := idx.CodeHandle("x")
	cy, _ := idx.CodeHandle("y")
	cz, _ := idx.CodeHandle("z")
	// x, y are true links and score strictly higher than the false link z.
	surf.Set(ti, cx, 0.9)
	surf.Set(ti, cy, 0.8)
	surf.Set(ti, cz, 0.1)

	g := GroundTruth{"t": {"x", "y"}}
	value, applicable := AUC(technique.Meta{UsesThreshold: true, Threshold: 0.5}, surf, idx, g)
	if !applicable {
		t.Fatalf("expected AUC to be applicable")
	}
	if !almostEqual(value, 1.0) {
		t.Errorf("AUC = %v, want 1.0 for perfect ranking", value)
	}
}

func TestAUC_NoPositivesYieldsZero(t *testing.T) {
	idx := buildThreeCodeIndex()
	surf := technique.NewScoreSurface(idx.NumTests(), idx.NumCode())
	g := GroundTruth{"t": {}}

	value, applicable := AUC(technique.Meta{UsesThreshold: true, Threshold: 0.5}, surf, idx, g)
	if !applicable {
		t.Fatalf("expected AUC to be applicable")
	}
	if value != 0 {
		t.Errorf("AUC = %v, want 0 when there are no positive labels", value)
	}
}
