// Package index builds the per-trace structures every scoring technique
// reads: the function/test name sets and the five CalledBy-family maps
// described by the trace indexer (a single forward pass over the trace).
package index

import (
	"tracelink/internal/trace"
)

// NameRecord pairs a fully qualified identifier with its short name.
type NameRecord struct {
	FullyQualifiedName string
	ShortName          string
}

// Indexes bundles every structure the trace indexer derives from one pass
// over the trace, plus the interned handle tables the Technique Engine
// uses to address a dense ScoreSurface without touching strings again.
type Indexes struct {
	Granularity trace.Granularity

	FunctionNames []NameRecord
	TestNames     []NameRecord

	CalledBy           map[string]map[string]struct{}
	CalledByCount      map[string]map[string]int
	CalledByDepth      map[string]map[string]int
	CallsTest          map[string]map[string]struct{}
	CalledBeforeAssert map[string]map[string]struct{}

	// Anomalies counts TEST_METHOD_RETURN-with-empty-stack rows and
	// TEST_METHOD_CALL rows with no id encountered during the pass. It never
	// aborts the build (spec: "never aborts on a single bad row").
	Anomalies int

	testHandle map[string]int
	codeHandle map[string]int
}

// AnomalyFunc is called once per anomaly encountered during Build, with a
// short machine-readable reason. Callers typically wire this to a run
// logger; it is never required to be non-nil.
type AnomalyFunc func(reason string)

type stackFrame struct {
	id    string
	depth int
}

// Build performs the single forward pass over records described by spec
// §4.1: a strict-stack test window discipline, innermost-active-test
// attribution for nested test methods, and the CalledBeforeAssert rule
// (most recent SOURCE RETURN before an ASSERT, within the window).
//
// A SOURCE frame that returns on the exact same trace row as an ASSERT
// record is not visible to the CalledBeforeAssert rule — this mirrors a
// known limitation of the system this was recovered from and is preserved
// rather than worked around.
func Build(records []trace.Record, g trace.Granularity, onAnomaly AnomalyFunc) *Indexes {
	idx := &Indexes{
		Granularity:        g,
		CalledBy:           map[string]map[string]struct{}{},
		CalledByCount:      map[string]map[string]int{},
		CalledByDepth:      map[string]map[string]int{},
		CallsTest:          map[string]map[string]struct{}{},
		CalledBeforeAssert: map[string]map[string]struct{}{},
	}

	seenFunc := map[string]bool{}
	seenTest := map[string]bool{}
	lastReturnedSource := map[string]string{}

	var stack []stackFrame

	report := func(reason string) {
		idx.Anomalies++
		if onAnomaly != nil {
			onAnomaly(reason)
		}
	}

	for _, rec := range records {
		switch rec.TestingMethod {
		case trace.TestMethodCall:
			id := rec.ID(g)
			if id == "" {
				report("test_method_call_missing_id")
				continue
			}
			stack = append(stack, stackFrame{id: id, depth: rec.Depth})
			if !seenTest[id] {
				seenTest[id] = true
				idx.TestNames = append(idx.TestNames, NameRecord{
					FullyQualifiedName: id,
					ShortName:          rec.ShortName(g),
				})
			}
			ensureTestMaps(idx, id)
			continue
		case trace.TestMethodReturn:
			if len(stack) == 0 {
				report("test_method_return_empty_stack")
				continue
			}
			stack = stack[:len(stack)-1]
			continue
		}

		if len(stack) == 0 {
			continue // outside any test window: contributes nothing
		}
		top := stack[len(stack)-1]
		t := top.id

		if rec.FunctionType == trace.FunctionSource {
			id := rec.ID(g)
			if id != "" {
				if !seenFunc[id] {
					seenFunc[id] = true
					idx.FunctionNames = append(idx.FunctionNames, NameRecord{
						FullyQualifiedName: id,
						ShortName:          rec.ShortName(g),
					})
				}

				idx.CalledBy[t][id] = struct{}{}
				if rec.EventType == trace.EventCall {
					idx.CalledByCount[t][id]++
				}
				rel := rec.Depth - top.depth
				if existing, ok := idx.CalledByDepth[t][id]; !ok || rel < existing {
					idx.CalledByDepth[t][id] = rel
				}
				if idx.CallsTest[id] == nil {
					idx.CallsTest[id] = map[string]struct{}{}
				}
				idx.CallsTest[id][t] = struct{}{}

				if rec.EventType == trace.EventReturn {
					lastReturnedSource[t] = id
				}
			}
		}

		if rec.FunctionType == trace.FunctionAssert {
			if last, ok := lastReturnedSource[t]; ok && last != "" {
				idx.CalledBeforeAssert[t][last] = struct{}{}
			}
		}
	}

	idx.buildHandles()
	return idx
}

func ensureTestMaps(idx *Indexes, t string) {
	if idx.CalledBy[t] == nil {
		idx.CalledBy[t] = map[string]struct{}{}
	}
	if idx.CalledByCount[t] == nil {
		idx.CalledByCount[t] = map[string]int{}
	}
	if idx.CalledByDepth[t] == nil {
		idx.CalledByDepth[t] = map[string]int{}
	}
	if idx.CalledBeforeAssert[t] == nil {
		idx.CalledBeforeAssert[t] = map[string]struct{}{}
	}
}

func (idx *Indexes) buildHandles() {
	idx.testHandle = make(map[string]int, len(idx.TestNames))
	for i, n := range idx.TestNames {
		idx.testHandle[n.FullyQualifiedName] = i
	}
	idx.codeHandle = make(map[string]int, len(idx.FunctionNames))
	for i, n := range idx.FunctionNames {
		idx.codeHandle[n.FullyQualifiedName] = i
	}
}

// NumTests and NumCode give the dense ScoreSurface dimensions.
func (idx *Indexes) NumTests() int { return len(idx.TestNames) }
func (idx *Indexes) NumCode() int  { return len(idx.FunctionNames) }

// TestHandle and CodeHandle return the dense-array index for an id, or
// (-1, false) if the id is unknown (never observed as a test / SOURCE id).
func (idx *Indexes) TestHandle(id string) (int, bool) {
	h, ok := idx.testHandle[id]
	if !ok {
		return -1, false
	}
	return h, true
}

func (idx *Indexes) CodeHandle(id string) (int, bool) {
	h, ok := idx.codeHandle[id]
	if !ok {
		return -1, false
	}
	return h, true
}
