package orchestrate

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"tracelink/internal/config"
)

const traceHeader = "Depth,Function Type,Testing Method,Event Type,Function Name,Fully Qualified Function Name,Class Name,Fully Qualified Class Name\n"

func writeTrace(t *testing.T, rows string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "trace.csv")
	if err := os.WriteFile(path, []byte(traceHeader+rows), 0o600); err != nil {
		t.Fatalf("write trace: %v", err)
	}
	return path
}

func mustConfig(t *testing.T, techniques []string) *config.Config {
	t.Helper()
	cfg, err := config.Load(techniques, "")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	return cfg
}

// TestScenario_S1_ExactNaming runs produce-links end to end: a single test
// calling a single SOURCE function with identical short names.
func TestScenario_S1_ExactNaming(t *testing.T) {
	rows := `5,TEST_FUNCTION,TEST_METHOD_CALL,CALL,test_bar,pkg.tests.test_foo.test_bar,,
6,SOURCE,,CALL,bar,pkg.src.foo.bar,,
6,SOURCE,,RETURN,bar,pkg.src.foo.bar,,
5,TEST_FUNCTION,TEST_METHOD_RETURN,RETURN,test_bar,pkg.tests.test_foo.test_bar,,
`
	path := writeTrace(t, rows)
	cfg := mustConfig(t, []string{"nc"})

	links, err := ProduceLinks(ProduceLinksOptions{
		TracePath:  path,
		Techniques: []string{"nc"},
		Stdout:     &bytes.Buffer{},
		Cfg:        cfg,
	})
	if err != nil {
		t.Fatalf("ProduceLinks: %v", err)
	}

	nc := links["nc"]["pkg.tests.test_foo.test_bar"]
	if len(nc) != 1 || nc[0] != "pkg.src.foo.bar" {
		t.Errorf("nc links = %v, want [pkg.src.foo.bar]", nc)
	}
}

// TestScenario_S2_DepthDiscount mirrors S1 but the SOURCE call sits two
// frames below the test window, exercising the discount-then-normalize
// post-processing pipeline for lcsb.
func TestScenario_S2_DepthDiscount(t *testing.T) {
	rows := `5,TEST_FUNCTION,TEST_METHOD_CALL,CALL,test_bar,pkg.tests.test_foo.test_bar,,
7,SOURCE,,CALL,bar,pkg.src.foo.bar,,
7,SOURCE,,RETURN,bar,pkg.src.foo.bar,,
5,TEST_FUNCTION,TEST_METHOD_RETURN,RETURN,test_bar,pkg.tests.test_foo.test_bar,,
`
	path := writeTrace(t, rows)
	cfg := mustConfig(t, []string{"lcsb"})

	links, err := ProduceLinks(ProduceLinksOptions{
		TracePath:  path,
		Techniques: []string{"lcsb"},
		Stdout:     &bytes.Buffer{},
		Cfg:        cfg,
	})
	if err != nil {
		t.Fatalf("ProduceLinks: %v", err)
	}

	lcsb := links["lcsb"]["pkg.tests.test_foo.test_bar"]
	if len(lcsb) != 1 || lcsb[0] != "pkg.src.foo.bar" {
		t.Errorf("lcsb links = %v, want [pkg.src.foo.bar] (normalized back to 1.0 past the 0.65 threshold)", lcsb)
	}
}

// TestScenario_S3_TarantulaDegeneracy exercises the single-test zero
// denominator case: predicted links must come back empty, not crash.
func TestScenario_S3_TarantulaDegeneracy(t *testing.T) {
	rows := `5,TEST_FUNCTION,TEST_METHOD_CALL,CALL,test_only,pkg.tests.test_foo.test_only,,
6,SOURCE,,CALL,thing,pkg.src.foo.thing,,
6,SOURCE,,RETURN,thing,pkg.src.foo.thing,,
5,TEST_FUNCTION,TEST_METHOD_RETURN,RETURN,test_only,pkg.tests.test_foo.test_only,,
`
	path := writeTrace(t, rows)
	cfg := mustConfig(t, []string{"tarantula"})

	links, err := ProduceLinks(ProduceLinksOptions{
		TracePath:  path,
		Techniques: []string{"tarantula"},
		Stdout:     &bytes.Buffer{},
		Cfg:        cfg,
	})
	if err != nil {
		t.Fatalf("ProduceLinks: %v", err)
	}

	if got := links["tarantula"]["pkg.tests.test_foo.test_only"]; len(got) != 0 {
		t.Errorf("tarantula links = %v, want empty", got)
	}
}

// TestScenario_S4_AssertAttribution checks that lcba attributes only the
// SOURCE function that most recently returned before the ASSERT.
func TestScenario_S4_AssertAttribution(t *testing.T) {
	rows := `5,TEST_FUNCTION,TEST_METHOD_CALL,CALL,test_it,pkg.tests.test_foo.test_it,,
6,SOURCE,,CALL,a,pkg.src.foo.a,,
6,SOURCE,,RETURN,a,pkg.src.foo.a,,
6,SOURCE,,CALL,b,pkg.src.foo.b,,
6,SOURCE,,RETURN,b,pkg.src.foo.b,,
6,ASSERT,,LINE,,,,
5,TEST_FUNCTION,TEST_METHOD_RETURN,RETURN,test_it,pkg.tests.test_foo.test_it,,
`
	path := writeTrace(t, rows)
	cfg := mustConfig(t, []string{"lcba"})

	links, err := ProduceLinks(ProduceLinksOptions{
		TracePath:  path,
		Techniques: []string{"lcba"},
		Stdout:     &bytes.Buffer{},
		Cfg:        cfg,
	})
	if err != nil {
		t.Fatalf("ProduceLinks: %v", err)
	}

	got := links["lcba"]["pkg.tests.test_foo.test_it"]
	if len(got) != 1 || got[0] != "pkg.src.foo.b" {
		t.Errorf("lcba links = %v, want [pkg.src.foo.b]", got)
	}
}

// TestScenario_S5_MAPRanking exercises compare-links' MAP computation
// against a fixed predicted ranking, bypassing trace parsing entirely
// (MAP only needs a predicted order and a ground truth set).
func TestScenario_S5_MAPRanking(t *testing.T) {
	dir := t.TempDir()
	predPath := filepath.Join(dir, "predicted.json")
	gtPath := filepath.Join(dir, "ground-truth.json")

	pred := `{"t": ["x", "z", "y"]}`
	gt := `{"t": ["x", "y"]}`
	if err := os.WriteFile(predPath, []byte(pred), 0o600); err != nil {
		t.Fatalf("write predicted: %v", err)
	}
	if err := os.WriteFile(gtPath, []byte(gt), 0o600); err != nil {
		t.Fatalf("write ground truth: %v", err)
	}

	row, err := CompareLinks(CompareLinksOptions{
		PredictedPath:   predPath,
		GroundTruthPath: gtPath,
		Metrics:         []string{"map"},
		Stdout:          &bytes.Buffer{},
	})
	if err != nil {
		t.Fatalf("CompareLinks: %v", err)
	}
	// AP = (1/1 + 2/3) / 2 = 0.8333…, rounded to one decimal.
	if got := row.Values["map"]; got != "0.8" {
		t.Errorf("map = %q, want \"0.8\" (rounded from 0.833…)", got)
	}
}

// TestScenario_S6_PrecisionRecallF1 exercises compare-links' classification
// and scoring path directly against fixed predicted/ground-truth JSON,
// bypassing trace parsing entirely.
func TestScenario_S6_PrecisionRecallF1(t *testing.T) {
	dir := t.TempDir()
	predPath := filepath.Join(dir, "predicted.json")
	gtPath := filepath.Join(dir, "ground-truth.json")

	pred := `{"t": ["x", "y", "w"]}`
	gt := `{"t": ["x", "y", "z"]}`
	if err := os.WriteFile(predPath, []byte(pred), 0o600); err != nil {
		t.Fatalf("write predicted: %v", err)
	}
	if err := os.WriteFile(gtPath, []byte(gt), 0o600); err != nil {
		t.Fatalf("write ground truth: %v", err)
	}

	row, err := CompareLinks(CompareLinksOptions{
		PredictedPath:   predPath,
		GroundTruthPath: gtPath,
		Metrics:         []string{"precision", "recall", "f1", "tp", "fp", "fn"},
		Stdout:          &bytes.Buffer{},
	})
	if err != nil {
		t.Fatalf("CompareLinks: %v", err)
	}

	want := map[string]string{"precision": "0.7", "recall": "0.7", "f1": "0.7", "tp": "2", "fp": "1", "fn": "1"}
	for k, v := range want {
		if got := row.Values[k]; got != v {
			t.Errorf("%s = %q, want %q", k, got, v)
		}
	}
}
