package orchestrate

import (
	"fmt"

	"tracelink/internal/config"
	"tracelink/internal/index"
	"tracelink/internal/predict"
	"tracelink/internal/runlog"
	"tracelink/internal/strsim"
	"tracelink/internal/technique"
	"tracelink/internal/trace"
)

// run bundles one trace's built indexes with the post-processed surfaces
// for every requested technique, keyed by technique name.
type run struct {
	idx     *index.Indexes
	results []technique.Result
	byName  map[string]technique.Result
}

// anomalyLogCap bounds how many trace_anomaly events one run emits to the
// run logger; a systematically malformed trace still counts every skipped
// row in idx.Anomalies, it just stops flooding the log past this point.
const anomalyLogCap = 50

// validateTechniqueNames resolves names against the technique registry,
// defaulting to every technique when names is empty, and fails fast on an
// unknown name before any file is opened.
func validateTechniqueNames(names []string) ([]string, *technique.Registry, error) {
	registry := technique.All()
	if len(names) == 0 {
		names = registry.Names()
	}
	for _, n := range names {
		if _, ok := registry.Lookup(n); !ok {
			return nil, nil, wrap(KindUnknownSelector, "technique", fmt.Errorf("unknown technique %q", n))
		}
	}
	return names, registry, nil
}

// buildRun reads tracePath, builds the indexes at the given granularity,
// and runs every requested technique (all nine if names is empty),
// applying cfg's threshold overrides. Trace anomalies are logged but
// never fail the run.
func buildRun(tracePath string, granularity trace.Granularity, names []string, cfg *config.Config, verb string, logger *runlog.Logger) (*run, error) {
	names, registry, err := validateTechniqueNames(names)
	if err != nil {
		return nil, err
	}

	f, err := openTrace(tracePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, _, err := trace.Read(f)
	if err != nil {
		return nil, wrap(KindInputMalformed, "read trace", err)
	}

	emitted := 0
	onAnomaly := func(reason string) {
		if logger == nil || emitted >= anomalyLogCap {
			return
		}
		emitted++
		_ = logger.Anomaly(verb, reason, "")
	}
	idx := index.Build(records, granularity, onAnomaly)

	results, err := registry.RunSelected(idx, strsim.NewMemo(), names)
	if err != nil {
		return nil, wrap(KindUnknownSelector, "technique", err)
	}

	for i, r := range results {
		if th, ok := cfg.Thresholds[r.Name]; ok {
			results[i].Meta.Threshold = th
		}
	}

	byName := make(map[string]technique.Result, len(results))
	for _, r := range results {
		byName[r.Name] = r
	}

	return &run{idx: idx, results: results, byName: byName}, nil
}

// combinedResult runs the combiner over every technique already computed
// in r, producing a synthetic Result named "combined".
func (r *run) combinedResult(thresholds map[string]float64) technique.Result {
	surfaces := make([]*technique.ScoreSurface, len(r.results))
	for i, res := range r.results {
		surfaces[i] = res.Surface
	}
	meta := technique.CombinedMeta()
	if th, ok := thresholds["combined"]; ok {
		meta.Threshold = th
	}
	return technique.Result{Name: "combined", Meta: meta, Surface: technique.Combine(surfaces...)}
}

// predictAll runs the link predictor for every given technique result.
func predictAll(r *run, results []technique.Result, onlyTests []string) map[string]predict.PredictedLinks {
	out := make(map[string]predict.PredictedLinks, len(results))
	for _, res := range results {
		out[res.Name] = predict.Predict(res.Surface, res.Meta, r.idx, onlyTests)
	}
	return out
}
