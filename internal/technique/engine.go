package technique

import (
	"fmt"
	"sync"

	"tracelink/internal/index"
	"tracelink/internal/strsim"
)

// Result pairs a technique's name with its computed, post-processed
// ScoreSurface, in the order the technique appeared in the requested list.
type Result struct {
	Name    string
	Meta    Meta
	Surface *ScoreSurface
}

// RunSelected runs each named technique over idx, applying its
// post-processors, and returns results in the same order names were
// given regardless of completion order. Techniques are independent —
// each reads idx read-only and writes its own surface — so they run
// concurrently; the final ordering is the caller's fixed list, not
// completion order (spec §5).
func (r *Registry) RunSelected(idx *index.Indexes, memo *strsim.Memo, names []string) ([]Result, error) {
	results := make([]Result, len(names))
	var wg sync.WaitGroup
	errs := make([]error, len(names))

	for i, name := range names {
		t, ok := r.Lookup(name)
		if !ok {
			errs[i] = fmt.Errorf("technique: unknown technique %q", name)
			continue
		}
		wg.Add(1)
		go func(i int, t Technique) {
			defer wg.Done()
			meta := t.Meta()
			surf := t.Run(idx, memo)
			PostProcess(surf, idx, meta)
			results[i] = Result{Name: t.Name(), Meta: meta, Surface: surf}
		}(i, t)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
