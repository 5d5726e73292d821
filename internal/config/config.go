// Package config resolves per-technique thresholds and the set of enabled
// techniques: spec defaults, overridden by TRACELINK_THRESHOLD_<TECHNIQUE>
// environment variables, overridden in turn by an optional YAML file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultThresholds are the per-technique thresholds of spec §6. Binary
// techniques (nc, ncc, lcba) have no threshold and are absent here.
func DefaultThresholds() map[string]float64 {
	return map[string]float64{
		"lcsb":           0.65,
		"lcsu":           0.75,
		"leven":          0.95,
		"tarantula":      0.95,
		"tfidf":          0.90,
		"tfidf_multiset": 0.90,
		"combined":       0.85,
	}
}

// AllTechniques lists every technique name the CLI accepts, in the
// canonical order used when the caller requests "all".
func AllTechniques() []string {
	return []string{"nc", "ncc", "lcsb", "lcsu", "leven", "lcba", "tarantula", "tfidf", "tfidf_multiset"}
}

// Config is the resolved engine configuration for one run.
type Config struct {
	Techniques []string
	Thresholds map[string]float64
}

// thresholdsFile is the shape of an optional --thresholds-file YAML
// document: a flat map from technique name to threshold.
type thresholdsFile map[string]float64

const envPrefix = "TRACELINK_THRESHOLD_"

// Load resolves thresholds from defaults, then environment overrides, then
// an optional file's overrides (file wins over environment, which wins
// over built-in defaults). techniques selects which techniques this run
// uses; nil or empty means all.
func Load(techniques []string, thresholdsFilePath string) (*Config, error) {
	if len(techniques) == 0 {
		techniques = AllTechniques()
	}

	thresholds := DefaultThresholds()
	applyEnvOverrides(thresholds)

	if thresholdsFilePath != "" {
		data, err := os.ReadFile(thresholdsFilePath)
		if err != nil {
			return nil, fmt.Errorf("read thresholds file: %w", err)
		}
		var overrides thresholdsFile
		if err := yaml.Unmarshal(data, &overrides); err != nil {
			return nil, fmt.Errorf("parse thresholds file: %w", err)
		}
		for name, v := range overrides {
			thresholds[name] = v
		}
	}

	return &Config{Techniques: techniques, Thresholds: thresholds}, nil
}

func applyEnvOverrides(thresholds map[string]float64) {
	for _, e := range os.Environ() {
		kv := strings.SplitN(e, "=", 2)
		if len(kv) != 2 || !strings.HasPrefix(kv[0], envPrefix) {
			continue
		}
		name := strings.ToLower(strings.TrimPrefix(kv[0], envPrefix))
		v, err := strconv.ParseFloat(kv[1], 64)
		if err != nil {
			continue
		}
		thresholds[name] = v
	}
}
