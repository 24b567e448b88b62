package scoring

import (
	"encoding/json"
	"fmt"
	"os"
)

// Artifact is the JSON layout of the fitted model file. The background rows
// are stored already scaled, as exported by the training pipeline.
type Artifact struct {
	FeatureNames []string  `json:"feature_names"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
	Scaler       struct {
		Mean  []float64 `json:"mean"`
		Scale []float64 `json:"scale"`
	} `json:"scaler"`
	Background [][]float64 `json:"background"`
}

// Load reads and validates the artifact file. Any error here is fatal for the
// process; the service must not serve without a usable model.
func Load(path string) (*Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}
	var a Artifact
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("parse model artifact: %w", err)
	}
	return FromArtifact(&a)
}

// FromArtifact builds a Model from an in-memory artifact; split out so tests
// can inject fixed coefficients without a file.
func FromArtifact(a *Artifact) (*Model, error) {
	n := len(a.FeatureNames)
	if n == 0 {
		return nil, fmt.Errorf("model artifact: no features")
	}
	if len(a.Coefficients) != n || len(a.Scaler.Mean) != n || len(a.Scaler.Scale) != n {
		return nil, fmt.Errorf("model artifact: inconsistent dimensions (features=%d coef=%d mean=%d scale=%d)",
			n, len(a.Coefficients), len(a.Scaler.Mean), len(a.Scaler.Scale))
	}
	for i, s := range a.Scaler.Scale {
		if s == 0 {
			return nil, fmt.Errorf("model artifact: zero scale for feature %q", a.FeatureNames[i])
		}
	}

	m := &Model{
		featureNames: append([]string(nil), a.FeatureNames...),
		coef:         append([]float64(nil), a.Coefficients...),
		intercept:    a.Intercept,
		mean:         append([]float64(nil), a.Scaler.Mean...),
		scale:        append([]float64(nil), a.Scaler.Scale...),
	}

	// The background set only feeds the explainer; a missing one degrades
	// Explain, never scoring.
	if len(a.Background) > 0 {
		bm := make([]float64, n)
		for _, row := range a.Background {
			if len(row) != n {
				return nil, fmt.Errorf("model artifact: background row dimension mismatch")
			}
			for i, v := range row {
				bm[i] += v
			}
		}
		for i := range bm {
			bm[i] /= float64(len(a.Background))
		}
		m.backgroundMean = bm
	}
	return m, nil
}
