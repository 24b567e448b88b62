// Package scoring wraps the fitted underwriting artifacts: a standard scaler,
// a logistic-regression classifier and the background sample used for linear
// feature attribution. Everything is loaded once at startup and is safe for
// concurrent use; inference is pure.
package scoring

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrDimensionMismatch = errors.New("feature vector dimension mismatch")
	ErrNoBackground      = errors.New("no background set loaded for explanation")
)

// Model is the immutable inference artifact shared across requests.
type Model struct {
	featureNames []string
	coef         []float64
	intercept    float64
	mean         []float64
	scale        []float64

	// per-feature mean of the (already scaled) background rows
	backgroundMean []float64
}

func (m *Model) FeatureNames() []string { return m.featureNames }

// Normalize applies the fitted per-feature center/scale transform.
// A dimension mismatch signals a wiring bug, not a user error.
func (m *Model) Normalize(raw []float64) ([]float64, error) {
	if len(raw) != len(m.coef) {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(raw), len(m.coef))
	}
	z := make([]float64, len(raw))
	for i, v := range raw {
		z[i] = (v - m.mean[i]) / m.scale[i]
	}
	return z, nil
}

// Score returns the positive-class probability in [0,1] for a normalized vector.
func (m *Model) Score(z []float64) (float64, error) {
	if len(z) != len(m.coef) {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(z), len(m.coef))
	}
	return sigmoid(m.decisionFunction(z)), nil
}

// ScorePercent is Score rescaled to the 0-100 range used for decisions.
func (m *Model) ScorePercent(z []float64) (float64, error) {
	p, err := m.Score(z)
	if err != nil {
		return 0, err
	}
	return p * 100, nil
}

// Explain attributes the decision-function output to each feature against the
// background baseline: contribution_i = coef_i * (z_i - E[background_i]).
// The contributions plus Baseline sum to the raw decision-function value.
func (m *Model) Explain(z []float64) (map[string]float64, error) {
	if m.backgroundMean == nil {
		return nil, ErrNoBackground
	}
	if len(z) != len(m.coef) {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(z), len(m.coef))
	}
	out := make(map[string]float64, len(m.coef))
	for i, name := range m.featureNames {
		out[name] = m.coef[i] * (z[i] - m.backgroundMean[i])
	}
	return out, nil
}

// Baseline is the decision-function value at the background mean.
func (m *Model) Baseline() (float64, error) {
	if m.backgroundMean == nil {
		return 0, ErrNoBackground
	}
	return m.decisionFunction(m.backgroundMean), nil
}

func (m *Model) decisionFunction(z []float64) float64 {
	s := m.intercept
	for i, c := range m.coef {
		s += c * z[i]
	}
	return s
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
