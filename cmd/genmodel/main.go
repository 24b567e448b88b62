// Command genmodel writes a default model artifact so the service can run
// without the offline training pipeline. The coefficients mirror the fitted
// logistic regression exported by that pipeline; regenerate the file from
// real training output before relying on the scores.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"math/rand"
	"os"

	"microloan-backend/internal/scoring"
)

func main() {
	out := flag.String("out", "model.json", "output path for the model artifact")
	flag.Parse()

	a := scoring.Artifact{
		FeatureNames: []string{
			"transaction_frequency",
			"avg_transaction_amount",
			"utility_payment_consistency",
			"airtime_topup_frequency",
		},
		Coefficients: []float64{1.9, 1.3, 2.6, 0.7},
		Intercept:    0.05,
	}
	a.Scaler.Mean = []float64{10.0, 105.0, 0.5, 5.0}
	a.Scaler.Scale = []float64{5.77, 54.8, 0.29, 2.89}

	// Background rows are stored already scaled, matching training export.
	rng := rand.New(rand.NewSource(42))
	a.Background = make([][]float64, 100)
	for i := range a.Background {
		row := make([]float64, len(a.FeatureNames))
		for j := range row {
			row[j] = rng.NormFloat64()
		}
		a.Background[i] = row
	}

	if _, err := scoring.FromArtifact(&a); err != nil {
		log.Fatalf("artifact does not validate: %v", err)
	}

	payload, err := json.MarshalIndent(&a, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile(*out, payload, 0o644); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %s", *out)
}
