package ml

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// LogisticRegression is a linear model with an optional standard scaler in
// front of it, as exported from a fitted pipeline.
type LogisticRegression struct {
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
	Threshold    float64   `json:"threshold,omitempty"`
	Means        []float64 `json:"means,omitempty"`
	Scales       []float64 `json:"scales,omitempty"`
}

func (lr *LogisticRegression) Predict(features []float64) (int, float64, error) {
	if len(lr.Coefficients) == 0 {
		return 0, 0, ErrNotLoaded
	}
	if len(features) != len(lr.Coefficients) {
		return 0, 0, fmt.Errorf("expected %d features, got %d", len(lr.Coefficients), len(features))
	}
	z := lr.Intercept
	for i, x := range features {
		if len(lr.Means) == len(features) && len(lr.Scales) == len(features) && lr.Scales[i] != 0 {
			x = (x - lr.Means[i]) / lr.Scales[i]
		}
		z += lr.Coefficients[i] * x
	}
	prob := 1 / (1 + math.Exp(-z))

	threshold := lr.Threshold
	if threshold <= 0 || threshold >= 1 {
		threshold = 0.5
	}
	if prob >= threshold {
		return 1, prob, nil
	}
	return 0, 1 - prob, nil
}

func (lr *LogisticRegression) Load(path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var loaded LogisticRegression
	if err := json.Unmarshal(payload, &loaded); err != nil {
		return err
	}
	if len(loaded.Coefficients) == 0 {
		return ErrNotLoaded
	}
	if len(loaded.Means) != 0 && len(loaded.Means) != len(loaded.Coefficients) {
		return fmt.Errorf("scaler has %d means for %d coefficients", len(loaded.Means), len(loaded.Coefficients))
	}
	if len(loaded.Scales) != len(loaded.Means) {
		return fmt.Errorf("scaler has %d scales for %d means", len(loaded.Scales), len(loaded.Means))
	}
	*lr = loaded
	return nil
}
