package ml

import (
	"context"
	"fmt"
	"time"

	"diabetescheck/patient"

	"go.uber.org/zap"
)

// Outcome is the classifier's verdict for one patient.
type Outcome struct {
	Label      int     `json:"label"`
	Diabetic   bool    `json:"diabetic"`
	Confidence float64 `json:"confidence"`
}

// Observer receives every successful prediction.
type Observer interface {
	ObservePrediction(outcome Outcome, elapsed time.Duration)
}

// Predictor runs patients through a Classifier.
type Predictor struct {
	model    Classifier
	observer Observer
	logger   *zap.Logger
}

// NewPredictor wraps model. observer may be nil.
func NewPredictor(model Classifier, observer Observer, logger *zap.Logger) *Predictor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Predictor{model: model, observer: observer, logger: logger}
}

// Predict runs the classifier on p. The caller validates p first.
func (p *Predictor) Predict(ctx context.Context, pt patient.Patient) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}
	if p.model == nil {
		return Outcome{}, ErrNotLoaded
	}

	start := time.Now()
	label, confidence, err := p.model.Predict(patient.FeatureVector(pt))
	if err != nil {
		return Outcome{}, fmt.Errorf("predict: %w", err)
	}
	if label != 0 && label != 1 {
		return Outcome{}, fmt.Errorf("%w: %d", ErrInvalidOutcome, label)
	}
	elapsed := time.Since(start)

	outcome := Outcome{Label: label, Diabetic: label == 1, Confidence: confidence}
	p.logger.Debug("prediction",
		zap.Int("label", label),
		zap.Float64("confidence", confidence),
		zap.Duration("elapsed", elapsed))
	if p.observer != nil {
		p.observer.ObservePrediction(outcome, elapsed)
	}
	return outcome, nil
}
