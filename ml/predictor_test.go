package ml

import (
	"context"
	"errors"
	"testing"
	"time"

	"diabetescheck/patient"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeModel struct {
	label      int
	confidence float64
	err        error
	got        []float64
}

func (f *fakeModel) Predict(features []float64) (int, float64, error) {
	f.got = features
	return f.label, f.confidence, f.err
}

type recordingObserver struct {
	outcomes []Outcome
}

func (r *recordingObserver) ObservePrediction(o Outcome, _ time.Duration) {
	r.outcomes = append(r.outcomes, o)
}

func samplePatient() patient.Patient {
	return patient.Patient{
		Pregnancies: 1, Glucose: 85, BloodPressure: 66, SkinThickness: 29,
		Insulin: 60, BMI: 26.6, DiabetesPedigreeFunction: 0.351, Age: 31,
	}
}

func TestPredictorPredict(t *testing.T) {
	model := &fakeModel{label: 1, confidence: 0.75}
	observer := &recordingObserver{}
	p := NewPredictor(model, observer, nil)

	outcome, err := p.Predict(context.Background(), samplePatient())
	require.NoError(t, err)
	assert.Equal(t, Outcome{Label: 1, Diabetic: true, Confidence: 0.75}, outcome)
	assert.Equal(t, patient.FeatureVector(samplePatient()), model.got)
	require.Len(t, observer.outcomes, 1)
}

func TestPredictorRejectsNonBinaryLabel(t *testing.T) {
	p := NewPredictor(&fakeModel{label: 2}, nil, nil)
	_, err := p.Predict(context.Background(), samplePatient())
	assert.True(t, errors.Is(err, ErrInvalidOutcome))
}

func TestPredictorPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	p := NewPredictor(&fakeModel{err: boom}, nil, nil)
	_, err := p.Predict(context.Background(), samplePatient())
	assert.ErrorIs(t, err, boom)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Predict(ctx, samplePatient())
	assert.ErrorIs(t, err, context.Canceled)

	_, err = NewPredictor(nil, nil, nil).Predict(context.Background(), samplePatient())
	assert.ErrorIs(t, err, ErrNotLoaded)
}
