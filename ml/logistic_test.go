package ml

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogisticRegressionPredict(t *testing.T) {
	model := &LogisticRegression{Coefficients: []float64{1, 1}, Intercept: -2}

	label, confidence, err := model.Predict([]float64{3, 3})
	require.NoError(t, err)
	assert.Equal(t, 1, label)
	assert.InDelta(t, 0.982, confidence, 0.001)

	label, confidence, err = model.Predict([]float64{0, 0})
	require.NoError(t, err)
	assert.Equal(t, 0, label)
	assert.InDelta(t, 0.881, confidence, 0.001)

	_, _, err = model.Predict([]float64{1})
	assert.Error(t, err)
}

func TestLogisticRegressionScalerAndThreshold(t *testing.T) {
	model := &LogisticRegression{
		Coefficients: []float64{2},
		Means:        []float64{100},
		Scales:       []float64{10},
		Threshold:    0.9,
	}
	// scaled input 1 -> z=2 -> p~0.88, below threshold
	label, _, err := model.Predict([]float64{110})
	require.NoError(t, err)
	assert.Equal(t, 0, label)

	label, _, err = model.Predict([]float64{120})
	require.NoError(t, err)
	assert.Equal(t, 1, label)
}

func TestLoadModel(t *testing.T) {
	dir := t.TempDir()
	lrPath := writeModel(t, dir, "lr.json", LogisticRegression{Coefficients: []float64{0.5}, Intercept: 0})

	model, err := LoadModel(ModelLogisticRegression, lrPath)
	require.NoError(t, err)
	label, _, err := model.Predict([]float64{4})
	require.NoError(t, err)
	assert.Equal(t, 1, label)

	_, err = LoadModel("svm", lrPath)
	assert.True(t, errors.Is(err, ErrUnsupportedModel))

	_, err = LoadModel(ModelDecisionTree, dir+"/missing.json")
	assert.Error(t, err)

	bad := writeModel(t, dir, "bad.json", map[string]interface{}{
		"coefficients": []float64{1, 2},
		"means":        []float64{1},
	})
	_, err = LoadModel(ModelLogisticRegression, bad)
	assert.Error(t, err)
}
