package accuracy

import (
	"context"
	"errors"
	"testing"

	"diabetescheck/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func records(flags ...bool) []db.Record {
	out := make([]db.Record, len(flags))
	for i, f := range flags {
		out[i] = db.Record{ID: int64(i + 1), CorrectPrediction: f}
	}
	return out
}

func TestComputeEmpty(t *testing.T) {
	r := Compute(nil)
	assert.Equal(t, 0, r.Total)
	assert.Equal(t, 0.0, r.Accuracy)
	assert.Equal(t, []float64{0}, r.History)
	assert.Equal(t, 0.0, r.Delta)
}

func TestComputeRunningHistory(t *testing.T) {
	r := Compute(records(true, false, true))
	assert.Equal(t, 3, r.Total)
	assert.Equal(t, 2, r.Correct)
	assert.Equal(t, 0.67, r.Accuracy)
	assert.Equal(t, []float64{0, 1, 0.5, 0.67}, r.History)
	assert.Equal(t, 0.17, r.Delta)
}

func TestComputeHistoryLengthAndDelta(t *testing.T) {
	r := Compute(records(true))
	assert.Equal(t, []float64{0, 1}, r.History)
	assert.Equal(t, 1.0, r.Delta)

	r = Compute(records(true, true, false))
	require.Len(t, r.History, 4)
	assert.Equal(t, -0.33, r.Delta)
}

func TestComputeRoundsHalfToEven(t *testing.T) {
	r := Compute(records(true, false, false, false, false, false, false, false))
	assert.Equal(t, 0.12, r.Accuracy)
	assert.Equal(t, 0.12, r.History[8])

	r = Compute(records(true, true, true, true, true, false, false, false))
	assert.Equal(t, 0.62, r.Accuracy)
	assert.Equal(t, []float64{0, 1, 1, 1, 1, 1, 0.83, 0.71, 0.62}, r.History)

	r = Compute(records(true, true, true, false, false, false, false, false))
	assert.Equal(t, 0.38, r.Accuracy)
}

type stubSource struct {
	records []db.Record
	err     error
}

func (s stubSource) AllPredictions(context.Context) ([]db.Record, error) {
	return s.records, s.err
}

func TestAggregatorReport(t *testing.T) {
	r, err := NewAggregator(stubSource{records: records(false, true)}).Report(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.5, r.Accuracy)

	_, err = NewAggregator(stubSource{err: errors.New("disk")}).Report(context.Background())
	assert.Error(t, err)
}
