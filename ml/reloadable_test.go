package ml

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestReloadableReload(t *testing.T) {
	dir := t.TempDir()
	path := writeModel(t, dir, "model.json", LogisticRegression{Coefficients: []float64{1}})

	r, err := NewReloadable(ModelLogisticRegression, path, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Generation())

	label, _, err := r.Predict([]float64{5})
	require.NoError(t, err)
	assert.Equal(t, 1, label)

	writeModel(t, dir, "model.json", LogisticRegression{Coefficients: []float64{-1}})
	require.NoError(t, r.Reload())
	label, _, err = r.Predict([]float64{5})
	require.NoError(t, err)
	assert.Equal(t, 0, label)

	// a broken file leaves the last good model in place
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	assert.Error(t, r.Reload())
	assert.Equal(t, 2, r.Generation())
	label, _, err = r.Predict([]float64{5})
	require.NoError(t, err)
	assert.Equal(t, 0, label)
}

func TestReloadableWatch(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := writeModel(t, dir, "model.json", leafTree(0))
	r, err := NewReloadable(ModelDecisionTree, path, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Watch(ctx) }()

	require.Eventually(t, func() bool {
		payload, _ := json.Marshal(leafTree(1))
		_ = os.WriteFile(path, payload, 0o600)
		label, _, err := r.Predict([]float64{0})
		return err == nil && label == 1
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func leafTree(label int) []TreeNode {
	return []TreeNode{{FeatureIdx: -1, LeftChild: -1, RightChild: -1, ClassLabel: label, IsLeaf: true}}
}

func TestNewReloadableMissingFile(t *testing.T) {
	_, err := NewReloadable(ModelDecisionTree, t.TempDir()+"/nope.json", nil)
	assert.Error(t, err)
}
