package ml

import "errors"

var (
	// ErrUnsupportedModel is returned by LoadModel for an unknown model type.
	ErrUnsupportedModel = errors.New("unsupported model type")
	// ErrNotLoaded is returned when a model has no parameters.
	ErrNotLoaded = errors.New("model not loaded")
	// ErrInvalidOutcome is returned when a classifier produces a label other than 0 or 1.
	ErrInvalidOutcome = errors.New("classifier returned a non-binary label")
)

// Classifier is a pre-trained model consumed as a black box.
type Classifier interface {
	Predict(features []float64) (int, float64, error)
}

// Loader is a classifier whose parameters are read from a serialized file.
type Loader interface {
	Classifier
	Load(path string) error
}
