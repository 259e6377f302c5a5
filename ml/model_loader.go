package ml

import "fmt"

const (
	ModelDecisionTree       = "decision_tree"
	ModelLogisticRegression = "logistic_regression"
)

func newModel(modelType string) (Loader, error) {
	switch modelType {
	case ModelDecisionTree:
		return &DecisionTree{}, nil
	case ModelLogisticRegression:
		return &LogisticRegression{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedModel, modelType)
	}
}

// LoadModel reads a model of the given type from a JSON file.
func LoadModel(modelType, path string) (Classifier, error) {
	model, err := newModel(modelType)
	if err != nil {
		return nil, err
	}
	if err := model.Load(path); err != nil {
		return nil, fmt.Errorf("load %s model from %s: %w", modelType, path, err)
	}
	return model, nil
}
