package ml

import (
	"encoding/json"
	"errors"
	"os"
)

// DecisionTree evaluates a tree exported as a flat node array. Node 0 is the root.
type DecisionTree struct {
	nodes []TreeNode
}

type TreeNode struct {
	FeatureIdx int     `json:"feature_idx"`
	Threshold  float64 `json:"threshold"`
	LeftChild  int     `json:"left_child"`
	RightChild int     `json:"right_child"`
	ClassLabel int     `json:"class_label"`
	IsLeaf     bool    `json:"is_leaf"`
	Confidence float64 `json:"confidence,omitempty"`
}

func NewDecisionTree(nodes []TreeNode) *DecisionTree {
	return &DecisionTree{nodes: append([]TreeNode(nil), nodes...)}
}

func (dt *DecisionTree) Predict(features []float64) (int, float64, error) {
	if len(dt.nodes) == 0 {
		return 0, 0, ErrNotLoaded
	}
	idx := 0
	// a well-formed tree reaches a leaf in at most len(nodes) steps
	for steps := 0; steps <= len(dt.nodes); steps++ {
		node := dt.nodes[idx]
		if node.IsLeaf {
			return node.ClassLabel, leafConfidence(node), nil
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= len(features) {
			return 0, 0, errors.New("feature index out of range")
		}
		if features[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
		if idx < 0 || idx >= len(dt.nodes) {
			return 0, 0, errors.New("invalid tree state")
		}
	}
	return 0, 0, errors.New("tree contains a cycle")
}

func (dt *DecisionTree) Load(path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var nodes []TreeNode
	if err := json.Unmarshal(payload, &nodes); err != nil {
		return err
	}
	if len(nodes) == 0 {
		return ErrNotLoaded
	}
	dt.nodes = nodes
	return nil
}

func leafConfidence(node TreeNode) float64 {
	if node.Confidence <= 0 || node.Confidence > 1 {
		return 1
	}
	return node.Confidence
}
