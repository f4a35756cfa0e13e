package pricemodel

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
)

// Node is one decision node in a regression tree. Leaves have Left == -1
// and carry the tree's output in Value.
type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
}

// Tree is a single regression tree stored as a flat node array rooted at 0.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Model is a gradient-boosted ensemble of regression trees. It is loaded
// once at startup and safe for concurrent use.
type Model struct {
	NumFeatures    int     `json:"num_features"`
	BasePrediction float64 `json:"base_prediction"`
	LearningRate   float64 `json:"learning_rate"`
	Trees          []Tree  `json:"trees"`
}

// Load reads a serialized model artifact from path.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact: %w", err)
	}

	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse model artifact: %w", err)
	}

	if err := m.validate(); err != nil {
		return nil, err
	}

	log.Printf("[pricemodel] Loaded model: %d trees, %d features", len(m.Trees), m.NumFeatures)
	return &m, nil
}

func (m *Model) validate() error {
	if m.NumFeatures <= 0 {
		return fmt.Errorf("model declares %d features", m.NumFeatures)
	}
	for i, tree := range m.Trees {
		if len(tree.Nodes) == 0 {
			return fmt.Errorf("tree %d has no nodes", i)
		}
		for j, node := range tree.Nodes {
			if node.Left == -1 {
				continue
			}
			if node.Feature < 0 || node.Feature >= m.NumFeatures {
				return fmt.Errorf("tree %d node %d references feature %d", i, j, node.Feature)
			}
			if node.Left < 0 || node.Left >= len(tree.Nodes) ||
				node.Right < 0 || node.Right >= len(tree.Nodes) {
				return fmt.Errorf("tree %d node %d has child index out of range", i, j)
			}
		}
	}
	return nil
}

// Predict runs the ensemble over a feature vector assembled in the
// training column order. The vector length must match NumFeatures.
func (m *Model) Predict(features []float64) (float64, error) {
	if len(features) != m.NumFeatures {
		return 0, fmt.Errorf("expected %d features, got %d", m.NumFeatures, len(features))
	}

	prediction := m.BasePrediction
	for i := range m.Trees {
		prediction += m.LearningRate * m.Trees[i].score(features)
	}
	return prediction, nil
}

// score walks the tree from the root to a leaf.
func (t Tree) score(features []float64) float64 {
	idx := 0
	for {
		node := t.Nodes[idx]
		if node.Left == -1 {
			return node.Value
		}
		if features[node.Feature] <= node.Threshold {
			idx = node.Left
		} else {
			idx = node.Right
		}
	}
}
