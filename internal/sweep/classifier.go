package sweep

import (
	"fmt"
	"math"
	"math/rand"
)

// Classifier is an opaque trainable binary classifier. Implementations
// must be deterministic for a fixed seed.
type Classifier interface {
	// Fit trains on feature vectors against binary targets (0 or 1).
	Fit(features [][]float64, targets []float64) error

	// PredictProba returns the positive-class probability for each
	// feature vector, in [0, 1].
	PredictProba(features [][]float64) ([]float64, error)
}

// ClassifierFactory builds a fresh classifier for one training run
type ClassifierFactory func(seed int64) Classifier

// LogisticClassifier is a logistic-regression classifier trained by
// gradient descent over cross-entropy loss. Weight initialization and
// update order are fixed by the seed, so training is reproducible.
type LogisticClassifier struct {
	LearningRate float64
	Epochs       int

	seed    int64
	weights []float64
	bias    float64
}

// NewLogisticClassifier creates a seeded logistic-regression classifier
func NewLogisticClassifier(seed int64) *LogisticClassifier {
	return &LogisticClassifier{
		LearningRate: 0.1,
		Epochs:       200,
		seed:         seed,
	}
}

// Fit trains the classifier. It returns an error for shape problems
// (empty input, ragged feature vectors, length mismatch); these are
// programming or data-shape defects, not data-quality outcomes.
func (c *LogisticClassifier) Fit(features [][]float64, targets []float64) error {
	if len(features) == 0 {
		return fmt.Errorf("no training samples")
	}
	if len(features) != len(targets) {
		return fmt.Errorf("feature rows (%d) and targets (%d) differ in length", len(features), len(targets))
	}
	dim := len(features[0])
	if dim == 0 {
		return fmt.Errorf("empty feature vectors")
	}
	for i, row := range features {
		if len(row) != dim {
			return fmt.Errorf("ragged feature matrix: row %d has %d values, want %d", i, len(row), dim)
		}
	}

	rng := rand.New(rand.NewSource(c.seed))
	c.weights = make([]float64, dim)
	for i := range c.weights {
		c.weights[i] = rng.NormFloat64() * 0.01
	}
	c.bias = 0

	for epoch := 0; epoch < c.Epochs; epoch++ {
		for i, row := range features {
			p := c.decision(row)
			grad := p - targets[i]
			for j := range c.weights {
				c.weights[j] -= c.LearningRate * grad * row[j]
			}
			c.bias -= c.LearningRate * grad
		}
	}

	return nil
}

// PredictProba returns positive-class probabilities for the given rows
func (c *LogisticClassifier) PredictProba(features [][]float64) ([]float64, error) {
	if c.weights == nil {
		return nil, fmt.Errorf("classifier is not fitted")
	}

	probs := make([]float64, len(features))
	for i, row := range features {
		if len(row) != len(c.weights) {
			return nil, fmt.Errorf("row %d has %d values, model expects %d", i, len(row), len(c.weights))
		}
		probs[i] = c.decision(row)
	}
	return probs, nil
}

// decision computes sigmoid(w·x + b)
func (c *LogisticClassifier) decision(row []float64) float64 {
	z := c.bias
	for j, w := range c.weights {
		z += w * row[j]
	}
	return sigmoid(z)
}

// sigmoid returns 1/(1+e^-x), clamped for numerical stability
func sigmoid(x float64) float64 {
	if x > 20 {
		return 1
	}
	if x < -20 {
		return 0
	}
	return 1 / (1 + math.Exp(-x))
}
