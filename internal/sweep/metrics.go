package sweep

import (
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

// positiveThreshold converts a probability into a hard class prediction
// for accuracy and F1.
const positiveThreshold = 0.5

// Accuracy returns the share of thresholded predictions matching the
// true targets
func Accuracy(probs, targets []float64) float64 {
	if len(probs) == 0 {
		return 0
	}
	correct := 0
	for i, p := range probs {
		if predictedPositive(p) == (targets[i] == 1) {
			correct++
		}
	}
	return float64(correct) / float64(len(probs))
}

// F1Score returns the harmonic mean of precision and recall for the
// positive class. When no positive predictions or no positive targets
// exist the score is 0.
func F1Score(probs, targets []float64) float64 {
	var tp, fp, fn float64
	for i, p := range probs {
		predicted := predictedPositive(p)
		actual := targets[i] == 1
		switch {
		case predicted && actual:
			tp++
		case predicted && !actual:
			fp++
		case !predicted && actual:
			fn++
		}
	}
	if tp == 0 {
		return 0
	}
	precision := tp / (tp + fp)
	recall := tp / (tp + fn)
	return 2 * precision * recall / (precision + recall)
}

// ROCAUC returns the area under the ROC curve of the positive class.
// The second return is false when targets hold a single class, where
// the area is mathematically undefined.
func ROCAUC(probs, targets []float64) (float64, bool) {
	positives := 0
	for _, t := range targets {
		if t == 1 {
			positives++
		}
	}
	if positives == 0 || positives == len(targets) {
		return 0, false
	}

	scores := make([]float64, len(probs))
	copy(scores, probs)
	classes := make([]bool, len(targets))
	for i, t := range targets {
		classes[i] = t == 1
	}

	stat.SortWeightedLabeled(scores, classes, nil)
	tpr, fpr, _ := stat.ROC(nil, scores, classes, nil)

	return integrate.Trapezoidal(fpr, tpr), true
}

func predictedPositive(p float64) bool {
	return p >= positiveThreshold
}
