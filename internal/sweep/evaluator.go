package sweep

import (
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/stat"

	"winsweep/internal/config"
	"winsweep/internal/features"
)

// Result holds the outcome of one (dataset, window) attempt. When the
// window-restricted data falls below the minimum sample count the
// attempt is insufficient and every metric is absent; this is a normal
// sweep outcome, not an error.
type Result struct {
	Window  Window `json:"window"`
	Samples int    `json:"samples"`

	Sufficient bool `json:"sufficient"`

	// ROCAUC is nil for insufficient attempts and for single-class test
	// slices, where the area is undefined.
	ROCAUC   *float64 `json:"roc_auc,omitempty"`
	Accuracy *float64 `json:"accuracy,omitempty"`
	F1       *float64 `json:"f1,omitempty"`
}

// Evaluator trains and scores one classifier per trailing window
type Evaluator struct {
	minSamples    int
	trainRatio    float64
	seed          int64
	scaleOnTrain  bool
	newClassifier ClassifierFactory
	logger        *slog.Logger
}

// NewEvaluator creates a window evaluator from the sweep configuration.
// The factory may be nil, in which case the seeded logistic-regression
// classifier is used.
func NewEvaluator(cfg config.SweepConfig, factory ClassifierFactory, logger *slog.Logger) *Evaluator {
	if factory == nil {
		factory = func(seed int64) Classifier { return NewLogisticClassifier(seed) }
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Evaluator{
		minSamples:    cfg.MinSamples,
		trainRatio:    cfg.TrainRatio,
		seed:          cfg.Seed,
		scaleOnTrain:  cfg.TrainOnlyScaling,
		newClassifier: factory,
		logger:        logger,
	}
}

// Evaluate restricts the prepared dataset to the trailing window, fits
// a classifier on the chronologically earlier part and scores it on the
// most recent remainder. Insufficient data yields an absent-metrics
// Result; shape defects surface as an error.
func (e *Evaluator) Evaluate(prepared *features.Prepared, window Window) (Result, error) {
	result := Result{Window: window}
	if prepared.Empty() {
		return result, fmt.Errorf("prepared dataset %s is empty", prepared.Name)
	}

	rows := e.restrictToWindow(prepared, window)
	result.Samples = len(rows)
	if len(rows) < e.minSamples {
		return result, nil
	}
	result.Sufficient = true

	// Chronological split: the test slice is strictly the most recent
	// part of the window, so no shuffling.
	split := int(float64(len(rows)) * e.trainRatio)
	train, test := rows[:split], rows[split:]

	trainX, trainY := matrix(train)
	testX, testY := matrix(test)
	if e.scaleOnTrain {
		scaleTrainOnly(trainX, testX)
	}

	clf := e.newClassifier(e.seed)
	if err := clf.Fit(trainX, trainY); err != nil {
		return result, fmt.Errorf("fit classifier for window %s: %w", window.Label(), err)
	}

	probs, err := clf.PredictProba(testX)
	if err != nil {
		return result, fmt.Errorf("predict for window %s: %w", window.Label(), err)
	}

	accuracy := Accuracy(probs, testY)
	f1 := F1Score(probs, testY)
	result.Accuracy = &accuracy
	result.F1 = &f1

	if auc, ok := ROCAUC(probs, testY); ok {
		result.ROCAUC = &auc
	} else {
		e.logger.Warn("test slice holds a single class, ROC-AUC undefined",
			slog.String("dataset", prepared.Name),
			slog.String("window", window.Label()),
			slog.Int("test_samples", len(testY)),
		)
	}

	return result, nil
}

// restrictToWindow keeps the rows dated on or after the window cutoff,
// which trails the most recent observation by Days().
func (e *Evaluator) restrictToWindow(prepared *features.Prepared, window Window) []features.Row {
	cutoff := prepared.MaxDate().AddDate(0, 0, -window.Days())

	// Rows are sorted by date, so the window is a suffix.
	for i, row := range prepared.Rows {
		if !row.Date.Before(cutoff) {
			return prepared.Rows[i:]
		}
	}
	return nil
}

// matrix splits rows into a feature matrix and a target vector
func matrix(rows []features.Row) ([][]float64, []float64) {
	x := make([][]float64, len(rows))
	y := make([]float64, len(rows))
	for i, row := range rows {
		x[i] = row.Features
		y[i] = row.Target
	}
	return x, y
}

// scaleTrainOnly standardizes features using statistics fitted on the
// train slice only, then applies them to both slices. Feature vectors
// are copied so the prepared dataset is left untouched for later
// windows.
func scaleTrainOnly(trainX, testX [][]float64) {
	if len(trainX) == 0 {
		return
	}
	dim := len(trainX[0])

	copyRows(trainX)
	copyRows(testX)

	column := make([]float64, len(trainX))
	for j := 0; j < dim; j++ {
		for i := range trainX {
			column[i] = trainX[i][j]
		}
		mean, std := stat.MeanStdDev(column, nil)
		if std == 0 || math.IsNaN(std) {
			std = 1
		}
		for i := range trainX {
			trainX[i][j] = (trainX[i][j] - mean) / std
		}
		for i := range testX {
			testX[i][j] = (testX[i][j] - mean) / std
		}
	}
}

// copyRows replaces each row slice with its own copy
func copyRows(x [][]float64) {
	for i, row := range x {
		dup := make([]float64, len(row))
		copy(dup, row)
		x[i] = dup
	}
}
