package sweep

import (
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"winsweep/internal/config"
	"winsweep/internal/features"
)

func sweepConfig(minSamples int) config.SweepConfig {
	return config.SweepConfig{
		WindowsMonths: []int{3, 6, 12},
		MinSamples:    minSamples,
		TrainRatio:    0.8,
		Seed:          42,
	}
}

// makePrepared builds a single-instrument prepared dataset with n daily
// rows and the given target pattern
func makePrepared(n int, target func(i int) float64) *features.Prepared {
	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := make([]features.Row, n)
	for i := 0; i < n; i++ {
		rows[i] = features.Row{
			Symbol: "AAA",
			Date:   base.AddDate(0, 0, i),
			Price:  100 + math.Sin(float64(i)*0.7)*5,
			Features: []float64{
				math.Sin(float64(i) * 0.3),
				math.Cos(float64(i) * 0.5),
			},
			Target: target(i),
		}
	}
	return &features.Prepared{
		Name:     "test.csv",
		Features: []string{"f1", "f2"},
		Rows:     rows,
	}
}

func alternating(i int) float64 {
	return float64(i % 2)
}

func TestEvaluateMinSamplesBoundary(t *testing.T) {
	// 120 daily rows; a 3-month (90-day) window keeps exactly 91.
	prepared := makePrepared(120, alternating)

	t.Run("exactly min samples proceeds", func(t *testing.T) {
		e := NewEvaluator(sweepConfig(91), nil, slog.Default())
		result, err := e.Evaluate(prepared, Window(3))
		require.NoError(t, err)
		assert.Equal(t, 91, result.Samples)
		assert.True(t, result.Sufficient)
		assert.NotNil(t, result.Accuracy)
	})

	t.Run("one below min samples is insufficient", func(t *testing.T) {
		e := NewEvaluator(sweepConfig(92), nil, slog.Default())
		result, err := e.Evaluate(prepared, Window(3))
		require.NoError(t, err)
		assert.Equal(t, 91, result.Samples)
		assert.False(t, result.Sufficient)
		assert.Nil(t, result.ROCAUC)
		assert.Nil(t, result.Accuracy)
		assert.Nil(t, result.F1)
	})
}

func TestRestrictToWindowSuperset(t *testing.T) {
	prepared := makePrepared(120, alternating)
	e := NewEvaluator(sweepConfig(10), nil, slog.Default())

	short := e.restrictToWindow(prepared, Window(3))
	long := e.restrictToWindow(prepared, Window(6))

	require.NotEmpty(t, short)
	assert.GreaterOrEqual(t, len(long), len(short))
	// The shorter window's rows are the tail of the longer window's.
	assert.Equal(t, short, long[len(long)-len(short):])
}

func TestEvaluateDeterministic(t *testing.T) {
	prepared := makePrepared(200, alternating)
	e := NewEvaluator(sweepConfig(50), nil, slog.Default())

	first, err := e.Evaluate(prepared, Window(6))
	require.NoError(t, err)
	second, err := e.Evaluate(prepared, Window(6))
	require.NoError(t, err)

	require.NotNil(t, first.ROCAUC)
	require.NotNil(t, second.ROCAUC)
	assert.Equal(t, *first.ROCAUC, *second.ROCAUC)
	assert.Equal(t, *first.Accuracy, *second.Accuracy)
	assert.Equal(t, *first.F1, *second.F1)
}

func TestEvaluateSingleClassTestSlice(t *testing.T) {
	// The most recent 20% of rows are all class 0, so the test slice
	// holds one class and ROC-AUC is undefined.
	prepared := makePrepared(150, func(i int) float64 {
		if i < 120 {
			return float64(i % 2)
		}
		return 0
	})
	e := NewEvaluator(sweepConfig(100), nil, slog.Default())

	result, err := e.Evaluate(prepared, Window(6))
	require.NoError(t, err)
	assert.True(t, result.Sufficient)
	assert.Nil(t, result.ROCAUC)
	assert.NotNil(t, result.Accuracy)
	assert.NotNil(t, result.F1)
}

func TestEvaluateTrainOnlyScalingLeavesDataUntouched(t *testing.T) {
	prepared := makePrepared(200, alternating)
	original := prepared.Rows[0].Features[0]

	cfg := sweepConfig(50)
	cfg.TrainOnlyScaling = true
	e := NewEvaluator(cfg, nil, slog.Default())

	_, err := e.Evaluate(prepared, Window(12))
	require.NoError(t, err)
	assert.Equal(t, original, prepared.Rows[0].Features[0])
}

func TestEvaluateEmptyPrepared(t *testing.T) {
	e := NewEvaluator(sweepConfig(10), nil, slog.Default())
	_, err := e.Evaluate(&features.Prepared{Name: "empty.csv"}, Window(3))
	assert.Error(t, err)
}
