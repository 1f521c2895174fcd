package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/cheggaaa/pb"

	"winsweep/internal/dataset"
	"winsweep/internal/features"
)

// WindowMetric is one row of the full metrics table: a single
// (dataset, window) attempt. Absent metrics stay nil; the row is
// recorded even then, for audit completeness.
type WindowMetric struct {
	Dataset  string   `json:"dataset"`
	Window   string   `json:"window"`
	ROCAUC   *float64 `json:"roc_auc,omitempty"`
	Accuracy *float64 `json:"accuracy,omitempty"`
	F1       *float64 `json:"f1,omitempty"`
}

// BestResult is one row of the best-window table: the window with the
// highest ROC-AUC for a dataset, or an all-absent record when no window
// had sufficient data.
type BestResult struct {
	Dataset  string   `json:"dataset"`
	Window   *string  `json:"window,omitempty"`
	ROCAUC   *float64 `json:"roc_auc,omitempty"`
	Accuracy *float64 `json:"accuracy,omitempty"`
	F1       *float64 `json:"f1,omitempty"`
}

// Status classifies how a dataset fared in the sweep
type Status string

const (
	// StatusOK means the dataset completed every candidate window.
	StatusOK Status = "ok"
	// StatusSkipped means the dataset was left out for a recoverable
	// reason (no feature selection, no usable features or rows).
	StatusSkipped Status = "skipped"
	// StatusFailed means an unexpected failure was isolated to this
	// dataset; the sweep continued with the remaining ones.
	StatusFailed Status = "failed"
)

// Outcome records how one dataset was handled
type Outcome struct {
	Dataset string `json:"dataset"`
	Status  Status `json:"status"`
	Reason  string `json:"reason,omitempty"`
}

// Report aggregates the sweep outputs: the best-window table, the full
// metrics table and the per-dataset outcomes, in dataset-then-window
// iteration order. All three are append-only during the run.
type Report struct {
	Best     []BestResult   `json:"best"`
	Metrics  []WindowMetric `json:"metrics"`
	Outcomes []Outcome      `json:"outcomes"`
}

// Orchestrator drives the window sweep across dataset files
type Orchestrator struct {
	windows   []Window
	loader    *dataset.Loader
	store     *features.Store
	preparer  *features.Preparer
	evaluator *Evaluator
	logger    *slog.Logger

	// ShowProgress renders a console progress bar over dataset files.
	ShowProgress bool
}

// NewOrchestrator creates a sweep orchestrator
func NewOrchestrator(windows []Window, loader *dataset.Loader, store *features.Store, preparer *features.Preparer, evaluator *Evaluator, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		windows:   windows,
		loader:    loader,
		store:     store,
		preparer:  preparer,
		evaluator: evaluator,
		logger:    logger,
	}
}

// Run sweeps every candidate window over every dataset file, in
// file-listing order. Only context cancellation aborts the run; any
// failure inside one dataset is recorded and the sweep moves on.
func (o *Orchestrator) Run(ctx context.Context, files []string) (*Report, error) {
	o.logger.Info("starting window sweep",
		slog.Int("datasets", len(files)),
		slog.Int("windows", len(o.windows)),
	)

	var bar *pb.ProgressBar
	if o.ShowProgress {
		bar = pb.StartNew(len(files))
	}

	report := &Report{}
	for _, file := range files {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("sweep cancelled: %w", ctx.Err())
		default:
		}

		metrics, best, outcome := o.processDataset(file)
		report.Metrics = append(report.Metrics, metrics...)
		if outcome.Status == StatusOK {
			report.Best = append(report.Best, best)
		}
		report.Outcomes = append(report.Outcomes, outcome)

		if bar != nil {
			bar.Increment()
		}
	}
	if bar != nil {
		bar.Finish()
	}

	o.logger.Info("window sweep completed",
		slog.Int("datasets", len(files)),
		slog.Int("best_rows", len(report.Best)),
		slog.Int("metric_rows", len(report.Metrics)),
	)

	return report, nil
}

// processDataset runs the full pipeline for one dataset file. It is the
// isolation boundary: every return path is an explicit outcome, so a
// broken dataset reduces to a failed Outcome instead of stopping the
// sweep. Metric rows collected before a failure are kept.
func (o *Orchestrator) processDataset(file string) ([]WindowMetric, BestResult, Outcome) {
	name := filepath.Base(file)

	requested, ok := o.store.Features(name)
	if !ok {
		o.logger.Warn("no feature selection for dataset, skipping",
			slog.String("dataset", name),
		)
		return nil, BestResult{}, Outcome{Dataset: name, Status: StatusSkipped, Reason: "no feature selection"}
	}

	ds, err := o.loader.Load(file)
	if err != nil {
		o.logger.Error("failed to load dataset, skipping",
			slog.String("dataset", name),
			slog.String("file", file),
			slog.String("error", err.Error()),
		)
		return nil, BestResult{}, Outcome{Dataset: name, Status: StatusFailed, Reason: err.Error()}
	}

	prepared, valid := o.preparer.Prepare(ds, requested)
	if len(valid) == 0 || prepared.Empty() {
		o.logger.Warn("no valid features or rows for dataset, skipping",
			slog.String("dataset", name),
			slog.Int("valid_features", len(valid)),
			slog.Int("rows", len(prepared.Rows)),
		)
		return nil, BestResult{}, Outcome{Dataset: name, Status: StatusSkipped, Reason: "no valid features or rows"}
	}

	var metrics []WindowMetric
	best := BestResult{Dataset: name}
	bestAUC := 0.0

	for _, window := range o.windows {
		result, err := o.evaluator.Evaluate(prepared, window)
		if err != nil {
			o.logger.Error("window evaluation failed, skipping dataset",
				slog.String("dataset", name),
				slog.String("window", window.Label()),
				slog.String("error", err.Error()),
			)
			return metrics, BestResult{}, Outcome{Dataset: name, Status: StatusFailed, Reason: err.Error()}
		}

		metrics = append(metrics, WindowMetric{
			Dataset:  name,
			Window:   window.Label(),
			ROCAUC:   result.ROCAUC,
			Accuracy: result.Accuracy,
			F1:       result.F1,
		})

		o.logger.Info("window attempt",
			slog.String("dataset", name),
			slog.String("window", window.Label()),
			slog.Int("samples", result.Samples),
			slog.Bool("sufficient", result.Sufficient),
			slog.Any("roc_auc", metricValue(result.ROCAUC)),
			slog.Any("accuracy", metricValue(result.Accuracy)),
			slog.Any("f1", metricValue(result.F1)),
		)

		// Strictly greater, so an equal score never replaces an
		// earlier-found window.
		if result.ROCAUC != nil && *result.ROCAUC > bestAUC {
			bestAUC = *result.ROCAUC
			label := window.Label()
			best.Window = &label
			best.ROCAUC = result.ROCAUC
			best.Accuracy = result.Accuracy
			best.F1 = result.F1
		}
	}

	o.logger.Info("dataset sweep finished",
		slog.String("dataset", name),
		slog.Any("best_window", metricLabel(best.Window)),
		slog.Any("best_roc_auc", metricValue(best.ROCAUC)),
	)

	return metrics, best, Outcome{Dataset: name, Status: StatusOK}
}

// metricValue renders an optional metric for logging
func metricValue(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// metricLabel renders an optional window label for logging
func metricLabel(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}
