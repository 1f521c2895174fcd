package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"winsweep/internal/config"
	"winsweep/internal/sweep"
)

const (
	// BestWindowsFile is the best-per-dataset table file name.
	BestWindowsFile = "best_windows.csv"
	// AllMetricsFile is the full per-attempt metrics table file name.
	AllMetricsFile = "all_window_metrics.csv"

	metricPrecision = 6
)

// Writer persists sweep result tables as delimited text files
type Writer struct {
	dir    string
	cfg    config.DataConfig
	logger *slog.Logger
}

// NewWriter creates a result writer targeting the given directory
func NewWriter(dir string, cfg config.DataConfig, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{dir: dir, cfg: cfg, logger: logger}
}

// WriteBestWindows writes the best-window table, one row per processed
// dataset. Absent values render as empty fields.
func (w *Writer) WriteBestWindows(results []sweep.BestResult) (string, error) {
	headers := []string{"Dataset", "Best_Window", "Best_ROC_AUC", "Best_Accuracy", "Best_F1_Score"}
	records := make([][]string, 0, len(results))
	for _, r := range results {
		records = append(records, []string{
			r.Dataset,
			optionalString(r.Window),
			w.formatMetric(r.ROCAUC),
			w.formatMetric(r.Accuracy),
			w.formatMetric(r.F1),
		})
	}
	return w.writeTable(BestWindowsFile, headers, records)
}

// WriteAllMetrics writes the full metrics table, one row per
// (dataset, window) attempt including insufficient-data attempts.
func (w *Writer) WriteAllMetrics(metrics []sweep.WindowMetric) (string, error) {
	headers := []string{"Dataset", "Window", "ROC_AUC", "Accuracy", "F1_Score"}
	records := make([][]string, 0, len(metrics))
	for _, m := range metrics {
		records = append(records, []string{
			m.Dataset,
			m.Window,
			w.formatMetric(m.ROCAUC),
			w.formatMetric(m.Accuracy),
			w.formatMetric(m.F1),
		})
	}
	return w.writeTable(AllMetricsFile, headers, records)
}

// writeTable writes one delimited table into the target directory
func (w *Writer) writeTable(fileName string, headers []string, records [][]string) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(w.dir, fileName)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	writer.Comma = rune(w.cfg.Delimiter[0])

	if err := writer.Write(headers); err != nil {
		return "", fmt.Errorf("failed to write headers: %w", err)
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("failed to write record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("failed to flush %s: %w", path, err)
	}

	w.logger.Info("wrote result table",
		slog.String("file", path),
		slog.Int("rows", len(records)),
	)

	return path, nil
}

// formatMetric renders an optional metric under the configured decimal
// separator; absent metrics become empty fields
func (w *Writer) formatMetric(v *float64) string {
	if v == nil {
		return ""
	}
	s := strconv.FormatFloat(*v, 'f', metricPrecision, 64)
	if w.cfg.Decimal != "." {
		s = strings.Replace(s, ".", w.cfg.Decimal, 1)
	}
	return s
}

func optionalString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
