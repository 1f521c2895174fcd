package dataset

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"winsweep/internal/config"
)

// dateLayouts are the layouts tried, in order, when coercing date cells.
// Unparseable dates mark the row date-invalid; it is dropped later with
// the missing-value rows.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
	"2006/01/02",
	"02-01-2006",
}

// Loader reads raw dataset files using the configured delimited-text
// convention. Excel workbooks (.xlsx) are accepted alongside text files.
type Loader struct {
	cfg    config.DataConfig
	logger *slog.Logger
}

// NewLoader creates a dataset loader
func NewLoader(cfg config.DataConfig, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{cfg: cfg, logger: logger}
}

// Load reads a single dataset file into memory
func (l *Loader) Load(path string) (*Dataset, error) {
	var (
		header []string
		rows   [][]string
		err    error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		header, rows, err = l.readExcel(path)
	default:
		header, rows, err = l.readDelimited(path)
	}
	if err != nil {
		return nil, err
	}

	return l.buildDataset(filepath.Base(path), header, rows)
}

// readDelimited reads a delimited text file into a header and data rows
func (l *Loader) readDelimited(path string) ([]string, [][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open dataset file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = rune(l.cfg.Delimiter[0])
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read delimited file %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("dataset file %s is empty", path)
	}

	return records[0], records[1:], nil
}

// readExcel reads the first sheet of a workbook that carries the
// required columns in its header row
func (l *Loader) readExcel(path string) ([]string, [][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) == 0 {
			continue
		}
		if l.headerHasRequiredColumns(rows[0]) {
			l.logger.Debug("found dataset sheet",
				slog.String("file", path),
				slog.String("sheet", sheet),
			)
			return rows[0], rows[1:], nil
		}
	}

	return nil, nil, fmt.Errorf("no sheet in %s carries columns %q, %q and %q",
		path, l.cfg.DateColumn, l.cfg.SymbolColumn, l.cfg.PriceColumn)
}

// headerHasRequiredColumns reports whether a header row carries the
// date, symbol and price columns
func (l *Loader) headerHasRequiredColumns(header []string) bool {
	found := 0
	for _, cell := range header {
		switch strings.TrimSpace(cell) {
		case l.cfg.DateColumn, l.cfg.SymbolColumn, l.cfg.PriceColumn:
			found++
		}
	}
	return found >= 3
}

// buildDataset converts header and raw string rows into a Dataset
func (l *Loader) buildDataset(name string, header []string, rows [][]string) (*Dataset, error) {
	dateIdx, symbolIdx, priceIdx := -1, -1, -1
	var featureColumns []string
	featureIdx := make(map[int]string)

	for i, col := range header {
		col = strings.TrimSpace(col)
		switch col {
		case l.cfg.DateColumn:
			dateIdx = i
		case l.cfg.SymbolColumn:
			symbolIdx = i
		case l.cfg.PriceColumn:
			priceIdx = i
		default:
			featureColumns = append(featureColumns, col)
			featureIdx[i] = col
		}
	}

	if dateIdx < 0 || symbolIdx < 0 || priceIdx < 0 {
		return nil, fmt.Errorf("dataset %s is missing required columns (need %q, %q, %q)",
			name, l.cfg.DateColumn, l.cfg.SymbolColumn, l.cfg.PriceColumn)
	}

	ds := &Dataset{
		Name:           name,
		FeatureColumns: featureColumns,
		Records:        make([]Record, 0, len(rows)),
	}

	badDates := 0
	for _, row := range rows {
		rec := Record{Features: make(map[string]float64, len(featureColumns))}

		if symbolIdx < len(row) {
			rec.Symbol = strings.TrimSpace(row[symbolIdx])
		}
		if dateIdx < len(row) {
			if date, ok := parseDate(row[dateIdx]); ok {
				rec.Date = date
				rec.DateValid = true
			}
		}
		if !rec.DateValid {
			badDates++
		}
		if priceIdx < len(row) {
			if v, ok := l.parseFloat(row[priceIdx]); ok {
				rec.Price = v
				rec.PriceValid = true
			}
		}
		for i, col := range featureIdx {
			if i >= len(row) {
				continue
			}
			if v, ok := l.parseFloat(row[i]); ok {
				rec.Features[col] = v
			}
		}

		ds.Records = append(ds.Records, rec)
	}

	if badDates > 0 {
		l.logger.Warn("coerced unparseable dates",
			slog.String("dataset", name),
			slog.Int("rows", badDates),
		)
	}

	l.logger.Debug("loaded dataset",
		slog.String("dataset", name),
		slog.Int("rows", len(ds.Records)),
		slog.Int("feature_columns", len(featureColumns)),
	)

	return ds, nil
}

// parseFloat parses a numeric cell under the configured decimal
// separator convention. Empty and unparseable cells count as missing.
func (l *Loader) parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if l.cfg.Decimal != "." {
		s = strings.Replace(s, l.cfg.Decimal, ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseDate coerces a date cell by trying each supported layout
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DiscoverFiles lists the dataset files in a directory in name order.
// Delimited text (.csv) and Excel (.xlsx) files are considered datasets.
func DiscoverFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read data directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".csv", ".xlsx":
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files, nil
}
