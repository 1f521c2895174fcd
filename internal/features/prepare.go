package features

import (
	"log/slog"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"winsweep/internal/dataset"
)

// Row is one training-ready observation
type Row struct {
	Symbol string    `json:"symbol"`
	Date   time.Time `json:"date"`
	Price  float64   `json:"price"`

	// Features holds the values aligned with Prepared.Features.
	Features []float64 `json:"features"`

	// Target is 1 when the instrument's next chronological price is
	// strictly higher than Price, else 0.
	Target float64 `json:"target"`
}

// Prepared is a cleaned, labeled dataset ready for window evaluation.
// Rows are sorted by date ascending; the last chronological row of each
// instrument carries no label and is excluded.
type Prepared struct {
	Name     string   `json:"name"`
	Features []string `json:"features"`
	Rows     []Row    `json:"rows"`
}

// Empty reports whether no usable rows or features remain
func (p *Prepared) Empty() bool {
	return len(p.Rows) == 0 || len(p.Features) == 0
}

// MaxDate returns the most recent observation date
func (p *Prepared) MaxDate() time.Time {
	if len(p.Rows) == 0 {
		return time.Time{}
	}
	return p.Rows[len(p.Rows)-1].Date
}

// Preparer validates requested features against a raw dataset and
// produces a Prepared dataset
type Preparer struct {
	standardize bool
	logger      *slog.Logger
}

// NewPreparer creates a preparer. When standardize is false the caller
// is expected to scale features later (per-window, train-only).
func NewPreparer(standardize bool, logger *slog.Logger) *Preparer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Preparer{standardize: standardize, logger: logger}
}

// Prepare cleans and labels a raw dataset against the requested feature
// list. It returns the prepared dataset and the usable feature subset;
// either may be empty, which the caller must check. Scope reductions
// (missing features, dropped rows) are warnings, never failures.
func (p *Preparer) Prepare(ds *dataset.Dataset, requested []string) (*Prepared, []string) {
	valid, missing := p.intersectFeatures(ds, requested)
	if len(missing) > 0 {
		p.logger.Warn("requested features absent from dataset",
			slog.String("dataset", ds.Name),
			slog.Any("missing", missing),
		)
	}

	prepared := &Prepared{Name: ds.Name, Features: valid}
	if len(valid) == 0 {
		return prepared, valid
	}

	rows, droppedMissing, infiniteValues := p.collectRows(ds, valid)
	if droppedMissing > 0 {
		p.logger.Debug("dropped rows with missing values",
			slog.String("dataset", ds.Name),
			slog.Int("rows", droppedMissing),
		)
	}
	if infiniteValues > 0 {
		p.logger.Warn("found infinite feature values, treating as missing",
			slog.String("dataset", ds.Name),
			slog.Int("values", infiniteValues),
		)
	}
	if len(rows) == 0 {
		return prepared, valid
	}

	if p.standardize {
		standardizeColumns(rows, len(valid))
	}

	prepared.Rows = labelRows(rows)
	return prepared, valid
}

// intersectFeatures splits the requested list into features present in
// the dataset and the missing remainder, preserving requested order
func (p *Preparer) intersectFeatures(ds *dataset.Dataset, requested []string) (valid, missing []string) {
	for _, name := range requested {
		if ds.HasColumn(name) {
			valid = append(valid, name)
		} else {
			missing = append(missing, name)
		}
	}
	return valid, missing
}

// collectRows keeps the records with a valid date, a valid price and a
// complete, finite feature vector. Rows carrying infinite values are
// dropped like missing ones, but counted separately.
func (p *Preparer) collectRows(ds *dataset.Dataset, valid []string) (rows []Row, droppedMissing, infiniteValues int) {
	for _, rec := range ds.Records {
		if !rec.DateValid || !rec.PriceValid {
			droppedMissing++
			continue
		}

		values := make([]float64, len(valid))
		complete := true
		infinite := 0
		for i, name := range valid {
			v, ok := rec.Feature(name)
			if !ok {
				complete = false
				break
			}
			if math.IsInf(v, 0) {
				infinite++
			}
			values[i] = v
		}
		if !complete {
			droppedMissing++
			continue
		}
		if infinite > 0 {
			infiniteValues += infinite
			continue
		}

		rows = append(rows, Row{
			Symbol:   rec.Symbol,
			Date:     rec.Date,
			Price:    rec.Price,
			Features: values,
		})
	}
	return rows, droppedMissing, infiniteValues
}

// standardizeColumns scales every feature column to zero mean and unit
// variance over all rows. Zero-variance columns fall back to a unit
// scale so constant features become all-zero instead of NaN.
func standardizeColumns(rows []Row, numFeatures int) {
	column := make([]float64, len(rows))
	for j := 0; j < numFeatures; j++ {
		for i := range rows {
			column[i] = rows[i].Features[j]
		}
		mean, std := stat.MeanStdDev(column, nil)
		if std == 0 || math.IsNaN(std) {
			std = 1
		}
		for i := range rows {
			rows[i].Features[j] = (rows[i].Features[j] - mean) / std
		}
	}
}

// labelRows computes the next-step direction target within each symbol
// and drops each symbol's last chronological row, which has no label.
// The result is sorted by date ascending.
func labelRows(rows []Row) []Row {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date.Before(rows[j].Date)
	})

	// Indices per symbol, already in chronological order.
	bySymbol := make(map[string][]int)
	for i := range rows {
		bySymbol[rows[i].Symbol] = append(bySymbol[rows[i].Symbol], i)
	}

	keep := make([]bool, len(rows))
	for _, idxs := range bySymbol {
		for k := 0; k+1 < len(idxs); k++ {
			cur, next := idxs[k], idxs[k+1]
			if rows[next].Price > rows[cur].Price {
				rows[cur].Target = 1
			}
			keep[cur] = true
		}
	}

	labeled := make([]Row, 0, len(rows))
	for i := range rows {
		if keep[i] {
			labeled = append(labeled, rows[i])
		}
	}
	return labeled
}
