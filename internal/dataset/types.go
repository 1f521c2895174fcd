package dataset

import (
	"time"
)

// Record represents a single (instrument, date) observation
type Record struct {
	Symbol string    `json:"symbol"`
	Date   time.Time `json:"date"`
	Price  float64   `json:"price"`

	// DateValid and PriceValid report whether the respective cell was
	// present and parseable; invalid cells behave like missing values.
	DateValid  bool `json:"date_valid"`
	PriceValid bool `json:"price_valid"`

	// Features maps feature column name to value. A missing key means
	// the cell was empty or unparseable.
	Features map[string]float64 `json:"features"`
}

// Feature returns the named feature value and whether it is present
func (r Record) Feature(name string) (float64, bool) {
	v, ok := r.Features[name]
	return v, ok
}

// Dataset is one raw dataset file
type Dataset struct {
	// Name identifies the dataset; it is the base name of the source
	// file and the key used in the feature store.
	Name string `json:"name"`

	// FeatureColumns lists the feature-capable columns present in the
	// file, in header order. Date, symbol and price columns excluded.
	FeatureColumns []string `json:"feature_columns"`

	Records []Record `json:"records"`
}

// HasColumn reports whether the dataset carries the named feature column
func (d *Dataset) HasColumn(name string) bool {
	for _, c := range d.FeatureColumns {
		if c == name {
			return true
		}
	}
	return false
}
