package features

import (
	"encoding/json"
	"fmt"
	"os"
)

// Store holds the externally selected feature lists, keyed by dataset
// file name. It is loaded once before the sweep; failure to load it is
// the only hard-stop condition of a run.
type Store struct {
	features map[string][]string
}

// LoadStore reads a feature store from a JSON file mapping dataset file
// names to ordered feature name lists.
func LoadStore(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read feature store %s: %w", path, err)
	}

	var features map[string][]string
	if err := json.Unmarshal(data, &features); err != nil {
		return nil, fmt.Errorf("decode feature store %s: %w", path, err)
	}

	return &Store{features: features}, nil
}

// Features returns the selected feature list for a dataset and whether
// the dataset has an entry at all.
func (s *Store) Features(dataset string) ([]string, bool) {
	feats, ok := s.features[dataset]
	return feats, ok
}

// Len returns the number of datasets with a feature selection
func (s *Store) Len() int {
	return len(s.features)
}
