package features

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "features.json")
	content := `{
		"abc.csv": ["mom_10", "vol_20"],
		"def.csv": ["rsi_14"]
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	store, err := LoadStore(path)
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len())

	feats, ok := store.Features("abc.csv")
	require.True(t, ok)
	assert.Equal(t, []string{"mom_10", "vol_20"}, feats)

	_, ok = store.Features("unknown.csv")
	assert.False(t, ok)
}

func TestLoadStoreMissingFile(t *testing.T) {
	_, err := LoadStore(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestLoadStoreInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "features.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, err := LoadStore(path)
	assert.Error(t, err)
}
