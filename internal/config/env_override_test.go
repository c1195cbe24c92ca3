package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvOverrides(t *testing.T) {
	t.Run("paths", func(t *testing.T) {
		t.Setenv("SHIPDOCS_DATA_DIR", "/env/raw")
		t.Setenv("SHIPDOCS_GROUND_TRUTH_DIR", "/env/gt")
		t.Setenv("SHIPDOCS_SCHEMA_PATH", "/env/schemas.yaml")
		t.Setenv("SHIPDOCS_MANIFEST_PATH", "/env/manifest.json")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "/env/raw", cfg.DataDir)
		assert.Equal(t, "/env/gt", cfg.GroundTruthDir)
		assert.Equal(t, "/env/schemas.yaml", cfg.SchemaPath)
		assert.Equal(t, "/env/manifest.json", cfg.Split.ManifestPath)
	})

	t.Run("seed parses as int64", func(t *testing.T) {
		t.Setenv("SHIPDOCS_SEED", "123")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, int64(123), cfg.Split.Seed)
	})

	t.Run("unparseable seed keeps the configured value", func(t *testing.T) {
		t.Setenv("SHIPDOCS_SEED", "not-a-number")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, int64(42), cfg.Split.Seed)
	})

	t.Run("overrides apply over a loaded file", func(t *testing.T) {
		t.Setenv("SHIPDOCS_DATA_DIR", "/env/wins")

		path := filepath.Join(t.TempDir(), "shipdocs.yaml")
		cfg := DefaultConfig()
		cfg.DataDir = "/file/loses"
		require.NoError(t, cfg.Save(path))

		loaded, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "/env/wins", loaded.DataDir)
	})

	t.Run("empty env vars are ignored", func(t *testing.T) {
		t.Setenv("SHIPDOCS_DATA_DIR", "")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "data/raw", cfg.DataDir)
	})
}
