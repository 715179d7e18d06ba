package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSweepManifest(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "sweep.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadSweepManifest_AppliesVariantOverrides(t *testing.T) {
	// GIVEN a base config and two variants overriding isolation
	path := writeSweepManifest(t, `
base:
  max_cores: 1
  num_tenants: 4
  num_reqs: 10
  num_resps: 1
  req_rate: 1000
  batching: false
  isolation: NoIsolation
  distribution: Uniform
variants:
  - name: baseline
  - name: page-table
    isolation: PageTableIsolation
  - name: minos
    isolation: MpkIsolation
    policy: Minos
`)

	manifest, err := loadSweepManifest(path)
	require.NoError(t, err)
	require.Len(t, manifest.Variants, 3)

	// THEN the unmodified variant keeps the base isolation, overridden
	// variants take their own, and policy selection is threaded through
	assert.Equal(t, "NoIsolation", manifest.Variants[0].apply(manifest.Base).Isolation)
	assert.Equal(t, "PageTableIsolation", manifest.Variants[1].apply(manifest.Base).Isolation)
	assert.NotNil(t, manifest.Variants[2].schedulerPolicy())
	assert.Nil(t, manifest.Variants[0].schedulerPolicy())
}

func TestLoadSweepManifest_InvalidBaseConfig(t *testing.T) {
	path := writeSweepManifest(t, `
base:
  max_cores: 0
  num_tenants: 4
  num_reqs: 10
  num_resps: 1
  req_rate: 1000
  isolation: NoIsolation
  distribution: Uniform
variants:
  - name: only
`)

	_, err := loadSweepManifest(path)

	assert.Error(t, err)
}
