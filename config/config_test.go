package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleYAML = `
encryption:
  polyDegree: 16
  plaintextModulus: 769
  coefficientModuli: [1153, 1217]
  errorStdDev: stdDev32
  securityLevel: unchecked
cuckoo:
  hashFunctionCount: 2
  maxEvictionCount: 50
  maxSerializedBucketSize: 12
  slotCount: 1
  bucketCountPolicy: allowExpansion
  expansionFactor: 1.25
  targetLoadFactor: 0.5
pir:
  dimensionCount: 2
  batchSize: 1
  unevenDimensions: false
  keyCompression: none
  entrySize: 7
`

func TestLoadAndBuild(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	params, err := cfg.EncryptionParameters()
	require.NoError(t, err)
	require.Equal(t, 16, params.N())
	require.Equal(t, uint64(769), params.PlaintextModulus())

	pirConfig, err := cfg.PirConfig()
	require.NoError(t, err)
	require.Equal(t, 2, pirConfig.DimensionCount)

	cuckooConfig, err := cfg.CuckooConfig()
	require.NoError(t, err)
	require.Equal(t, 2, cuckooConfig.HashFunctionCount)
}

func TestLoadRejectsUnknownEnum(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("encryption:\n  securityLevel: invincible\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	_, err = cfg.EncryptionParameters()
	require.Error(t, err)
}
