// Package config loads the YAML configuration surface describing an
// encryption/PIR deployment: ring parameters, error distribution,
// security posture, and cuckoo-table shape.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/apple/swift-homomorphic-encryption-sub002/pir/cuckoo"
	"github.com/apple/swift-homomorphic-encryption-sub002/pir/keyword"
	"github.com/apple/swift-homomorphic-encryption-sub002/rlwe"
)

// Encryption mirrors rlwe.EncryptionParameters' constructor arguments in
// a YAML-friendly shape.
type Encryption struct {
	PolyDegree        int      `yaml:"polyDegree"`
	PlaintextModulus  uint64   `yaml:"plaintextModulus"`
	CoefficientModuli []uint64 `yaml:"coefficientModuli"`
	ErrorStdDev       string   `yaml:"errorStdDev"`
	SecurityLevel     string   `yaml:"securityLevel"`
}

// Cuckoo mirrors cuckoo.Config.
type Cuckoo struct {
	HashFunctionCount       int     `yaml:"hashFunctionCount"`
	MaxEvictionCount        int     `yaml:"maxEvictionCount"`
	MaxSerializedBucketSize int     `yaml:"maxSerializedBucketSize"`
	SlotCount               int     `yaml:"slotCount"`
	BucketCountPolicy       string  `yaml:"bucketCountPolicy"` // "allowExpansion" or "fixedSize"
	ExpansionFactor         float64 `yaml:"expansionFactor"`
	TargetLoadFactor        float64 `yaml:"targetLoadFactor"`
	FixedBucketCount        int     `yaml:"fixedBucketCount"`
}

// PIR mirrors keyword.PirConfig.
type PIR struct {
	DimensionCount   int    `yaml:"dimensionCount"`
	BatchSize        int    `yaml:"batchSize"`
	UnevenDimensions bool   `yaml:"unevenDimensions"`
	KeyCompression   string `yaml:"keyCompression"` // "none", "hybrid", "max"
	EntrySize        int    `yaml:"entrySize"`
}

// Config is the top-level deployment configuration (spec §6).
type Config struct {
	Encryption Encryption `yaml:"encryption"`
	Cuckoo     Cuckoo     `yaml:"cuckoo"`
	PIR        PIR        `yaml:"pir"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return &c, nil
}

// EncryptionParameters builds an rlwe.EncryptionParameters from the
// configuration's Encryption section.
func (c *Config) EncryptionParameters() (*rlwe.EncryptionParameters, error) {
	errStd, err := parseErrorStdDev(c.Encryption.ErrorStdDev)
	if err != nil {
		return nil, err
	}
	sec, err := parseSecurityLevel(c.Encryption.SecurityLevel)
	if err != nil {
		return nil, err
	}
	return rlwe.NewEncryptionParameters(
		c.Encryption.PolyDegree,
		c.Encryption.PlaintextModulus,
		c.Encryption.CoefficientModuli,
		errStd,
		sec,
	)
}

// PirConfig builds a keyword.PirConfig from the configuration's PIR
// section.
func (c *Config) PirConfig() (keyword.PirConfig, error) {
	compression, err := parseKeyCompression(c.PIR.KeyCompression)
	if err != nil {
		return keyword.PirConfig{}, err
	}
	return keyword.PirConfig{
		DimensionCount:   c.PIR.DimensionCount,
		BatchSize:        c.PIR.BatchSize,
		UnevenDimensions: c.PIR.UnevenDimensions,
		KeyCompression:   compression,
		EntrySize:        c.PIR.EntrySize,
	}, nil
}

// CuckooConfig builds a cuckoo.Config from the configuration's Cuckoo
// section.
func (c *Config) CuckooConfig() (cuckoo.Config, error) {
	var policy cuckoo.BucketCountPolicy
	switch c.Cuckoo.BucketCountPolicy {
	case "", "allowExpansion":
		policy = cuckoo.AllowExpansion{
			ExpansionFactor:  c.Cuckoo.ExpansionFactor,
			TargetLoadFactor: c.Cuckoo.TargetLoadFactor,
		}
	case "fixedSize":
		policy = cuckoo.FixedSize{Count: c.Cuckoo.FixedBucketCount}
	default:
		return cuckoo.Config{}, fmt.Errorf("config: unknown bucketCountPolicy %q", c.Cuckoo.BucketCountPolicy)
	}
	return cuckoo.Config{
		HashFunctionCount:       c.Cuckoo.HashFunctionCount,
		MaxEvictionCount:        c.Cuckoo.MaxEvictionCount,
		MaxSerializedBucketSize: c.Cuckoo.MaxSerializedBucketSize,
		SlotCount:               c.Cuckoo.SlotCount,
		BucketCount:             policy,
	}, nil
}

func parseErrorStdDev(s string) (rlwe.ErrorStdDev, error) {
	switch s {
	case "", "stdDev32":
		return rlwe.StdDev32, nil
	default:
		return 0, fmt.Errorf("config: unknown errorStdDev %q", s)
	}
}

func parseSecurityLevel(s string) (rlwe.SecurityLevel, error) {
	switch s {
	case "unchecked":
		return rlwe.SecurityUnchecked, nil
	case "", "quantum128":
		return rlwe.SecurityQuantum128, nil
	default:
		return 0, fmt.Errorf("config: unknown securityLevel %q", s)
	}
}

func parseKeyCompression(s string) (rlwe.KeyCompressionStrategy, error) {
	switch s {
	case "", "none":
		return rlwe.KeyCompressionNone, nil
	case "hybrid":
		return rlwe.KeyCompressionHybrid, nil
	case "max":
		return rlwe.KeyCompressionMax, nil
	default:
		return 0, fmt.Errorf("config: unknown keyCompression %q", s)
	}
}
