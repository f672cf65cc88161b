package strategyconfig

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wonny/rvscan/internal/selection"
	"github.com/wonny/rvscan/pkg/config"
)

// Load reads and validates a strategy file.
// Unknown fields fail the load so a typo never silently keeps a default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read strategy: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates strategy YAML
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode strategy: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Hash is the SHA256 of the canonical JSON form
func Hash(cfg *Config) (string, error) {
	jsonBytes, err := json.Marshal(cfg)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}

// NewSnapshot stamps the strategy identity
func NewSnapshot(cfg *Config) (*Snapshot, error) {
	hash, err := Hash(cfg)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		ConfigHash: hash,
		StrategyID: cfg.Meta.StrategyID,
		Version:    cfg.Meta.Version,
		LoadedAt:   time.Now(),
	}, nil
}

// Apply overrides the environment configuration with the non-zero strategy values
func (c *Config) Apply(dst *config.Config) {
	if c.Meta.Timezone != "" {
		dst.ScanTZ = c.Meta.Timezone
	}
	if c.Selection.ShortlistSize > 0 {
		dst.Strategy.ShortlistSize = c.Selection.ShortlistSize
	}
	if c.Bands.TrimFraction > 0 {
		dst.Strategy.TrimFraction = c.Bands.TrimFraction
	}
	if c.Bands.BandWidth > 0 {
		dst.Strategy.BandWidth = c.Bands.BandWidth
	}
	if c.Bands.MinWeeks > 0 {
		dst.Strategy.MinObservations = c.Bands.MinWeeks
	}
	if c.Bands.HistoryYears > 0 {
		dst.Fetch.HistoryYears = c.Bands.HistoryYears
	}
}

// Screener overrides the screening rules that are set in the file
func (c *Config) Screener(base selection.ScreenerConfig) selection.ScreenerConfig {
	if c.Selection.ExcludeNegative != nil {
		base.ExcludeNegative = *c.Selection.ExcludeNegative
	}
	if c.Selection.RequirePrice != nil {
		base.RequirePrice = *c.Selection.RequirePrice
	}
	return base
}
