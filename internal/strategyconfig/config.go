package strategyconfig

import "time"

// Config is a strategy file overriding the scan parameters
// ⭐ SSOT: YAML strategy layout is defined here only
type Config struct {
	Meta      Meta      `yaml:"meta" json:"meta"`
	Selection Selection `yaml:"selection" json:"selection"`
	Bands     Bands     `yaml:"bands" json:"bands"`
}

// Meta identifies the strategy
type Meta struct {
	StrategyID string `yaml:"strategy_id" json:"strategy_id"`
	Version    string `yaml:"version" json:"version"`
	Timezone   string `yaml:"timezone" json:"timezone"` // schedule zone, empty = SCAN_TZ
}

// Selection S3: shortlist size and screening rules
type Selection struct {
	ShortlistSize   int   `yaml:"shortlist_size" json:"shortlist_size"`
	ExcludeNegative *bool `yaml:"exclude_negative" json:"exclude_negative,omitempty"`
	RequirePrice    *bool `yaml:"require_price" json:"require_price,omitempty"`
}

// Bands S5: weekly change fit. Zero values keep the environment defaults.
type Bands struct {
	TrimFraction float64 `yaml:"trim_fraction" json:"trim_fraction"`
	BandWidth    float64 `yaml:"band_width" json:"band_width"`
	MinWeeks     int     `yaml:"min_weeks" json:"min_weeks"`
	HistoryYears int     `yaml:"history_years" json:"history_years"`
}

// Snapshot records which strategy a run used
type Snapshot struct {
	ConfigHash string    `json:"config_hash"`
	StrategyID string    `json:"strategy_id"`
	Version    string    `json:"version"`
	LoadedAt   time.Time `json:"loaded_at"`
}
