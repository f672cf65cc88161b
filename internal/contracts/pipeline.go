package contracts

// Pipeline Stage definitions (SSOT)
// Every log line and run summary uses these constants.
//
// Pipeline flow:
//   S0 → S1 → S2 → S3 → S4 → S5
//   Universe  Normalize  Rank  Score  Size  Signal

// Stage represents a pipeline stage
type Stage string

const (
	// StageUniverse S0: ticker universe
	// Location: internal/s1_universe/
	StageUniverse Stage = "S0_UNIVERSE"

	// StageNormalize S1: fetch fundamentals and normalize ratios
	// Location: internal/s0_data/
	StageNormalize Stage = "S1_NORMALIZE"

	// StageRank S2: per-metric percentiles
	// Location: internal/s2_signals/
	StageRank Stage = "S2_RANK"

	// StageScore S3: composite RV score and shortlist
	// Location: internal/selection/
	StageScore Stage = "S3_SCORE"

	// StageSize S4: equal-weight share counts
	// Location: internal/portfolio/
	StageSize Stage = "S4_SIZE"

	// StageSignal S5: weekly return band and buy/sell prices
	// Location: internal/forecast/
	StageSignal Stage = "S5_SIGNAL"
)

// String returns the stage name
func (s Stage) String() string {
	return string(s)
}

// ShortName returns abbreviated stage name (e.g., "S0", "S1")
func (s Stage) ShortName() string {
	switch s {
	case StageUniverse:
		return "S0"
	case StageNormalize:
		return "S1"
	case StageRank:
		return "S2"
	case StageScore:
		return "S3"
	case StageSize:
		return "S4"
	case StageSignal:
		return "S5"
	default:
		return "UNKNOWN"
	}
}

// Description returns a human readable description of the stage
func (s Stage) Description() string {
	switch s {
	case StageUniverse:
		return "ticker universe"
	case StageNormalize:
		return "fundamentals fetch/normalize"
	case StageRank:
		return "percentile ranking"
	case StageScore:
		return "RV score/shortlist"
	case StageSize:
		return "position sizing"
	case StageSignal:
		return "price band signals"
	default:
		return "unknown"
	}
}

// AllStages returns all pipeline stages in order
func AllStages() []Stage {
	return []Stage{
		StageUniverse,
		StageNormalize,
		StageRank,
		StageScore,
		StageSize,
		StageSignal,
	}
}

// IsValidStage checks if a stage string is valid
func IsValidStage(s string) bool {
	for _, stage := range AllStages() {
		if string(stage) == s {
			return true
		}
	}
	return false
}

// PipelineResult represents the result of a pipeline stage execution
type PipelineResult struct {
	Stage       Stage                  `json:"stage"`
	Success     bool                   `json:"success"`
	InputCount  int                    `json:"input_count"`
	OutputCount int                    `json:"output_count"`
	Duration    int64                  `json:"duration_ms"`
	Error       string                 `json:"error,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}
