package contracts

import "time"

// Universe represents the ordered ticker list handed to the fetch stage
// ⭐ SSOT: universe → collector handoff
type Universe struct {
	Date       time.Time         `json:"date"`
	Symbols    []string          `json:"symbols"`               // scanned symbols, input order
	Excluded   map[string]string `json:"excluded"`              // symbol: reason
	TotalCount int               `json:"total_count,omitempty"` // symbols read from the source
}

// Contains checks if a symbol is in the universe
func (u *Universe) Contains(symbol string) bool {
	for _, s := range u.Symbols {
		if s == symbol {
			return true
		}
	}
	return false
}

// IsExcluded checks if a symbol is excluded with reason
func (u *Universe) IsExcluded(symbol string) (bool, string) {
	reason, exists := u.Excluded[symbol]
	return exists, reason
}

// Count returns the number of symbols to scan
func (u *Universe) Count() int {
	return len(u.Symbols)
}
