package forecast

import (
	"math"
	"sort"
	"time"

	"github.com/wonny/rvscan/internal/contracts"
)

// WeeklyBar is the first and last close of one calendar week (Mon–Sun)
type WeeklyBar struct {
	Year       int
	Week       int       // ISO week number
	Start      time.Time // first trading day in the week
	End        time.Time // last trading day in the week
	StartPrice float64
	EndPrice   float64
	Days       int
}

// ResampleWeekly groups daily closes by ISO week in date order.
// Closes that are not positive finite numbers are ignored; weeks without a close do not appear.
func ResampleWeekly(bars []contracts.PriceBar) []WeeklyBar {
	sorted := make([]contracts.PriceBar, 0, len(bars))
	for _, b := range bars {
		if b.Close <= 0 || math.IsNaN(b.Close) || math.IsInf(b.Close, 0) {
			continue
		}
		sorted = append(sorted, b)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	weeks := make([]WeeklyBar, 0, len(sorted)/5+1)
	for _, b := range sorted {
		year, week := b.Date.ISOWeek()

		if n := len(weeks); n > 0 && weeks[n-1].Year == year && weeks[n-1].Week == week {
			weeks[n-1].End = b.Date
			weeks[n-1].EndPrice = b.Close
			weeks[n-1].Days++
			continue
		}

		weeks = append(weeks, WeeklyBar{
			Year:       year,
			Week:       week,
			Start:      b.Date,
			End:        b.Date,
			StartPrice: b.Close,
			EndPrice:   b.Close,
			Days:       1,
		})
	}

	return weeks
}

// PercentChange returns (start - end) / start × 100, false when undefined
func (w WeeklyBar) PercentChange() (float64, bool) {
	if w.StartPrice == 0 {
		return 0, false
	}
	c := (w.StartPrice - w.EndPrice) / w.StartPrice * 100
	if math.IsNaN(c) || math.IsInf(c, 0) {
		return 0, false
	}
	return c, true
}

// PercentChanges returns the defined weekly percent changes in week order
func PercentChanges(weeks []WeeklyBar) []float64 {
	changes := make([]float64, 0, len(weeks))
	for _, w := range weeks {
		if c, ok := w.PercentChange(); ok {
			changes = append(changes, c)
		}
	}
	return changes
}

// BasePrice is the mean start price over all weeks
func BasePrice(weeks []WeeklyBar) float64 {
	if len(weeks) == 0 {
		return 0
	}
	sum := 0.0
	for _, w := range weeks {
		sum += w.StartPrice
	}
	return sum / float64(len(weeks))
}
