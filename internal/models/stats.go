package models

import "time"

// DailyTotals sums the consumption snapshots of one local calendar day.
type DailyTotals struct {
	Date      time.Time
	Calories  float64
	Sugar     float64
	Salt      float64
	Protein   float64
	Carbs     float64
	ItemCount int
}

// PeriodStats averages an N-day window over the days that have at least one
// consumption. DaysTracked == 0 means "no data", not a flat zero line.
type PeriodStats struct {
	From        time.Time
	To          time.Time
	Days        int
	AvgCalories float64
	AvgSugar    float64
	AvgProtein  float64
	AvgCarbs    float64
	DaysTracked int
	TotalItems  int
}

// HasData reports whether any day in the window was tracked.
func (p PeriodStats) HasData() bool { return p.DaysTracked > 0 }

// TrendReport compares a window with the preceding window of equal length.
// A nil trend means the change is undefined because the prior average is 0.
type TrendReport struct {
	Current  PeriodStats
	Prior    PeriodStats
	Calories *int
	Sugar    *int
	Protein  *int
	Carbs    *int
}
