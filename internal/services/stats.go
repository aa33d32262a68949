package services

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/dmitrijs2005/nutrikeeper/internal/common"
	"github.com/dmitrijs2005/nutrikeeper/internal/logging"
	"github.com/dmitrijs2005/nutrikeeper/internal/models"
	"github.com/dmitrijs2005/nutrikeeper/internal/repositories/consumptions"
	"github.com/dmitrijs2005/nutrikeeper/internal/timex"
	"github.com/shopspring/decimal"
)

// StatsService computes aggregates over the consumption ledger. Nothing it
// returns is persisted. Days are calendar days in the configured location.
type StatsService struct {
	ledger consumptions.Repository
	clock  timex.Clock
	loc    *time.Location
	log    logging.Logger
}

func NewStatsService(ledger consumptions.Repository, opts Options) *StatsService {
	opts = opts.withDefaults()
	return &StatsService{
		ledger: ledger,
		clock:  opts.Clock,
		loc:    opts.Location,
		log:    opts.Logger.With("component", "stats"),
	}
}

// totals accumulates snapshot values exactly. A missing snapshot field adds
// nothing.
type totals struct {
	calories, sugar, salt, protein, carbs decimal.Decimal
	items                                 int
}

func (t *totals) add(n models.PortionNutrition) {
	t.calories = addOpt(t.calories, n.Calories)
	t.sugar = addOpt(t.sugar, n.Sugar)
	t.salt = addOpt(t.salt, n.Salt)
	t.protein = addOpt(t.protein, n.Protein)
	t.carbs = addOpt(t.carbs, n.Carbs)
	t.items++
}

func addOpt(sum decimal.Decimal, v *float64) decimal.Decimal {
	if v == nil {
		return sum
	}
	return sum.Add(decimal.NewFromFloat(*v))
}

// DailyTotals sums the snapshots consumed on the local calendar day of date.
func (s *StatsService) DailyTotals(ctx context.Context, date time.Time) (models.DailyTotals, error) {
	start, end := timex.DayBounds(date, s.loc)

	list, err := s.ledger.ListBetween(ctx, start, end)
	if err != nil {
		return models.DailyTotals{}, common.NewStorageError("daily totals", err)
	}

	var t totals
	for _, rec := range list {
		t.add(rec.Nutrition)
	}

	return models.DailyTotals{
		Date:      start,
		Calories:  t.calories.InexactFloat64(),
		Sugar:     t.sugar.InexactFloat64(),
		Salt:      t.salt.InexactFloat64(),
		Protein:   t.protein.InexactFloat64(),
		Carbs:     t.carbs.InexactFloat64(),
		ItemCount: t.items,
	}, nil
}

// PeriodStats averages the days local calendar days ending offsetDays
// before today. Averages divide by the number of days that have at least one
// consumption, so untracked days do not pull them down; with no tracked day
// every average is 0. Calories are rounded to whole numbers, the rest to one
// decimal.
func (s *StatsService) PeriodStats(ctx context.Context, days, offsetDays int) (models.PeriodStats, error) {
	if days < 1 {
		return models.PeriodStats{}, common.NewValidationError("days", fmt.Sprintf("must be at least 1, got %d", days))
	}
	if offsetDays < 0 {
		return models.PeriodStats{}, common.NewValidationError("offset days", fmt.Sprintf("must not be negative, got %d", offsetDays))
	}

	from, to := timex.Window(s.clock.Now(), s.loc, days, offsetDays)

	list, err := s.ledger.ListBetween(ctx, from, to)
	if err != nil {
		return models.PeriodStats{}, common.NewStorageError("period stats", err)
	}

	var t totals
	tracked := make(map[string]struct{})
	for _, rec := range list {
		t.add(rec.Nutrition)
		tracked[timex.DayKey(rec.ConsumedAt, s.loc)] = struct{}{}
	}

	out := models.PeriodStats{
		From:        from,
		To:          to,
		Days:        days,
		DaysTracked: len(tracked),
		TotalItems:  t.items,
	}
	if out.DaysTracked == 0 {
		return out, nil
	}

	n := decimal.NewFromInt(int64(out.DaysTracked))
	out.AvgCalories = average(t.calories, n, 0)
	out.AvgSugar = average(t.sugar, n, 1)
	out.AvgProtein = average(t.protein, n, 1)
	out.AvgCarbs = average(t.carbs, n, 1)
	return out, nil
}

func average(sum, n decimal.Decimal, places int32) float64 {
	return sum.DivRound(n, places).InexactFloat64()
}

// Trend compares the last days days with the days before them. The two
// windows are contiguous and do not overlap.
func (s *StatsService) Trend(ctx context.Context, days int) (models.TrendReport, error) {
	cur, err := s.PeriodStats(ctx, days, 0)
	if err != nil {
		return models.TrendReport{}, err
	}
	prior, err := s.PeriodStats(ctx, days, days)
	if err != nil {
		return models.TrendReport{}, err
	}

	return models.TrendReport{
		Current:  cur,
		Prior:    prior,
		Calories: ComputeTrend(cur.AvgCalories, prior.AvgCalories),
		Sugar:    ComputeTrend(cur.AvgSugar, prior.AvgSugar),
		Protein:  ComputeTrend(cur.AvgProtein, prior.AvgProtein),
		Carbs:    ComputeTrend(cur.AvgCarbs, prior.AvgCarbs),
	}, nil
}

// ComputeTrend returns the change from prior to current in whole percent,
// rounded half up. It is nil when prior is 0: the change is undefined, not
// infinite.
func ComputeTrend(current, prior float64) *int {
	if prior == 0 || math.IsNaN(prior) || math.IsNaN(current) {
		return nil
	}
	v := int(math.Floor((current-prior)/prior*100 + 0.5))
	return &v
}

// FormatTrend renders a trend as "+12%", "-5%" or "0%", and an undefined
// trend as "stable".
func FormatTrend(t *int) string {
	switch {
	case t == nil:
		return "stable"
	case *t > 0:
		return "+" + strconv.Itoa(*t) + "%"
	default:
		return strconv.Itoa(*t) + "%"
	}
}
