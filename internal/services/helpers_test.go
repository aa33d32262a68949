package services

import (
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/nutrikeeper/internal/models"
	"github.com/dmitrijs2005/nutrikeeper/internal/repositories/consumptions"
	"github.com/dmitrijs2005/nutrikeeper/internal/storage/storagetest"
	"github.com/stretchr/testify/require"
)

// now is a Monday noon, far from any DST switch.
var now = time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

type fixture struct {
	store *ScanStore
	stats *StatsService
	clock *testClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := storagetest.OpenDB(t)
	clock := &testClock{t: now}
	opts := Options{CacheSize: 8, Location: time.UTC, Clock: clock}

	store, err := NewScanStore(db, opts)
	require.NoError(t, err)

	return &fixture{
		store: store,
		stats: NewStatsService(consumptions.NewSQLiteRepository(db), opts),
		clock: clock,
	}
}

func product(barcode string, calories float64) *models.ScanResult {
	return &models.ScanResult{
		Barcode:       barcode,
		Name:          "Product " + barcode,
		Nutrition:     &models.NutritionData{Calories: models.Float(calories)},
		CaptureSource: models.CaptureBarcode,
		DataSource:    "test",
	}
}
