package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/nutrikeeper/internal/common"
	"github.com/dmitrijs2005/nutrikeeper/internal/dbx"
	"github.com/dmitrijs2005/nutrikeeper/internal/logging"
	"github.com/dmitrijs2005/nutrikeeper/internal/models"
	"github.com/dmitrijs2005/nutrikeeper/internal/repositories/consumptions"
	"github.com/dmitrijs2005/nutrikeeper/internal/repositories/scans"
	"github.com/dmitrijs2005/nutrikeeper/internal/timex"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/moby/locker"
)

// ScanStore is the product cache and the write side of the consumption
// ledger.
//
// Writes for one barcode are serialized and each runs in a single
// transaction. Get is served from an LRU of fully loaded records; a hit
// takes no lock, a miss loads under the barcode's lock so it cannot cache a
// record a writer is about to replace. Writers drop the cached entry after
// commit.
type ScanStore struct {
	db     *sql.DB
	ledger consumptions.Repository

	cache *lru.Cache[string, *models.ScanResult]
	locks *locker.Locker

	// gen is bumped by Clear; loads that started under an older generation
	// are not cached. clearMu orders the bump and purge against cache fills.
	gen     atomic.Uint64
	clearMu sync.RWMutex

	clock timex.Clock
	loc   *time.Location
	log   logging.Logger
	newID func() string
}

// NewScanStore builds a store over a migrated database.
func NewScanStore(db *sql.DB, opts Options) (*ScanStore, error) {
	opts = opts.withDefaults()
	cache, err := lru.New[string, *models.ScanResult](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create scan cache: %w", err)
	}
	return &ScanStore{
		db:     db,
		ledger: consumptions.NewSQLiteRepository(db),
		cache:  cache,
		locks:  locker.New(),
		clock:  opts.Clock,
		loc:    opts.Location,
		log:    opts.Logger.With("component", "scanstore"),
		newID:  uuid.NewString,
	}, nil
}

// Get returns the cached product with its consumptions, most recent first.
// An unknown barcode yields nil and no error.
func (s *ScanStore) Get(ctx context.Context, barcode string) (*models.ScanResult, error) {
	if v, ok := s.cache.Get(barcode); ok {
		return v.Clone(), nil
	}

	unlock := s.lock(barcode)
	defer unlock()

	if v, ok := s.cache.Get(barcode); ok {
		return v.Clone(), nil
	}

	gen := s.gen.Load()
	scan, err := s.load(ctx, barcode)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, common.NewStorageError("get", err)
	}

	s.clearMu.RLock()
	if s.gen.Load() == gen {
		s.cache.Add(barcode, scan)
	}
	s.clearMu.RUnlock()

	return scan.Clone(), nil
}

// lock serializes work on one barcode and returns the matching unlock.
func (s *ScanStore) lock(barcode string) func() {
	s.locks.Lock(barcode)
	return func() { _ = s.locks.Unlock(barcode) }
}

// load reads the scan row and its ledger in one transaction so a concurrent
// Clear cannot split them.
func (s *ScanStore) load(ctx context.Context, barcode string) (*models.ScanResult, error) {
	var scan *models.ScanResult
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		scan, err = scans.NewSQLiteRepository(tx).GetByBarcode(ctx, barcode)
		if err != nil {
			return err
		}
		byCode, err := consumptions.NewSQLiteRepository(tx).ListByBarcodes(ctx, []string{barcode})
		if err != nil {
			return err
		}
		scan.Consumptions = byCode[barcode]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return scan, nil
}

// Save inserts or updates the product facts of scan. The first ScannedAt is
// kept, LastScannedAt is set to now and existing consumptions are untouched;
// scan.Consumptions is ignored.
func (s *ScanStore) Save(ctx context.Context, scan *models.ScanResult) error {
	if scan == nil {
		return common.NewValidationError("scan", "must not be nil")
	}
	if err := scan.Validate(); err != nil {
		return common.NewValidationError("scan", err.Error())
	}

	in := scan.Clone()
	in.Allergens = models.NormalizeCodes(in.Allergens)
	in.Traces = models.NormalizeCodes(in.Traces)
	in.Consumptions = nil

	unlock := s.lock(in.Barcode)
	defer unlock()

	now := s.clock.Now()
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return scans.NewSQLiteRepository(tx).Upsert(ctx, in, now)
	})
	if err != nil {
		return common.NewStorageError("save", err)
	}
	s.cache.Remove(in.Barcode)

	s.log.Debug(ctx, "scan saved", "barcode", in.Barcode)
	return nil
}

// UpdateNutrition merges the non-nil fields of patch into the stored
// per-100g values and marks them as user edited. Fields absent from patch
// keep their value. An unknown barcode is a no-op.
func (s *ScanStore) UpdateNutrition(ctx context.Context, barcode string, patch models.NutritionData) error {
	if err := patch.Validate(); err != nil {
		return common.NewValidationError("nutrition", err.Error())
	}

	unlock := s.lock(barcode)
	defer unlock()

	found := true
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := scans.NewSQLiteRepository(tx)
		scan, err := repo.GetByBarcode(ctx, barcode)
		if errors.Is(err, common.ErrorNotFound) {
			found = false
			return nil
		}
		if err != nil {
			return err
		}

		merged := scan.Nutrition.Merge(patch)
		merged.IsUserEdited = true

		_, err = repo.UpdateNutrition(ctx, barcode, merged)
		return err
	})
	if err != nil {
		return common.NewStorageError("update nutrition", err)
	}
	if !found {
		s.log.Debug(ctx, "nutrition update for unknown barcode ignored", "barcode", barcode)
		return nil
	}
	s.cache.Remove(barcode)
	return nil
}

// AddConsumption appends a ledger entry for portionGrams of the product.
// The snapshot is computed from the nutrition stored at this moment and is
// never recomputed. An unknown barcode returns common.ErrorNotFound.
func (s *ScanStore) AddConsumption(ctx context.Context, barcode string, portionGrams float64) (*models.ConsumptionRecord, error) {
	if math.IsNaN(portionGrams) || math.IsInf(portionGrams, 0) || portionGrams <= 0 {
		return nil, common.NewValidationError("portion grams", fmt.Sprintf("must be a positive number, got %v", portionGrams))
	}

	unlock := s.lock(barcode)
	defer unlock()

	var rec *models.ConsumptionRecord
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		scan, err := scans.NewSQLiteRepository(tx).GetByBarcode(ctx, barcode)
		if err != nil {
			return err
		}

		rec = &models.ConsumptionRecord{
			ID:           s.newID(),
			Barcode:      barcode,
			PortionGrams: portionGrams,
			Nutrition:    scan.Nutrition.Scale(portionGrams),
			ConsumedAt:   s.clock.Now(),
		}
		if err := rec.Nutrition.Validate(); err != nil {
			return common.NewValidationError("portion grams", err.Error())
		}
		return consumptions.NewSQLiteRepository(tx).Insert(ctx, rec)
	})
	if errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("add consumption for %s: %w", barcode, common.ErrorNotFound)
	}
	if errors.Is(err, common.ErrValidation) {
		return nil, err
	}
	if err != nil {
		return nil, common.NewStorageError("add consumption", err)
	}
	s.cache.Remove(barcode)

	s.log.Info(ctx, "consumption logged", "barcode", barcode, "grams", portionGrams, "id", rec.ID)
	return rec, nil
}

// Consumptions returns the ledger entries of one product, most recent first.
func (s *ScanStore) Consumptions(ctx context.Context, barcode string) ([]models.ConsumptionRecord, error) {
	byCode, err := s.ledger.ListByBarcodes(ctx, []string{barcode})
	if err != nil {
		return nil, common.NewStorageError("list consumptions", err)
	}
	return byCode[barcode], nil
}

// GetHistoryFiltered lists cached products, most recently scanned first.
// HistoryConsumed keeps products with any consumption, HistoryToday those
// consumed during the current local calendar day.
func (s *ScanStore) GetHistoryFiltered(ctx context.Context, filter models.HistoryFilter) ([]models.ScanResult, error) {
	switch filter {
	case "":
		filter = models.HistoryAll
	case models.HistoryAll, models.HistoryConsumed, models.HistoryToday:
	default:
		return nil, common.NewValidationError("history filter", fmt.Sprintf("unknown value %q", filter))
	}

	dayStart, dayEnd := timex.DayBounds(s.clock.Now(), s.loc)

	var list []models.ScanResult
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		list, err = scans.NewSQLiteRepository(tx).List(ctx, filter, dayStart, dayEnd)
		if err != nil || len(list) == 0 {
			return err
		}

		codes := make([]string, len(list))
		for i := range list {
			codes[i] = list[i].Barcode
		}
		byCode, err := consumptions.NewSQLiteRepository(tx).ListByBarcodes(ctx, codes)
		if err != nil {
			return err
		}
		for i := range list {
			list[i].Consumptions = byCode[list[i].Barcode]
		}
		return nil
	})
	if err != nil {
		return nil, common.NewStorageError("history", err)
	}
	return list, nil
}

// Clear removes every product and every consumption, then empties the
// cache.
func (s *ScanStore) Clear(ctx context.Context) error {
	s.clearMu.Lock()
	defer s.clearMu.Unlock()

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := consumptions.NewSQLiteRepository(tx).DeleteAll(ctx); err != nil {
			return err
		}
		return scans.NewSQLiteRepository(tx).DeleteAll(ctx)
	})

	s.gen.Add(1)
	s.cache.Purge()

	if err != nil {
		return common.NewStorageError("clear", err)
	}
	s.log.Info(ctx, "store cleared")
	return nil
}
