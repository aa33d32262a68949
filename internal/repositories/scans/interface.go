package scans

import (
	"context"
	"time"

	"github.com/dmitrijs2005/nutrikeeper/internal/models"
)

// Repository describes the persistence operations on cached scans.
type Repository interface {
	// Upsert inserts a scan or replaces the product facts of an existing one.
	// The first ScannedAt is kept; LastScannedAt is set to now.
	Upsert(ctx context.Context, scan *models.ScanResult, now time.Time) error

	// GetByBarcode returns the scan without consumptions, or
	// common.ErrorNotFound.
	GetByBarcode(ctx context.Context, barcode string) (*models.ScanResult, error)

	// UpdateNutrition overwrites the stored nutrition object. It reports
	// false when no scan has that barcode.
	UpdateNutrition(ctx context.Context, barcode string, n *models.NutritionData) (bool, error)

	// List returns scans ordered by LastScannedAt, newest first. For
	// HistoryToday only scans with a consumption in [dayStart, dayEnd) are
	// returned; the bounds are ignored by the other filters.
	List(ctx context.Context, filter models.HistoryFilter, dayStart, dayEnd time.Time) ([]models.ScanResult, error)

	// DeleteAll removes every scan. Consumptions must be removed first.
	DeleteAll(ctx context.Context) error
}
