package consumptions

import (
	"context"
	"time"

	"github.com/dmitrijs2005/nutrikeeper/internal/models"
)

// Repository describes the ledger operations.
type Repository interface {
	// Insert appends one record.
	Insert(ctx context.Context, rec *models.ConsumptionRecord) error

	// ListByBarcodes returns the records of the given products, grouped by
	// barcode, each group newest first.
	ListByBarcodes(ctx context.Context, barcodes []string) (map[string][]models.ConsumptionRecord, error)

	// ListBetween returns every record with from <= ConsumedAt < to, oldest
	// first.
	ListBetween(ctx context.Context, from, to time.Time) ([]models.ConsumptionRecord, error)

	// DeleteAll empties the ledger.
	DeleteAll(ctx context.Context) error
}
