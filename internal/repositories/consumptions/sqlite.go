package consumptions

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/nutrikeeper/internal/dbx"
	"github.com/dmitrijs2005/nutrikeeper/internal/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Insert appends a ledger row.
func (r *SQLiteRepository) Insert(ctx context.Context, rec *models.ConsumptionRecord) error {
	snapshot, err := json.Marshal(rec.Nutrition)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	query := `INSERT INTO consumptions (id, barcode, portion_grams, nutrition, consumed_at) VALUES (?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		rec.ID, rec.Barcode, rec.PortionGrams, string(snapshot), rec.ConsumedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to insert consumption: %w", err)
	}
	return nil
}

// barcodeBatch bounds the bind variables of one IN list, well below
// SQLite's variable limit.
const barcodeBatch = 500

// ListByBarcodes loads the ledger of several products, one query per batch
// of barcodes. Records of each product are newest first.
func (r *SQLiteRepository) ListByBarcodes(ctx context.Context, barcodes []string) (map[string][]models.ConsumptionRecord, error) {
	out := make(map[string][]models.ConsumptionRecord, len(barcodes))
	for start := 0; start < len(barcodes); start += barcodeBatch {
		batch := barcodes[start:min(start+barcodeBatch, len(barcodes))]
		query := `SELECT id, barcode, portion_grams, nutrition, consumed_at FROM consumptions
			WHERE barcode IN (` + dbx.Placeholders(len(batch)) + `)
			ORDER BY consumed_at DESC, id`

		list, err := dbx.QueryAll(ctx, r.db, scanRecord, query, dbx.Args(batch)...)
		if err != nil {
			return nil, fmt.Errorf("failed to select consumptions: %w", err)
		}
		for _, rec := range list {
			out[rec.Barcode] = append(out[rec.Barcode], rec)
		}
	}
	return out, nil
}

// ListBetween returns the records of a half-open time range.
func (r *SQLiteRepository) ListBetween(ctx context.Context, from, to time.Time) ([]models.ConsumptionRecord, error) {
	query := `SELECT id, barcode, portion_grams, nutrition, consumed_at FROM consumptions
		WHERE consumed_at >= ? AND consumed_at < ?
		ORDER BY consumed_at, id`

	list, err := dbx.QueryAll(ctx, r.db, scanRecord, query, from.UnixNano(), to.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("failed to select consumptions: %w", err)
	}
	return list, nil
}

// DeleteAll empties the ledger.
func (r *SQLiteRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM consumptions`); err != nil {
		return fmt.Errorf("failed to delete consumptions: %w", err)
	}
	return nil
}

func scanRecord(rows *sql.Rows) (models.ConsumptionRecord, error) {
	var (
		rec        models.ConsumptionRecord
		snapshot   string
		consumedAt int64
	)
	if err := rows.Scan(&rec.ID, &rec.Barcode, &rec.PortionGrams, &snapshot, &consumedAt); err != nil {
		return models.ConsumptionRecord{}, err
	}
	if err := json.Unmarshal([]byte(snapshot), &rec.Nutrition); err != nil {
		return models.ConsumptionRecord{}, fmt.Errorf("decode snapshot of %s: %w", rec.ID, err)
	}
	rec.ConsumedAt = time.Unix(0, consumedAt)
	return rec, nil
}
