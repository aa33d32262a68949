package scans

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/nutrikeeper/internal/common"
	"github.com/dmitrijs2005/nutrikeeper/internal/dbx"
	"github.com/dmitrijs2005/nutrikeeper/internal/models"
)

const selectColumns = `barcode, name, brand, ingredients, summary, nutrition, allergens, traces,
	data_source, capture_source, photo_ref, scanned_at, last_scanned_at`

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Upsert inserts the scan or, on a barcode conflict, replaces its product
// facts. scanned_at is not in the update list.
func (r *SQLiteRepository) Upsert(ctx context.Context, s *models.ScanResult, now time.Time) error {
	nutrition, err := encodeNutrition(s.Nutrition)
	if err != nil {
		return err
	}
	allergens, err := encodeCodes(s.Allergens)
	if err != nil {
		return err
	}
	traces, err := encodeCodes(s.Traces)
	if err != nil {
		return err
	}

	scannedAt := s.ScannedAt
	if scannedAt.IsZero() {
		scannedAt = now
	}
	source := s.CaptureSource
	if source == "" {
		source = models.CaptureBarcode
	}

	query := `INSERT INTO scans (barcode, name, brand, ingredients, summary, nutrition, allergens, traces,
				data_source, capture_source, photo_ref, scanned_at, last_scanned_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(barcode) DO UPDATE SET name = excluded.name,
				brand = excluded.brand,
				ingredients = excluded.ingredients,
				summary = excluded.summary,
				nutrition = excluded.nutrition,
				allergens = excluded.allergens,
				traces = excluded.traces,
				data_source = excluded.data_source,
				capture_source = excluded.capture_source,
				photo_ref = excluded.photo_ref,
				last_scanned_at = excluded.last_scanned_at
	`
	_, err = r.db.ExecContext(ctx, query,
		s.Barcode, s.Name, s.Brand, s.Ingredients, s.Summary, nutrition, allergens, traces,
		s.DataSource, string(source), s.PhotoRef, scannedAt.UnixNano(), now.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to upsert scan: %w", err)
	}
	return nil
}

// GetByBarcode returns a single scan.
func (r *SQLiteRepository) GetByBarcode(ctx context.Context, barcode string) (*models.ScanResult, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM scans WHERE barcode = ?`, barcode)

	s, err := scanRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return s, nil
}

// UpdateNutrition replaces the nutrition column of one scan.
func (r *SQLiteRepository) UpdateNutrition(ctx context.Context, barcode string, n *models.NutritionData) (bool, error) {
	nutrition, err := encodeNutrition(n)
	if err != nil {
		return false, err
	}
	res, err := r.db.ExecContext(ctx, `UPDATE scans SET nutrition = ? WHERE barcode = ?`, nutrition, barcode)
	if err != nil {
		return false, fmt.Errorf("failed to update nutrition: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return ra == 1, nil
}

// List returns the scans selected by filter, newest scan first.
func (r *SQLiteRepository) List(ctx context.Context, filter models.HistoryFilter, dayStart, dayEnd time.Time) ([]models.ScanResult, error) {
	query := `SELECT ` + selectColumns + ` FROM scans s`
	var args []any

	switch filter {
	case models.HistoryAll, "":
	case models.HistoryConsumed:
		query += ` WHERE EXISTS (SELECT 1 FROM consumptions c WHERE c.barcode = s.barcode)`
	case models.HistoryToday:
		query += ` WHERE EXISTS (SELECT 1 FROM consumptions c WHERE c.barcode = s.barcode
			AND c.consumed_at >= ? AND c.consumed_at < ?)`
		args = append(args, dayStart.UnixNano(), dayEnd.UnixNano())
	default:
		return nil, fmt.Errorf("unknown history filter %q", filter)
	}
	query += ` ORDER BY s.last_scanned_at DESC, s.barcode`

	list, err := dbx.QueryAll(ctx, r.db, func(rows *sql.Rows) (models.ScanResult, error) {
		s, err := scanRow(rows)
		if err != nil {
			return models.ScanResult{}, err
		}
		return *s, nil
	}, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select scans: %w", err)
	}
	return list, nil
}

// DeleteAll removes every scan.
func (r *SQLiteRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM scans`); err != nil {
		return fmt.Errorf("failed to delete scans: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRow(row rowScanner) (*models.ScanResult, error) {
	var (
		s                         models.ScanResult
		nutrition                 sql.NullString
		allergens, traces, source string
		scannedAt, lastScannedAt  int64
	)
	err := row.Scan(&s.Barcode, &s.Name, &s.Brand, &s.Ingredients, &s.Summary, &nutrition,
		&allergens, &traces, &s.DataSource, &source, &s.PhotoRef, &scannedAt, &lastScannedAt)
	if err != nil {
		return nil, err
	}

	if nutrition.Valid && nutrition.String != "" {
		s.Nutrition = &models.NutritionData{}
		if err := json.Unmarshal([]byte(nutrition.String), s.Nutrition); err != nil {
			return nil, fmt.Errorf("decode nutrition of %s: %w", s.Barcode, err)
		}
	}
	if err := json.Unmarshal([]byte(allergens), &s.Allergens); err != nil {
		return nil, fmt.Errorf("decode allergens of %s: %w", s.Barcode, err)
	}
	if err := json.Unmarshal([]byte(traces), &s.Traces); err != nil {
		return nil, fmt.Errorf("decode traces of %s: %w", s.Barcode, err)
	}
	if len(s.Allergens) == 0 {
		s.Allergens = nil
	}
	if len(s.Traces) == 0 {
		s.Traces = nil
	}
	s.CaptureSource = models.CaptureSource(source)
	s.ScannedAt = time.Unix(0, scannedAt)
	s.LastScannedAt = time.Unix(0, lastScannedAt)
	return &s, nil
}

func encodeNutrition(n *models.NutritionData) (sql.NullString, error) {
	if n == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(n)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encode nutrition: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func encodeCodes(codes []string) (string, error) {
	if codes == nil {
		codes = []string{}
	}
	b, err := json.Marshal(codes)
	if err != nil {
		return "", fmt.Errorf("encode codes: %w", err)
	}
	return string(b), nil
}
