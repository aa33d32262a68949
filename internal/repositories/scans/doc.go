// Package scans persists cached product records, one row per barcode.
//
// # Data Model
//
// Product facts live in plain columns; the per-100g nutrition object and the
// allergen/trace code sets are stored as JSON text. A NULL nutrition column
// means "no nutrition known", which keeps absent values distinct from zero.
// Timestamps are unix nanoseconds.
//
// Consumption records are not stored here; see package consumptions. Upsert
// therefore never touches a product's ledger.
//
// Typical Usage
//
//	repo := scans.NewSQLiteRepository(db)
//	_ = repo.Upsert(ctx, scan, time.Now())
//	one, err := repo.GetByBarcode(ctx, "3017620422003")
//	list, _ := repo.List(ctx, models.HistoryConsumed, from, to)
package scans
