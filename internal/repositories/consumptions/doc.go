// Package consumptions is the append-only consumption ledger.
//
// Each row records a portion of a cached product (foreign key to
// scans.barcode) together with the nutrition snapshot computed when it was
// logged, stored as JSON. Rows are never updated; DeleteAll exists only for
// the full reset of the store.
package consumptions
