// Package services holds the store objects callers work with: ScanStore (the
// product cache and the consumption ledger writes), StatsService (daily and
// period aggregates) and ProfileService (filter settings).
//
// Each service is constructed once and injected; none keeps package-level
// state.
package services
