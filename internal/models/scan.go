package models

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/nutrikeeper/internal/cryptox"
	"github.com/google/uuid"
)

// CaptureSource tells how a product entered the cache.
type CaptureSource string

const (
	CaptureBarcode CaptureSource = "barcode"
	CapturePhoto   CaptureSource = "photo"
)

// Prefixes of synthesized barcodes for entries without a real product code.
const (
	PhotoPrefix  = "photo_"
	ManualPrefix = "manual_"
)

var ErrEmptyBarcode = errors.New("barcode must not be empty")

// ScanResult is a cached product record keyed by Barcode.
type ScanResult struct {
	Barcode     string
	Name        string
	Brand       string
	Ingredients string
	Summary     string

	// Nutrition is nil until per-100g facts are known.
	Nutrition *NutritionData

	// Allergens and Traces are normalized codes (see NormalizeCodes).
	Allergens []string
	Traces    []string

	DataSource    string
	CaptureSource CaptureSource
	PhotoRef      string

	// ScannedAt is the time of the first scan and survives re-saves.
	ScannedAt time.Time
	// LastScannedAt is maintained by the store and drives history ordering.
	LastScannedAt time.Time

	// Consumptions is read-only on ScanResult: most recent first, appended
	// through the ledger, ignored by Save.
	Consumptions []ConsumptionRecord
}

// Validate checks the fields the store relies on.
func (r *ScanResult) Validate() error {
	if strings.TrimSpace(r.Barcode) == "" {
		return ErrEmptyBarcode
	}
	switch r.CaptureSource {
	case "", CaptureBarcode, CapturePhoto:
	default:
		return fmt.Errorf("unknown capture source %q", r.CaptureSource)
	}
	return r.Nutrition.Validate()
}

// Clone returns a deep copy so cached values cannot be mutated by callers.
func (r *ScanResult) Clone() *ScanResult {
	if r == nil {
		return nil
	}
	c := *r
	c.Nutrition = r.Nutrition.Clone()
	c.Allergens = slices.Clone(r.Allergens)
	c.Traces = slices.Clone(r.Traces)
	if r.Consumptions != nil {
		c.Consumptions = make([]ConsumptionRecord, len(r.Consumptions))
		for i, rec := range r.Consumptions {
			c.Consumptions[i] = rec.Clone()
		}
	}
	return &c
}

// HasAllergen reports whether code is among the product's allergens. Both
// sides are compared in normalized form, so "en:Milk" matches "milk".
func (r *ScanResult) HasAllergen(code string) bool {
	return containsCode(r.Allergens, code)
}

// HasTrace reports whether code is among the product's "may contain" traces,
// compared like HasAllergen.
func (r *ScanResult) HasTrace(code string) bool {
	return containsCode(r.Traces, code)
}

func containsCode(codes []string, code string) bool {
	want := NormalizeCode(code)
	if want == "" {
		return false
	}
	return slices.ContainsFunc(codes, func(c string) bool { return NormalizeCode(c) == want })
}

// PhotoScanID derives the cache key for a photo-only entry from the image
// bytes.
func PhotoScanID(photo []byte) string {
	return PhotoPrefix + cryptox.Digest(photo)
}

// ManualScanID returns a fresh key for a manually logged food.
func ManualScanID() string {
	return ManualPrefix + uuid.NewString()
}

// IsSynthetic reports whether barcode was generated rather than read from a
// product.
func IsSynthetic(barcode string) bool {
	return strings.HasPrefix(barcode, PhotoPrefix) || strings.HasPrefix(barcode, ManualPrefix)
}

// NormalizeCode lowercases a tag and drops a language prefix, so "en:Milk"
// and "milk" compare equal.
func NormalizeCode(code string) string {
	c := strings.ToLower(strings.TrimSpace(code))
	if i := strings.IndexByte(c, ':'); i >= 0 && i <= 3 {
		c = c[i+1:]
	}
	return strings.TrimSpace(c)
}

// NormalizeCodes normalizes, de-duplicates and sorts a code set. Empty
// entries are dropped and a nil slice is returned for an empty set.
func NormalizeCodes(codes []string) []string {
	var out []string
	for _, c := range codes {
		if n := NormalizeCode(c); n != "" {
			out = append(out, n)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// HistoryFilter selects which cached scans the history view lists.
type HistoryFilter string

const (
	HistoryAll      HistoryFilter = "all"
	HistoryConsumed HistoryFilter = "consumed"
	HistoryToday    HistoryFilter = "today"
)

// ParseHistoryFilter maps user input to a filter; empty means all.
func ParseHistoryFilter(s string) (HistoryFilter, error) {
	switch f := HistoryFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return HistoryAll, nil
	case HistoryAll, HistoryConsumed, HistoryToday:
		return f, nil
	}
	return "", fmt.Errorf("unknown history filter %q", s)
}
