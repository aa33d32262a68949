// Package openfoodfacts converts an Open Food Facts product document, as
// returned by the v2 product API or found in a data dump, into a
// models.ScanResult. It does no network I/O.
package openfoodfacts

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/nutrikeeper/internal/models"
)

// DataSource is recorded on every imported scan.
const DataSource = "OpenFoodFacts"

const kJPerKcal = 4.184

// Salt is derived from sodium when only sodium is reported.
const saltPerSodium = 2.5

var (
	ErrProductNotFound = errors.New("product not found in document")
	ErrMissingCode     = errors.New("product has no code")
)

// Response is the envelope of the product API. Status is 1 or "success"
// depending on the API version; a response without a product means the code
// is unknown.
type Response struct {
	Code    string   `json:"code"`
	Status  any      `json:"status"`
	Product *Product `json:"product"`
}

// Product is the subset of an Open Food Facts record the store uses.
type Product struct {
	Code              string         `json:"code"`
	ProductName       string         `json:"product_name"`
	ProductNameEn     string         `json:"product_name_en"`
	GenericName       string         `json:"generic_name"`
	Brands            string         `json:"brands"`
	IngredientsText   string         `json:"ingredients_text"`
	IngredientsTextEn string         `json:"ingredients_text_en"`
	AllergensTags     []string       `json:"allergens_tags"`
	TracesTags        []string       `json:"traces_tags"`
	NutriscoreGrade   string         `json:"nutriscore_grade"`
	NovaGroup         any            `json:"nova_group"`
	ServingQuantity   any            `json:"serving_quantity"`
	Nutriments        map[string]any `json:"nutriments"`
}

// ParseProduct accepts either a full API response or a bare product object.
func ParseProduct(data []byte) (*models.ScanResult, error) {
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode product document: %w", err)
	}

	var p Product
	switch {
	case resp.Product != nil:
		p = *resp.Product
		if p.Code == "" {
			p.Code = resp.Code
		}
	case resp.Status != nil:
		return nil, ErrProductNotFound
	default:
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("decode product: %w", err)
		}
	}

	return p.ToScanResult()
}

// ToScanResult maps the product onto the store model. Values that are
// missing, unparsable or implausible are left unset rather than zeroed.
func (p *Product) ToScanResult() (*models.ScanResult, error) {
	code := strings.TrimSpace(p.Code)
	if code == "" {
		return nil, ErrMissingCode
	}

	r := &models.ScanResult{
		Barcode:       code,
		Name:          p.name(),
		Brand:         firstBrand(p.Brands),
		Ingredients:   firstNonEmpty(p.IngredientsText, p.IngredientsTextEn),
		Allergens:     models.NormalizeCodes(p.AllergensTags),
		Traces:        models.NormalizeCodes(p.TracesTags),
		DataSource:    DataSource,
		CaptureSource: models.CaptureBarcode,
	}
	if r.Name != p.GenericName {
		r.Summary = p.GenericName
	}
	r.Nutrition = p.nutrition()
	return r, nil
}

func (p *Product) name() string {
	return firstNonEmpty(p.ProductName, p.ProductNameEn, p.GenericName)
}

func (p *Product) nutrition() *models.NutritionData {
	n := &models.NutritionData{
		Calories:     p.kcal100g(),
		Sugar:        p.grams100g("sugars_100g"),
		Protein:      p.grams100g("proteins_100g"),
		Carbs:        p.grams100g("carbohydrates_100g"),
		SaturatedFat: p.grams100g("saturated-fat_100g"),
		Salt:         p.salt100g(),
		Fiber:        p.grams100g("fiber_100g"),
	}
	if v, ok := toFloat(p.ServingQuantity); ok && v > 0 {
		n.ServingSizeG = models.Float(v)
	}
	if g, err := models.ParseGrade(p.NutriscoreGrade); err == nil {
		n.NutriScore = &g
	}
	if v, ok := toFloat(p.NovaGroup); ok && v >= 1 && v <= 4 && v == math.Trunc(v) {
		n.NovaGroup = models.Int(int(v))
	}

	if *n == (models.NutritionData{}) {
		return nil
	}
	return n
}

// kcal100g prefers energy-kcal_100g and falls back to the kJ values.
func (p *Product) kcal100g() *float64 {
	if v, ok := p.nutriment("energy-kcal_100g"); ok {
		return plausible(v, 0, 1000)
	}
	for _, key := range []string{"energy-kj_100g", "energy_100g"} {
		if v, ok := p.nutriment(key); ok {
			return plausible(models.Round(v/kJPerKcal, 1), 0, 1000)
		}
	}
	return nil
}

func (p *Product) salt100g() *float64 {
	if v, ok := p.nutriment("salt_100g"); ok {
		return plausible(v, 0, 100)
	}
	if v, ok := p.nutriment("sodium_100g"); ok {
		return plausible(models.Round(v*saltPerSodium, 2), 0, 100)
	}
	return nil
}

func (p *Product) grams100g(key string) *float64 {
	if v, ok := p.nutriment(key); ok {
		return plausible(v, 0, 100)
	}
	return nil
}

func (p *Product) nutriment(key string) (float64, bool) {
	v, ok := p.Nutriments[key]
	if !ok {
		return 0, false
	}
	return toFloat(v)
}

// toFloat coerces a JSON number or numeric string.
func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, false
		}
		return x, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(x, ",", ".")), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func plausible(v, min, max float64) *float64 {
	if v < min || v > max {
		return nil
	}
	return models.Float(v)
}

func firstBrand(brands string) string {
	first, _, _ := strings.Cut(brands, ",")
	return strings.TrimSpace(first)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
