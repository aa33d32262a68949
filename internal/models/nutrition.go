// Package models defines the food-log data types: cached scan results with
// their per-100g nutrition facts, consumption records, the user profile,
// filter warnings and the derived aggregates.
package models

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Grade is a Nutri-Score letter, A (best) to E.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeE Grade = "E"
)

// ParseGrade accepts a grade letter in either case.
func ParseGrade(s string) (Grade, error) {
	g := Grade(strings.ToUpper(strings.TrimSpace(s)))
	switch g {
	case GradeA, GradeB, GradeC, GradeD, GradeE:
		return g, nil
	}
	return "", fmt.Errorf("unknown nutri-score grade %q", s)
}

// NutritionData holds per-100g facts. A nil field means unknown, never zero.
type NutritionData struct {
	Calories     *float64 `json:"calories_100g,omitempty"`
	Sugar        *float64 `json:"sugar_100g,omitempty"`
	Protein      *float64 `json:"protein_100g,omitempty"`
	Carbs        *float64 `json:"carbs_100g,omitempty"`
	SaturatedFat *float64 `json:"saturated_fat_100g,omitempty"`
	Salt         *float64 `json:"salt_100g,omitempty"`
	Fiber        *float64 `json:"fiber_100g,omitempty"`
	ServingSizeG *float64 `json:"serving_size_g,omitempty"`

	NutriScore *Grade `json:"nutriscore_grade,omitempty"`
	NovaGroup  *int   `json:"nova_group,omitempty"`

	// IsUserEdited marks values typed in by the user or read by OCR rather
	// than taken from a product database.
	IsUserEdited bool `json:"is_user_edited,omitempty"`
}

// Float returns a pointer to v, for building optional fields.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Clone returns a deep copy; nil stays nil.
func (n *NutritionData) Clone() *NutritionData {
	if n == nil {
		return nil
	}
	c := NutritionData{
		Calories:     cloneFloat(n.Calories),
		Sugar:        cloneFloat(n.Sugar),
		Protein:      cloneFloat(n.Protein),
		Carbs:        cloneFloat(n.Carbs),
		SaturatedFat: cloneFloat(n.SaturatedFat),
		Salt:         cloneFloat(n.Salt),
		Fiber:        cloneFloat(n.Fiber),
		ServingSizeG: cloneFloat(n.ServingSizeG),
		IsUserEdited: n.IsUserEdited,
	}
	if n.NutriScore != nil {
		g := *n.NutriScore
		c.NutriScore = &g
	}
	if n.NovaGroup != nil {
		c.NovaGroup = Int(*n.NovaGroup)
	}
	return &c
}

// Merge returns a copy of n with every non-nil field of patch applied on top.
// Fields absent from patch keep their current value. IsUserEdited is left to
// the caller.
func (n *NutritionData) Merge(patch NutritionData) *NutritionData {
	out := n.Clone()
	if out == nil {
		out = &NutritionData{}
	}
	p := patch.Clone()
	if p.Calories != nil {
		out.Calories = p.Calories
	}
	if p.Sugar != nil {
		out.Sugar = p.Sugar
	}
	if p.Protein != nil {
		out.Protein = p.Protein
	}
	if p.Carbs != nil {
		out.Carbs = p.Carbs
	}
	if p.SaturatedFat != nil {
		out.SaturatedFat = p.SaturatedFat
	}
	if p.Salt != nil {
		out.Salt = p.Salt
	}
	if p.Fiber != nil {
		out.Fiber = p.Fiber
	}
	if p.ServingSizeG != nil {
		out.ServingSizeG = p.ServingSizeG
	}
	if p.NutriScore != nil {
		out.NutriScore = p.NutriScore
	}
	if p.NovaGroup != nil {
		out.NovaGroup = p.NovaGroup
	}
	return out
}

// Validate rejects values that cannot describe 100 g of food.
func (n *NutritionData) Validate() error {
	if n == nil {
		return nil
	}
	fields := []namedValue{
		{"calories", n.Calories}, {"sugar", n.Sugar}, {"protein", n.Protein}, {"carbs", n.Carbs},
		{"saturated fat", n.SaturatedFat}, {"salt", n.Salt}, {"fiber", n.Fiber}, {"serving size", n.ServingSizeG},
	}
	if err := checkAmounts(fields); err != nil {
		return err
	}
	if n.NovaGroup != nil && (*n.NovaGroup < 1 || *n.NovaGroup > 4) {
		return fmt.Errorf("nova group must be 1-4, got %d", *n.NovaGroup)
	}
	if n.NutriScore != nil {
		if _, err := ParseGrade(string(*n.NutriScore)); err != nil {
			return err
		}
	}
	return nil
}

// PortionNutrition is the nutrition attributable to one eaten portion,
// frozen when the consumption is logged. A nil field means no known
// contribution.
type PortionNutrition struct {
	Calories     *float64 `json:"calories,omitempty"`
	Sugar        *float64 `json:"sugar,omitempty"`
	Protein      *float64 `json:"protein,omitempty"`
	Carbs        *float64 `json:"carbs,omitempty"`
	SaturatedFat *float64 `json:"saturated_fat,omitempty"`
	Salt         *float64 `json:"salt,omitempty"`
	Fiber        *float64 `json:"fiber,omitempty"`
}

// Validate rejects snapshots that cannot be stored, such as a portion so
// large that a value overflows.
func (p PortionNutrition) Validate() error {
	return checkAmounts([]namedValue{
		{"calories", p.Calories}, {"sugar", p.Sugar}, {"protein", p.Protein}, {"carbs", p.Carbs},
		{"saturated fat", p.SaturatedFat}, {"salt", p.Salt}, {"fiber", p.Fiber},
	})
}

type namedValue struct {
	name  string
	value *float64
}

// checkAmounts requires every present value to be finite and not negative.
func checkAmounts(fields []namedValue) error {
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		v := *f.value
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s must be a finite number, got %v", f.name, v)
		}
		if v < 0 {
			return fmt.Errorf("%s must not be negative", f.name)
		}
	}
	return nil
}

// Scale computes the snapshot for portionGrams of this product. Calories are
// rounded to whole numbers and gram values to one decimal. Unknown or zero
// per-100g values are left out: zero counts as "no data" here.
func (n *NutritionData) Scale(portionGrams float64) PortionNutrition {
	if n == nil {
		return PortionNutrition{}
	}
	return PortionNutrition{
		Calories:     scale(n.Calories, portionGrams, 0),
		Sugar:        scale(n.Sugar, portionGrams, 1),
		Protein:      scale(n.Protein, portionGrams, 1),
		Carbs:        scale(n.Carbs, portionGrams, 1),
		SaturatedFat: scale(n.SaturatedFat, portionGrams, 1),
		Salt:         scale(n.Salt, portionGrams, 1),
		Fiber:        scale(n.Fiber, portionGrams, 1),
	}
}

func scale(per100 *float64, grams float64, places int32) *float64 {
	if per100 == nil || *per100 == 0 {
		return nil
	}
	v := decimal.NewFromFloat(*per100).
		Mul(decimal.NewFromFloat(grams)).
		Div(decimal.NewFromInt(100)).
		Round(places).
		InexactFloat64()
	return &v
}

// Round rounds v half away from zero to the given number of decimals without
// binary floating point drift (1.05 -> 1.1).
func Round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return Float(*v)
}
