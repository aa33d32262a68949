package models

import "time"

// ConsumptionRecord is one ledger entry: PortionGrams of the product with
// Barcode eaten at ConsumedAt. Nutrition is the snapshot taken when the entry
// was written; later edits of the product never touch it.
type ConsumptionRecord struct {
	ID           string
	Barcode      string
	PortionGrams float64
	Nutrition    PortionNutrition
	ConsumedAt   time.Time
}

func (c ConsumptionRecord) Clone() ConsumptionRecord {
	out := c
	out.Nutrition = PortionNutrition{
		Calories:     cloneFloat(c.Nutrition.Calories),
		Sugar:        cloneFloat(c.Nutrition.Sugar),
		Protein:      cloneFloat(c.Nutrition.Protein),
		Carbs:        cloneFloat(c.Nutrition.Carbs),
		SaturatedFat: cloneFloat(c.Nutrition.SaturatedFat),
		Salt:         cloneFloat(c.Nutrition.Salt),
		Fiber:        cloneFloat(c.Nutrition.Fiber),
	}
	return out
}
