// Package filter evaluates the user's health filters against a product and
// reports the hits as warnings. Evaluation is pure: the same profile and
// product always produce the same warnings in the same order (sugar,
// pregnancy, allergy, traces). Missing data never produces a warning.
package filter

import (
	"strconv"

	"github.com/dmitrijs2005/nutrikeeper/internal/models"
)

// CheckProduct returns the warnings raised by profile for scan.
func CheckProduct(profile models.UserProfile, scan *models.ScanResult) []models.Warning {
	if scan == nil {
		return nil
	}

	var out []models.Warning
	out = append(out, checkSugar(profile, scan)...)
	out = append(out, checkPregnancy(profile, scan)...)
	out = append(out, checkAllergens(profile, scan)...)
	out = append(out, checkTraces(profile, scan)...)
	return out
}

func checkSugar(profile models.UserProfile, scan *models.ScanResult) []models.Warning {
	if !profile.DiabetesMode || scan.Nutrition == nil || scan.Nutrition.Sugar == nil {
		return nil
	}
	sugar := *scan.Nutrition.Sugar
	if sugar <= profile.SugarThreshold {
		return nil
	}
	return []models.Warning{{
		Level:     models.LevelWarning,
		Mode:      models.ModeSugar,
		Message:   "High sugar content",
		Fact:      perHundred(sugar),
		Threshold: perHundred(profile.SugarThreshold),
	}}
}

func perHundred(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "g/100g"
}

func checkAllergens(profile models.UserProfile, scan *models.ScanResult) []models.Warning {
	if !profile.AllergyMode {
		return nil
	}
	var out []models.Warning
	for _, code := range sortedCodes(profile.Allergens) {
		if !scan.HasAllergen(code) {
			continue
		}
		out = append(out, models.Warning{
			Level:     models.LevelDanger,
			Mode:      models.ModeAllergy,
			Message:   "Contains " + code,
			Fact:      "allergen: " + code,
			Threshold: "avoid " + code,
		})
	}
	return out
}

func checkTraces(profile models.UserProfile, scan *models.ScanResult) []models.Warning {
	if !profile.AllergyMode || !profile.ShowTraces {
		return nil
	}
	var out []models.Warning
	for _, code := range sortedCodes(profile.Allergens) {
		if !scan.HasTrace(code) {
			continue
		}
		out = append(out, models.Warning{
			Level:     models.LevelInfo,
			Mode:      models.ModeTraces,
			Message:   "May contain traces of " + code,
			Fact:      "traces: " + code,
			Threshold: "avoid " + code,
		})
	}
	return out
}

func sortedCodes(codes []string) []string {
	return models.NormalizeCodes(codes)
}
