package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/nutrikeeper/internal/models"
)

// parseNutritionPatch turns key=value pairs into a nutrition patch. Keys are
// per-100g values plus serving, nutriscore and nova.
func parseNutritionPatch(pairs []string) (models.NutritionData, error) {
	var patch models.NutritionData
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || value == "" {
			return models.NutritionData{}, usage("edit <barcode> key=value ...")
		}
		key = strings.ToLower(key)

		switch key {
		case "nutriscore":
			g, err := models.ParseGrade(value)
			if err != nil {
				return models.NutritionData{}, err
			}
			patch.NutriScore = &g
			continue
		case "nova":
			n, err := strconv.Atoi(value)
			if err != nil {
				return models.NutritionData{}, fmt.Errorf("nova: %w", err)
			}
			patch.NovaGroup = models.Int(n)
			continue
		}

		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return models.NutritionData{}, fmt.Errorf("%s: %w", key, err)
		}
		switch key {
		case "calories", "kcal":
			patch.Calories = models.Float(v)
		case "sugar":
			patch.Sugar = models.Float(v)
		case "protein":
			patch.Protein = models.Float(v)
		case "carbs":
			patch.Carbs = models.Float(v)
		case "satfat", "saturated_fat":
			patch.SaturatedFat = models.Float(v)
		case "salt":
			patch.Salt = models.Float(v)
		case "fiber", "fibre":
			patch.Fiber = models.Float(v)
		case "serving":
			patch.ServingSizeG = models.Float(v)
		default:
			return models.NutritionData{}, fmt.Errorf("unknown nutrition field %q", key)
		}
	}
	return patch, nil
}

// parseProfilePatch maps "set" arguments to a profile patch.
func parseProfilePatch(key string, values []string) (models.ProfilePatch, error) {
	var patch models.ProfilePatch
	value := strings.Join(values, " ")

	switch strings.ToLower(key) {
	case "diabetes", "pregnancy", "allergy", "traces":
		on, err := parseOnOff(value)
		if err != nil {
			return patch, err
		}
		switch strings.ToLower(key) {
		case "diabetes":
			patch.DiabetesMode = &on
		case "pregnancy":
			patch.PregnancyMode = &on
		case "allergy":
			patch.AllergyMode = &on
		case "traces":
			patch.ShowTraces = &on
		}
	case "threshold":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return patch, fmt.Errorf("threshold: %w", err)
		}
		patch.SugarThreshold = &v
	case "allergens":
		codes := strings.FieldsFunc(value, func(r rune) bool { return r == ',' || r == ' ' })
		if len(codes) == 1 && codes[0] == "-" {
			codes = nil
		}
		patch.Allergens = &codes
	default:
		return patch, fmt.Errorf("unknown setting %q", key)
	}
	return patch, nil
}

func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", s)
}
