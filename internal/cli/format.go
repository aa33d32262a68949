package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/nutrikeeper/internal/models"
)

const timeLayout = "2006-01-02 15:04"

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOpt(v *float64, unit string) string {
	if v == nil {
		return "?"
	}
	return formatNumber(*v) + unit
}

func displayName(s *models.ScanResult) string {
	switch {
	case s.Name != "" && s.Brand != "":
		return s.Name + " (" + s.Brand + ")"
	case s.Name != "":
		return s.Name
	}
	return "(unnamed)"
}

func formatPortion(n models.PortionNutrition) string {
	parts := []string{formatOpt(n.Calories, " kcal")}
	add := func(label string, v *float64) {
		if v != nil {
			parts = append(parts, label+" "+formatNumber(*v)+"g")
		}
	}
	add("sugar", n.Sugar)
	add("protein", n.Protein)
	add("carbs", n.Carbs)
	add("sat. fat", n.SaturatedFat)
	add("salt", n.Salt)
	add("fiber", n.Fiber)
	return strings.Join(parts, ", ")
}

func writeScan(w io.Writer, s *models.ScanResult, loc *time.Location) {
	fmt.Fprintf(w, "%s [%s]\n", displayName(s), s.Barcode)
	if models.IsSynthetic(s.Barcode) {
		fmt.Fprintf(w, "Entered without a product code (%s)\n", s.DataSource)
	}
	if s.Summary != "" {
		fmt.Fprintln(w, s.Summary)
	}
	if s.DataSource != "" {
		fmt.Fprintf(w, "Source: %s, first scanned %s\n", s.DataSource, s.ScannedAt.In(loc).Format(timeLayout))
	}

	if n := s.Nutrition; n != nil {
		fmt.Fprintf(w, "Per 100g: %s, sugar %s, protein %s, carbs %s, sat. fat %s, salt %s, fiber %s\n",
			formatOpt(n.Calories, " kcal"), formatOpt(n.Sugar, "g"), formatOpt(n.Protein, "g"),
			formatOpt(n.Carbs, "g"), formatOpt(n.SaturatedFat, "g"), formatOpt(n.Salt, "g"), formatOpt(n.Fiber, "g"))

		var extra []string
		if n.NutriScore != nil {
			extra = append(extra, "Nutri-Score "+string(*n.NutriScore))
		}
		if n.NovaGroup != nil {
			extra = append(extra, "NOVA "+strconv.Itoa(*n.NovaGroup))
		}
		if n.IsUserEdited {
			extra = append(extra, "edited")
		}
		if len(extra) > 0 {
			fmt.Fprintln(w, strings.Join(extra, ", "))
		}
	} else {
		fmt.Fprintln(w, "No nutrition data")
	}

	if len(s.Allergens) > 0 {
		fmt.Fprintf(w, "Allergens: %s\n", strings.Join(s.Allergens, ", "))
	}
	if len(s.Traces) > 0 {
		fmt.Fprintf(w, "May contain: %s\n", strings.Join(s.Traces, ", "))
	}
}

func writeWarnings(w io.Writer, warnings []models.Warning) {
	for _, wr := range warnings {
		line := fmt.Sprintf("[%s] %s", wr.Level, wr.Message)
		if wr.Fact != "" {
			line += ": " + wr.Fact
		}
		if wr.Threshold != "" {
			line += " (limit " + wr.Threshold + ")"
		}
		fmt.Fprintln(w, line)
	}
}

func writeConsumptions(w io.Writer, list []models.ConsumptionRecord, loc *time.Location) {
	if len(list) == 0 {
		return
	}
	fmt.Fprintf(w, "Eaten %d times:\n", len(list))
	for _, c := range list {
		fmt.Fprintf(w, "  %s  %sg  %s\n", c.ConsumedAt.In(loc).Format(timeLayout), formatNumber(c.PortionGrams), formatPortion(c.Nutrition))
	}
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func writeProfile(w io.Writer, p models.UserProfile) {
	allergens := "none"
	if len(p.Allergens) > 0 {
		allergens = strings.Join(p.Allergens, ", ")
	}
	fmt.Fprintf(w, "diabetes: %s (threshold %sg/100g)\n", onOff(p.DiabetesMode), formatNumber(p.SugarThreshold))
	fmt.Fprintf(w, "pregnancy: %s\n", onOff(p.PregnancyMode))
	fmt.Fprintf(w, "allergy: %s, traces: %s\n", onOff(p.AllergyMode), onOff(p.ShowTraces))
	fmt.Fprintf(w, "allergens: %s\n", allergens)
}
