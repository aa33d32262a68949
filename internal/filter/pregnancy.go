package filter

import (
	"strings"
	"unicode"

	"github.com/dmitrijs2005/nutrikeeper/internal/models"
)

type category struct {
	level    models.Level
	message  string
	keywords []string
}

// pregnancyCategories are checked in this order; each raises at most one
// warning. Keywords match whole words or whole phrases.
var pregnancyCategories = []category{
	{
		level:   models.LevelDanger,
		message: "Contains alcohol",
		keywords: []string{
			"alcohol", "ethanol", "wine", "beer", "rum", "vodka", "whisky", "whiskey",
			"brandy", "cognac", "liqueur", "spirits", "sake", "cider", "gin",
		},
	},
	{
		level:   models.LevelWarning,
		message: "Contains caffeine",
		keywords: []string{
			"caffeine", "coffee", "espresso", "guarana", "yerba mate", "energy drink",
		},
	},
	{
		level:   models.LevelDanger,
		message: "Contains raw or unpasteurized dairy",
		keywords: []string{
			"raw milk", "unpasteurized", "unpasteurised", "non pasteurized", "non pasteurised",
			"lait cru",
		},
	},
}

func checkPregnancy(profile models.UserProfile, scan *models.ScanResult) []models.Warning {
	if !profile.PregnancyMode {
		return nil
	}

	sources := []struct {
		label string
		text  string
	}{
		{"allergens", strings.Join(scan.Allergens, " ")},
		{"ingredients", scan.Ingredients},
		{"traces", strings.Join(scan.Traces, " ")},
	}
	for i := range sources {
		sources[i].text = words(sources[i].text)
	}

	var out []models.Warning
	for _, c := range pregnancyCategories {
	search:
		for _, src := range sources {
			if src.text == "" {
				continue
			}
			for _, kw := range c.keywords {
				if strings.Contains(src.text, " "+kw+" ") {
					out = append(out, models.Warning{
						Level:     c.level,
						Mode:      models.ModePregnancy,
						Message:   c.message,
						Fact:      src.label + ": " + kw,
						Threshold: "pregnancy mode",
					})
					break search
				}
			}
		}
	}
	return out
}

// words lowercases s and reduces it to single-space separated letter/digit
// runs, padded with a space on each side so keywords can be matched as
// " kw ". Empty input stays empty.
func words(s string) string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(fields) == 0 {
		return ""
	}
	return " " + strings.Join(fields, " ") + " "
}
