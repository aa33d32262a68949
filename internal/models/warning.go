package models

// Level ranks a warning for display.
type Level string

const (
	LevelDanger  Level = "danger"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
)

// Mode names the filter that produced a warning.
type Mode string

const (
	ModeSugar     Mode = "sugar"
	ModePregnancy Mode = "pregnancy"
	ModeAllergy   Mode = "allergy"
	ModeTraces    Mode = "traces"
)

// Warning is a filter hit. Fact is what was found in the product and
// Threshold what the user configured, shown side by side.
type Warning struct {
	Level     Level
	Mode      Mode
	Message   string
	Fact      string
	Threshold string
}
