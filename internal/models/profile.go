package models

import (
	"fmt"
	"math"
	"slices"
)

// Sugar threshold bounds, grams per 100 g.
const (
	MinSugarThreshold     = 1
	MaxSugarThreshold     = 50
	DefaultSugarThreshold = 10
)

// UserProfile holds the filter settings the warning engine reads.
type UserProfile struct {
	DiabetesMode   bool     `json:"diabetes_mode"`
	PregnancyMode  bool     `json:"pregnancy_mode"`
	AllergyMode    bool     `json:"allergy_mode"`
	ShowTraces     bool     `json:"show_traces"`
	SugarThreshold float64  `json:"sugar_threshold"`
	Allergens      []string `json:"allergens"`
}

// DefaultProfile is what a first load creates and what Reset restores.
func DefaultProfile() UserProfile {
	return UserProfile{
		SugarThreshold: DefaultSugarThreshold,
		Allergens:      []string{},
	}
}

// Clone returns a copy that shares no slices with p.
func (p UserProfile) Clone() UserProfile {
	p.Allergens = slices.Clone(p.Allergens)
	if p.Allergens == nil {
		p.Allergens = []string{}
	}
	return p
}

// Validate checks the threshold range.
func (p UserProfile) Validate() error {
	t := p.SugarThreshold
	if math.IsNaN(t) || t < MinSugarThreshold || t > MaxSugarThreshold {
		return fmt.Errorf("sugar threshold must be between %d and %d g/100g, got %v",
			MinSugarThreshold, MaxSugarThreshold, t)
	}
	return nil
}

// ProfilePatch is a partial update: nil fields are left unchanged.
type ProfilePatch struct {
	DiabetesMode   *bool
	PregnancyMode  *bool
	AllergyMode    *bool
	ShowTraces     *bool
	SugarThreshold *float64
	Allergens      *[]string
}

// Apply returns p with the patch applied and allergen codes normalized. The
// result is validated; p itself is never modified.
func (p UserProfile) Apply(patch ProfilePatch) (UserProfile, error) {
	out := p.Clone()
	if patch.DiabetesMode != nil {
		out.DiabetesMode = *patch.DiabetesMode
	}
	if patch.PregnancyMode != nil {
		out.PregnancyMode = *patch.PregnancyMode
	}
	if patch.AllergyMode != nil {
		out.AllergyMode = *patch.AllergyMode
	}
	if patch.ShowTraces != nil {
		out.ShowTraces = *patch.ShowTraces
	}
	if patch.SugarThreshold != nil {
		out.SugarThreshold = *patch.SugarThreshold
	}
	if patch.Allergens != nil {
		out.Allergens = NormalizeCodes(*patch.Allergens)
		if out.Allergens == nil {
			out.Allergens = []string{}
		}
	}
	if err := out.Validate(); err != nil {
		return p, err
	}
	return out, nil
}

// Bool returns a pointer to v, for building patches.
func Bool(v bool) *bool { return &v }
