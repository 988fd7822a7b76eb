package domain

import (
	"fmt"
	"sort"
	"time"
)

// BiomarkerDefinition is an SSOT-loaded, read-only record describing one
// canonical biomarker. Constructed once at startup and never mutated.
type BiomarkerDefinition struct {
	CanonicalName string
	Aliases       []string
	Unit          string
	Category      Category
	DataType      DataType
}

func (d BiomarkerDefinition) Validate() error {
	if d.CanonicalName == "" {
		return fmt.Errorf("biomarker definition: canonical name is required")
	}
	if !d.Category.IsValid() {
		return fmt.Errorf("biomarker definition %s: invalid category %q", d.CanonicalName, d.Category)
	}
	if !d.DataType.IsValid() {
		return fmt.Errorf("biomarker definition %s: invalid data type %q", d.CanonicalName, d.DataType)
	}
	return nil
}

// BiomarkerValue is a single measurement. Name must already be canonical;
// BiomarkerPanel enforces this at construction.
type BiomarkerValue struct {
	Name      string
	Value     float64
	Unit      string
	Timestamp *time.Time
}

// BiomarkerPanel is an immutable, canonical-keys-only measurement set.
// The zero value is an empty, usable panel.
type BiomarkerPanel struct {
	biomarkers map[string]BiomarkerValue
}

// NewBiomarkerPanel builds a panel from already-canonical values. It is a
// hard error for any key to differ from its value's Name, or for any value
// to carry a non-canonical name not present in canonicalSet.
func NewBiomarkerPanel(values map[string]BiomarkerValue, canonicalSet map[string]struct{}) (BiomarkerPanel, error) {
	out := make(map[string]BiomarkerValue, len(values))
	for key, v := range values {
		if key != v.Name {
			return BiomarkerPanel{}, fmt.Errorf("biomarker panel: key %q does not match value name %q", key, v.Name)
		}
		if _, ok := canonicalSet[key]; !ok {
			return BiomarkerPanel{}, fmt.Errorf("biomarker panel: key %q is not canonical", key)
		}
		out[key] = v
	}
	return BiomarkerPanel{biomarkers: out}, nil
}

func (p BiomarkerPanel) Get(name string) (BiomarkerValue, bool) {
	v, ok := p.biomarkers[name]
	return v, ok
}

func (p BiomarkerPanel) Has(name string) bool {
	_, ok := p.biomarkers[name]
	return ok
}

// Names returns the canonical keys present, sorted for deterministic
// iteration across the pipeline.
func (p BiomarkerPanel) Names() []string {
	names := make([]string, 0, len(p.biomarkers))
	for name := range p.biomarkers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (p BiomarkerPanel) Len() int { return len(p.biomarkers) }

// Values returns a copy of the underlying map, safe for callers to range
// over without aliasing the panel's internal state.
func (p BiomarkerPanel) Values() map[string]BiomarkerValue {
	out := make(map[string]BiomarkerValue, len(p.biomarkers))
	for k, v := range p.biomarkers {
		out[k] = v
	}
	return out
}

// ReferenceRange is one population-specific clinical range for a biomarker.
type ReferenceRange struct {
	Biomarker  string
	Population Population
	Min        float64
	Max        float64
	Unit       string
}

func (r ReferenceRange) Validate() error {
	if r.Max <= r.Min {
		return fmt.Errorf("reference range %s/%s: max %.4f must be greater than min %.4f", r.Biomarker, r.Population, r.Max, r.Min)
	}
	if !r.Population.IsValid() {
		return fmt.Errorf("reference range %s: invalid population %q", r.Biomarker, r.Population)
	}
	return nil
}

// LifestyleProfile is the questionnaire-derived input to the scoring
// overlay step.
type LifestyleProfile struct {
	DietLevel                LifestyleLevel
	SleepHours               float64
	ExerciseMinutesPerWeek   float64
	AlcoholUnitsPerWeek      float64
	SmokingStatus            SmokingStatus
	StressLevel              LifestyleLevel
}

// MedicalHistory carries the boolean flags recovered from the questionnaire
// that the original implementation folds into risk-adjusted recommendations
// (SPEC_FULL.md C); the scoring core itself does not consume it directly.
type MedicalHistory struct {
	Diabetes               bool
	Hypertension           bool
	CardiovascularDisease  bool
	FamilyHistory          bool
}

// UserProfile is the demographic input accompanying a biomarker panel.
type UserProfile struct {
	UserID      string
	Age         *int
	Sex         string // "male" | "female" | ""
	HeightCM    *float64
	WeightKG    *float64
	Ethnicity   string
}
