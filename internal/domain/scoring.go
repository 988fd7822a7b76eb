package domain

// ScoreRangeBand is one (min,max) interval of a BiomarkerRule. Band
// matching treats it as closed, [Min, Max], and walks the bands in declared
// order (reversed for an Inverted rule), so a value on a boundary shared by
// two bands falls into the band declared first — see
// scoring.CalculateBiomarkerScore.
type ScoreRangeBand struct {
	Band ScoreBand
	Min  float64
	Max  float64
}

// BiomarkerRule is the scoring contract for one biomarker: six ordered
// bands plus adjustment flags.
type BiomarkerRule struct {
	CanonicalName  string
	Unit           string
	Weight         float64
	Bands          []ScoreRangeBand // declared order is evaluation order
	Inverted       bool             // higher-is-worse rules set this false; HDL-like rules set true
	AgeAdjustment  bool
	SexAdjustment  bool
}

// HealthSystemRules groups the biomarker rules belonging to one clinical
// health system, plus its aggregation parameters.
type HealthSystemRules struct {
	System              string
	Rules               []BiomarkerRule
	MinBiomarkersRequired int
	SystemWeight        float64
}

// BiomarkerScore is the scored outcome for one biomarker.
type BiomarkerScore struct {
	Name       string
	RawValue   float64
	Score      float64
	Band       ScoreBand
	Confidence ConfidenceLevel
}

// HealthSystemScore aggregates BiomarkerScores for one clinical system.
type HealthSystemScore struct {
	System          string
	OverallScore    float64
	Confidence      ConfidenceLevel
	BiomarkerScores []BiomarkerScore
	MissingBiomarkers []string
	Recommendations []string
}

// ScoringResult is the concrete, fully-typed scoring output consumed
// downstream by clustering and insights (spec.md Design Notes: no ad-hoc
// dict-typed results).
type ScoringResult struct {
	OverallScore          float64
	OverallConfidence     ConfidenceLevel
	Systems               map[string]HealthSystemScore
	MissingBiomarkers     []string
	Recommendations       []string
	LifestyleAdjustments  []string
}
