// Package clustering implements the rule-based, health-system-grouping,
// and weighted-correlation clustering algorithms plus validation, per
// spec.md 4.4.
package clustering

// ScoreThreshold is an inclusive closed interval a biomarker's score must
// fall within for a clustering rule to consider it matched.
type ScoreThreshold struct {
	Min, Max float64
}

// Rule is one clustering rule: required/optional biomarker membership,
// per-biomarker score gating, and priority, per spec.md 4.4.
type Rule struct {
	Name               string
	ClusterType        string
	RequiredBiomarkers []string
	OptionalBiomarkers []string
	ScoreThresholds    map[string]ScoreThreshold
	MinClusterSize     int
	Priority           int // ascending; lower fires first
}

func (r Rule) meetsThreshold(biomarker string, score float64) bool {
	t, ok := r.ScoreThresholds[biomarker]
	if !ok {
		return true
	}
	return score >= t.Min && score <= t.Max
}

var clusterDisplayNames = map[string]string{
	"metabolic_dysfunction":   "Metabolic Dysfunction",
	"cardiovascular_risk":     "Cardiovascular Risk",
	"inflammatory_burden":     "Inflammatory Burden",
	"nutritional_deficiency":  "Nutritional Deficiency",
	"organ_function":          "Organ Function Concern",
	"hormonal_imbalance":      "Hormonal Imbalance",
}

// DefaultRules returns the built-in clustering rule set, grounded on
// original_source/core/clustering/rules.py's ClusteringRuleEngine. The
// source leaves every rule's priority at the default 1; this table
// assigns explicit ascending priorities in the source's declaration order so rule application is deterministic, per
// spec.md 4.4 step 1.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name: "metabolic_dysfunction", ClusterType: "metabolic_dysfunction",
			RequiredBiomarkers: []string{"glucose", "hba1c"},
			OptionalBiomarkers: []string{"insulin", "homa_ir"},
			ScoreThresholds: map[string]ScoreThreshold{
				"glucose": {0, 70}, "hba1c": {0, 70}, "insulin": {0, 70},
			},
			MinClusterSize: 2, Priority: 1,
		},
		{
			Name: "cardiovascular_risk", ClusterType: "cardiovascular_risk",
			RequiredBiomarkers: []string{"total_cholesterol", "ldl_cholesterol"},
			OptionalBiomarkers: []string{"hdl_cholesterol", "triglycerides"},
			ScoreThresholds: map[string]ScoreThreshold{
				"total_cholesterol": {0, 70}, "ldl_cholesterol": {0, 70},
				"hdl_cholesterol": {30, 100}, "triglycerides": {0, 70},
			},
			MinClusterSize: 2, Priority: 2,
		},
		{
			Name: "inflammatory_burden", ClusterType: "inflammatory_burden",
			RequiredBiomarkers: []string{"crp"},
			OptionalBiomarkers: []string{"esr", "il6"},
			ScoreThresholds: map[string]ScoreThreshold{
				"crp": {0, 70}, "esr": {0, 70},
			},
			MinClusterSize: 1, Priority: 3,
		},
		{
			Name: "organ_function", ClusterType: "organ_function",
			RequiredBiomarkers: []string{"creatinine", "alt"},
			OptionalBiomarkers: []string{"bun", "ast", "egfr"},
			ScoreThresholds: map[string]ScoreThreshold{
				"creatinine": {0, 70}, "alt": {0, 70}, "ast": {0, 70}, "bun": {0, 70},
			},
			MinClusterSize: 2, Priority: 4,
		},
		{
			Name: "nutritional_deficiency", ClusterType: "nutritional_deficiency",
			RequiredBiomarkers: []string{"vitamin_d", "b12"},
			OptionalBiomarkers: []string{"folate", "iron", "ferritin"},
			ScoreThresholds: map[string]ScoreThreshold{
				"vitamin_d": {0, 70}, "b12": {0, 70}, "folate": {0, 70}, "iron": {0, 70},
			},
			MinClusterSize: 2, Priority: 5,
		},
		{
			Name: "hormonal_imbalance", ClusterType: "hormonal_imbalance",
			RequiredBiomarkers: []string{"tsh"},
			OptionalBiomarkers: []string{"free_t4", "testosterone", "estradiol"},
			ScoreThresholds: map[string]ScoreThreshold{
				"tsh": {0, 70}, "free_t4": {0, 70},
			},
			MinClusterSize: 1, Priority: 6,
		},
	}
}

// healthSystemBiomarkerMap is the hardcoded health-system -> biomarker
// grouping used by the weighted-correlation algorithm, per spec.md 4.4.
var healthSystemBiomarkerMap = map[string][]string{
	"metabolic":      {"glucose", "hba1c", "insulin", "homa_ir"},
	"cardiovascular":  {"total_cholesterol", "ldl_cholesterol", "hdl_cholesterol", "triglycerides"},
	"inflammatory":    {"crp", "esr", "il6"},
	"kidney":          {"creatinine", "bun", "egfr"},
	"liver":           {"alt", "ast", "bilirubin", "alp"},
	"cbc":             {"hemoglobin", "hematocrit", "white_blood_cells", "platelets"},
	"hormonal":        {"tsh", "free_t4", "testosterone", "estradiol"},
	"nutritional":     {"vitamin_d", "b12", "folate", "iron", "ferritin"},
}
