package domain

// InsightResult is the output of one deterministic insight module. It is
// total: a module never throws, it instead sets ErrorCode to describe a
// degraded outcome (spec.md Design Notes' InsightOutcome sum type,
// flattened into one struct so downstream code has a single shape to
// consume).
type InsightResult struct {
	InsightID    string
	Version      string
	Biomarkers   []string
	Drivers      map[string]float64
	Evidence     map[string]interface{}
	Severity     Severity
	Confidence   float64
	Recommendations []string
	ErrorCode    InsightErrorCode // empty on success
	Detail       string
}

// Succeeded reports whether the module produced a usable result.
func (r InsightResult) Succeeded() bool {
	return r.ErrorCode == ""
}

// AnalysisResult is the orchestrator's final, immutable output.
type AnalysisResult struct {
	AnalysisID    string
	Biomarkers    []BiomarkerScore
	Clusters      []BiomarkerCluster
	Insights      []InsightResult
	OverallScore  float64
	CreatedAt     string // ISO-8601 UTC
	ResultVersion string
}
