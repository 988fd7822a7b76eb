package domain

import "context"

// ResolverHandle is an immutable reference to one SSOT snapshot: biomarker
// definitions, reference ranges, and unit metadata, loaded once at process
// startup and shared by reference across concurrently running analyses
// (spec.md Design Notes: no global resolver singleton).
type ResolverHandle interface {
	Definitions() map[string]BiomarkerDefinition
	AliasIndex() map[string]string
	ReferenceRanges() map[string][]ReferenceRange
	Units() map[string]UnitDefinition
	Version() string
}

// UnitDefinition describes one SSOT unit entry.
type UnitDefinition struct {
	Name              string
	Category          string
	SIEquivalent      string
	ConversionFactor  float64
}

// LLMRequest is the category-templated prompt sent to the LLM collaborator.
type LLMRequest struct {
	Category   string
	SystemPrompt string
	UserPrompt string
	Clusters   []BiomarkerCluster
}

// LLMInsight is one structured insight record the collaborator returns.
type LLMInsight struct {
	Category        string
	Title           string
	Description     string
	Severity        string
	Confidence      float64
	Evidence        []string
	Recommendations []string
}

// LLMResponse is the collaborator's reply. A failed call or schema
// validation is reported through Synthesize's error return, not here.
type LLMResponse struct {
	Insights []LLMInsight
}

// Collaborator is the small injected-capability interface the core uses to
// reach the external LLM free-text synthesizer (spec.md Design Notes).
// The core never depends on this succeeding for analytical correctness.
type Collaborator interface {
	Synthesize(ctx context.Context, req LLMRequest) (LLMResponse, error)
}

// AnalysisRepository is the persistence collaborator mentioned in spec.md
// 1 as out of scope for the core; an adapter may satisfy it for audit
// trails without the core package depending on it.
type AnalysisRepository interface {
	Save(ctx context.Context, result AnalysisResult) error
	GetByID(ctx context.Context, analysisID string) (AnalysisResult, error)
}

// ResultCache is the optional cache collaborator fronting AnalysisRepository
// lookups.
type ResultCache interface {
	Get(ctx context.Context, analysisID string) (AnalysisResult, bool, error)
	Set(ctx context.Context, result AnalysisResult) error
}
