package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/biomarker-analysis-core/internal/domain"
)

// FallbackCollaborator deterministically synthesizes LLMInsight records
// directly from clustering output, with no network dependency. It exists
// so an analysis can always complete a Collaborator step even when no real
// LLM backend is configured or reachable.
type FallbackCollaborator struct{}

// NewFallbackCollaborator builds a FallbackCollaborator.
func NewFallbackCollaborator() *FallbackCollaborator {
	return &FallbackCollaborator{}
}

// Synthesize turns each requested cluster into one templated insight. It
// never errors.
func (f *FallbackCollaborator) Synthesize(_ context.Context, req domain.LLMRequest) (domain.LLMResponse, error) {
	insights := make([]domain.LLMInsight, 0, len(req.Clusters))
	for _, cluster := range req.Clusters {
		insights = append(insights, domain.LLMInsight{
			Category:        req.Category,
			Title:           fmt.Sprintf("%s pattern detected", cluster.Name),
			Description:     fallbackDescription(cluster),
			Severity:        string(cluster.Severity),
			Confidence:      cluster.Confidence,
			Evidence:        []string{fmt.Sprintf("biomarkers involved: %s", strings.Join(cluster.Biomarkers, ", "))},
			Recommendations: fallbackRecommendations(cluster),
		})
	}
	return domain.LLMResponse{Insights: insights}, nil
}

func fallbackDescription(cluster domain.BiomarkerCluster) string {
	return fmt.Sprintf("%s biomarkers average a score of %.1f, indicating %s severity.",
		cluster.Name, cluster.AvgScore, cluster.Severity)
}

func fallbackRecommendations(cluster domain.BiomarkerCluster) []string {
	switch cluster.Severity {
	case domain.SeverityCritical, domain.SeverityHigh:
		return []string{fmt.Sprintf("Discuss the %s findings with a clinician promptly.", cluster.Name)}
	case domain.SeverityModerate:
		return []string{fmt.Sprintf("Monitor %s biomarkers and review lifestyle factors contributing to this cluster.", cluster.Name)}
	default:
		return []string{fmt.Sprintf("Maintain current habits supporting healthy %s biomarkers.", cluster.Name)}
	}
}
