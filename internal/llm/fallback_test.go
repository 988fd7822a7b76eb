package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biomarker-analysis-core/internal/domain"
)

func TestFallbackCollaborator_Synthesize(t *testing.T) {
	fb := NewFallbackCollaborator()

	req := domain.LLMRequest{
		Category: "metabolic",
		Clusters: []domain.BiomarkerCluster{
			{ClusterID: "c1", Name: "Metabolic Dysfunction", Biomarkers: []string{"glucose", "hba1c"}, Severity: domain.SeverityHigh, Confidence: 0.8, AvgScore: 72.5},
			{ClusterID: "c2", Name: "Healthy Lipids", Biomarkers: []string{"hdl_cholesterol"}, Severity: domain.SeverityNormal, Confidence: 0.9, AvgScore: 10.0},
		},
	}

	resp, err := fb.Synthesize(context.Background(), req)

	require.NoError(t, err)
	require.Len(t, resp.Insights, 2)
	assert.Equal(t, "metabolic", resp.Insights[0].Category)
	assert.Equal(t, "high", resp.Insights[0].Severity)
	assert.Contains(t, resp.Insights[0].Recommendations[0], "clinician")
	assert.Equal(t, "normal", resp.Insights[1].Severity)
	assert.Contains(t, resp.Insights[1].Recommendations[0], "Maintain")
}

func TestFallbackCollaborator_EmptyClusters(t *testing.T) {
	fb := NewFallbackCollaborator()
	resp, err := fb.Synthesize(context.Background(), domain.LLMRequest{Category: "cardiovascular"})
	require.NoError(t, err)
	assert.Empty(t, resp.Insights)
}
