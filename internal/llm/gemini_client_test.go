package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biomarker-analysis-core/internal/domain"
)

func testGeminiLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.FatalLevel)
	return log
}

func TestNewGeminiClient_RequiresAPIKey(t *testing.T) {
	_, err := NewGeminiClient(GeminiConfig{}, testGeminiLogger())
	assert.Error(t, err)
}

func TestGeminiClient_Synthesize_ParsesStructuredInsights(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		responseText := "```json\n" + `{
			"insights": [
				{
					"category": "metabolic",
					"title": "Elevated insulin resistance",
					"description": "HOMA-IR is elevated.",
					"severity": "moderate",
					"confidence": 0.82,
					"evidence": ["glucose 105", "insulin 18"],
					"recommendations": ["Reduce refined carbohydrate intake"]
				}
			]
		}` + "\n```"

		resp := generateContentResponse{
			Candidates: []struct {
				Content content `json:"content"`
			}{
				{Content: content{Parts: []part{{Text: responseText}}}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client, err := NewGeminiClient(GeminiConfig{APIKey: "test-key", BaseURL: server.URL, RateLimit: 100}, testGeminiLogger())
	require.NoError(t, err)

	resp, err := client.Synthesize(context.Background(), domain.LLMRequest{
		Category:     "metabolic",
		SystemPrompt: "You are a clinical biomarker analysis expert.",
		UserPrompt:   "Analyze the following clusters.",
		Clusters: []domain.BiomarkerCluster{
			{Name: "Metabolic Dysfunction", Biomarkers: []string{"glucose", "insulin"}, Severity: domain.SeverityModerate, Confidence: 0.7, AvgScore: 60},
		},
	})

	require.NoError(t, err)
	require.Len(t, resp.Insights, 1)
	assert.Equal(t, "metabolic", resp.Insights[0].Category)
	assert.Equal(t, "moderate", resp.Insights[0].Severity)
	assert.InDelta(t, 0.82, resp.Insights[0].Confidence, 0.001)
}

func TestGeminiClient_Synthesize_PropagatesAPIErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("internal error"))
	}))
	defer server.Close()

	client, err := NewGeminiClient(GeminiConfig{APIKey: "test-key", BaseURL: server.URL, RateLimit: 100}, testGeminiLogger())
	require.NoError(t, err)

	_, err = client.Synthesize(context.Background(), domain.LLMRequest{})
	assert.Error(t, err)
}

func TestStripJSONFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripJSONFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripJSONFence(`{"a":1}`))
}
