// Package llm provides the Collaborator implementations the analysis core
// uses to reach an external free-text synthesizer, plus a resilient
// wrapper and a deterministic fallback so the core never blocks on the
// network for analytical correctness.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/biomarker-analysis-core/internal/domain"
)

// GeminiModel names a selectable Gemini generation model.
type GeminiModel string

const (
	GeminiPro   GeminiModel = "gemini-1.5-pro"
	GeminiFlash GeminiModel = "gemini-1.5-flash"
)

// GeminiConfig configures a GeminiClient.
type GeminiConfig struct {
	APIKey     string
	Model      GeminiModel
	BaseURL    string
	Timeout    time.Duration
	RateLimit  int // requests per second
	MaxTokens  int
	Temperature float64
}

// GeminiClient calls the Gemini generateContent API and adapts its JSON
// insight-synthesis schema into domain.LLMResponse.
type GeminiClient struct {
	apiKey      string
	model       GeminiModel
	baseURL     string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
	limiter     *rate.Limiter
	log         *logrus.Logger
}

// NewGeminiClient builds a GeminiClient. Returns an error if no API key is
// configured, mirroring the collaborator's startup-time validation.
func NewGeminiClient(cfg GeminiConfig, log *logrus.Logger) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm: gemini api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = GeminiPro
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = 2
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 2000
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.3
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &GeminiClient{
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		baseURL:     cfg.BaseURL,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		limiter:     rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		log:         log,
	}, nil
}

type generateContentRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

type insightSynthesisPayload struct {
	Insights []struct {
		Category        string   `json:"category"`
		Title           string   `json:"title"`
		Description     string   `json:"description"`
		Severity        string   `json:"severity"`
		Confidence      float64  `json:"confidence"`
		Evidence        []string `json:"evidence"`
		Recommendations []string `json:"recommendations"`
	} `json:"insights"`
}

// Synthesize satisfies domain.Collaborator by prompting Gemini with the
// analysis clusters and parsing the structured insight-synthesis response.
func (c *GeminiClient) Synthesize(ctx context.Context, req domain.LLMRequest) (domain.LLMResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return domain.LLMResponse{}, fmt.Errorf("llm: rate limit wait: %w", err)
	}

	prompt := buildInsightSynthesisPrompt(req)

	payload := generateContentRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     c.temperature,
			MaxOutputTokens: c.maxTokens,
			TopP:            0.8,
			TopK:            10,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return domain.LLMResponse{}, fmt.Errorf("llm: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return domain.LLMResponse{}, fmt.Errorf("llm: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	c.log.WithField("category", req.Category).Info("llm: dispatching insight synthesis request")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return domain.LLMResponse{}, fmt.Errorf("llm: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.LLMResponse{}, fmt.Errorf("llm: read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return domain.LLMResponse{}, fmt.Errorf("llm: rate limit exceeded")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.LLMResponse{}, fmt.Errorf("llm: api request failed: %d - %s", resp.StatusCode, string(respBody))
	}

	var generated generateContentResponse
	if err := json.Unmarshal(respBody, &generated); err != nil {
		return domain.LLMResponse{}, fmt.Errorf("llm: parse api response: %w", err)
	}
	if len(generated.Candidates) == 0 || len(generated.Candidates[0].Content.Parts) == 0 {
		return domain.LLMResponse{}, fmt.Errorf("llm: empty response from model")
	}

	text := stripJSONFence(generated.Candidates[0].Content.Parts[0].Text)

	var synthesis insightSynthesisPayload
	if err := json.Unmarshal([]byte(text), &synthesis); err != nil {
		return domain.LLMResponse{}, fmt.Errorf("llm: parse insight synthesis json: %w", err)
	}

	insights := make([]domain.LLMInsight, 0, len(synthesis.Insights))
	for _, i := range synthesis.Insights {
		insights = append(insights, domain.LLMInsight{
			Category:        i.Category,
			Title:           i.Title,
			Description:     i.Description,
			Severity:        i.Severity,
			Confidence:      i.Confidence,
			Evidence:        i.Evidence,
			Recommendations: i.Recommendations,
		})
	}

	return domain.LLMResponse{Insights: insights}, nil
}

func buildInsightSynthesisPrompt(req domain.LLMRequest) string {
	var b strings.Builder
	b.WriteString(req.SystemPrompt)
	b.WriteString("\n\n")
	b.WriteString(req.UserPrompt)
	b.WriteString("\n\nBiomarker clusters:\n")
	for _, cluster := range req.Clusters {
		fmt.Fprintf(&b, "- %s: avg score %.1f, severity %s, confidence %.2f, biomarkers %v\n",
			cluster.Name, cluster.AvgScore, cluster.Severity, cluster.Confidence, cluster.Biomarkers)
	}
	b.WriteString(`
Respond with valid JSON only, no additional text, matching this schema:
{
    "insights": [
        {
            "category": "string",
            "title": "string",
            "description": "string",
            "severity": "low|moderate|high|critical",
            "confidence": number (0-1),
            "evidence": ["string"],
            "recommendations": ["string"]
        }
    ]
}`)
	return b.String()
}

func stripJSONFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
