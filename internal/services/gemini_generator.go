package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/shabeb-irshed/portal/internal/metrics"
)

// GeminiConfig holds Generative Language API settings
type GeminiConfig struct {
	APIKey  string
	Model   string
	APIBase string
	Timeout time.Duration
}

// GeminiGenerator produces chat replies through the Gemini API
type GeminiGenerator struct {
	client  *genai.Client
	model   string
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewGeminiGenerator creates a new GeminiGenerator. Without an API key no
// client is built and every Generate call fails.
func NewGeminiGenerator(ctx context.Context, config GeminiConfig, m *metrics.Metrics, logger *slog.Logger) (*GeminiGenerator, error) {
	g := &GeminiGenerator{
		model:   config.Model,
		metrics: m,
		logger:  logger,
	}
	if config.APIKey == "" {
		return g, nil
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     config.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: config.Timeout},
	}
	if base := strings.TrimRight(config.APIBase, "/"); base != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: base + "/"}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	g.client = client
	return g, nil
}

// Generate returns the concatenated text parts of the first candidate
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.client == nil {
		return "", fmt.Errorf("text generation API key not configured")
	}

	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if g.metrics != nil {
		g.metrics.GatewayDuration.WithLabelValues("gemini").Observe(time.Since(start).Seconds())
	}
	if err != nil {
		g.fail()
		return "", fmt.Errorf("generation request failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		g.fail()
		return "", fmt.Errorf("generation returned no candidates")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			text.WriteString(part.Text)
		}
	}
	return text.String(), nil
}

func (g *GeminiGenerator) fail() {
	if g.metrics != nil {
		g.metrics.GatewayFailures.WithLabelValues("gemini").Inc()
	}
}
