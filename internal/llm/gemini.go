package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"alcyxob/fitness-planner/internal/config"
	"alcyxob/fitness-planner/internal/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"
)

const structuredMimeType = "application/json"

// geminiGenerator implements Generator with the Gemini API.
type geminiGenerator struct {
	client      *genai.Client
	model       string
	temperature float32
	timeout     time.Duration
	log         *logger.Logger
}

// NewGeminiGenerator creates a Gemini-backed Generator.
// baseURL is only set in tests; leave it empty for the public endpoint.
func NewGeminiGenerator(ctx context.Context, cfg config.GeminiConfig, baseURL string, log *logger.Logger) (Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is not configured")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiGenerator{
		client:      client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
		log:         log.With("component", "gemini", "model", cfg.Model),
	}, nil
}

// Generate sends one prompt with the fixed generation config and returns the answer text.
func (g *geminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, span := otel.Tracer("llm/gemini").Start(ctx, "Gemini.GenerateContent", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.model", g.model),
		attribute.Int("prompt.length", len(prompt)),
	)

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	temperature := g.temperature
	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:      &temperature,
		ResponseMIMEType: structuredMimeType,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generate content failed")
		g.log.Warn("Gemini call failed", "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	// Whitespace-only text is returned as is and rejected later by the parser.
	text := responseText(resp)
	if text == "" {
		span.SetStatus(codes.Error, "empty response")
		return "", ErrEmptyResponse
	}

	g.log.Debug("Gemini call succeeded", "elapsed_ms", time.Since(start).Milliseconds(), "response_length", len(text))
	span.SetAttributes(attribute.Int("response.length", len(text)))
	return text, nil
}

// responseText joins the text parts of the first candidate, skipping thoughts.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	return b.String()
}
