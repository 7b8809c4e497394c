// Package ai wraps the Gemini API behind a circuit breaker and a client-side
// rate limiter. Callers get either generated text or ErrGeneration; raw
// upstream errors never reach the HTTP layer.
package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	genai "github.com/google/generative-ai-go/genai"

	"bilgin-backend/internal/logger"
)

// ErrGeneration covers every upstream failure (network, quota, malformed
// response). The route layer substitutes ApologyMessage for it.
var ErrGeneration = errors.New("answer generation failed")

// ApologyMessage is the localized user-safe reply when generation fails.
const ApologyMessage = "Üzgünüm, şu anda sorunuzu cevaplayamıyorum. Lütfen daha sonra tekrar deneyin."

type Generator struct {
	client      *genai.Client
	model       string
	breaker     *gobreaker.CircuitBreaker
	rateLimiter *rate.Limiter
}

type RateLimits struct {
	RPM int // Requests per minute
	RPD int // Requests per day
}

func getRateLimits(tier string) RateLimits {
	switch tier {
	case "free":
		return RateLimits{RPM: 10, RPD: 250}
	case "tier1":
		return RateLimits{RPM: 1000, RPD: 10000}
	default:
		return RateLimits{RPM: 10, RPD: 250}
	}
}

func NewGenerator(ctx context.Context, apiKey, model, tier string) (*Generator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	limits := getRateLimits(tier)

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "GeminiAPI",
		MaxRequests: 5,
		Interval:    10 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	// 90% of the RPM budget, leaving headroom for retries.
	rateLimiter := rate.NewLimiter(rate.Limit(float64(limits.RPM)*0.9/60.0), limits.RPM/10+1)

	return &Generator{
		client:      client,
		model:       model,
		breaker:     breaker,
		rateLimiter: rateLimiter,
	}, nil
}

// GenerateAnswer produces a Turkish answer for the question, optionally
// grounded in documentContent (empty string means no document context).
func (g *Generator) GenerateAnswer(ctx context.Context, question, documentContent string) (string, error) {
	tracer := otel.Tracer("gemini-client")
	ctx, span := tracer.Start(ctx, "gemini.generate_answer")
	defer span.End()

	span.SetAttributes(
		attribute.String("gemini.model", g.model),
		attribute.Int("gemini.context_length", len(documentContent)),
	)

	if err := g.rateLimiter.Wait(ctx); err != nil {
		span.SetAttributes(attribute.Bool("gemini.rate_limited", true))
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	prompt := BuildPrompt(question, documentContent)

	result, err := g.breaker.Execute(func() (interface{}, error) {
		model := g.client.GenerativeModel(g.model)
		model.SetTemperature(0.7)
		model.SetMaxOutputTokens(2048)
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(systemMessage)},
		}

		resp, err := model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			return nil, err
		}
		text := extractText(resp)
		if text == "" {
			return nil, errors.New("empty response")
		}
		return text, nil
	})

	if err != nil {
		span.SetAttributes(attribute.Bool("gemini.error", true))
		if err == gobreaker.ErrOpenState {
			span.SetAttributes(attribute.Bool("gemini.circuit_breaker_open", true))
		}
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	span.SetAttributes(attribute.Bool("gemini.success", true))
	return result.(string), nil
}

// EstimateTokens gives a rough token count, ~4 characters per token.
func EstimateTokens(text string) int {
	n := len(text) / 4
	if n < 1 {
		n = 1
	}
	return n
}

func extractText(resp *genai.GenerateContentResponse) string {
	text := ""
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				text += string(t)
			}
		}
	}
	return text
}

// Close the client
func (g *Generator) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}
