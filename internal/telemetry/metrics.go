package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all application metrics
type Metrics struct {
	RequestCounter  metric.Int64Counter
	RequestDuration metric.Float64Histogram
	QuestionsAsked  metric.Int64Counter
	ScoringDuration metric.Float64Histogram
	TokensUsed      metric.Int64Counter
	ExtractionTime  metric.Float64Histogram
}

// InitMetrics initializes all application metrics
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter("bilgin-backend")

	requestCounter, err := meter.Int64Counter(
		"http.requests.total",
		metric.WithDescription("Total HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram(
		"http.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	questionsAsked, err := meter.Int64Counter(
		"questions.asked.total",
		metric.WithDescription("Questions asked, labeled by whether a document matched"),
	)
	if err != nil {
		return nil, err
	}

	scoringDuration, err := meter.Float64Histogram(
		"relevance.scoring.duration",
		metric.WithDescription("Corpus scoring duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	tokensUsed, err := meter.Int64Counter(
		"gemini.tokens.used",
		metric.WithDescription("Estimated Gemini tokens used"),
	)
	if err != nil {
		return nil, err
	}

	extractionTime, err := meter.Float64Histogram(
		"document.extraction.duration",
		metric.WithDescription("Document text extraction duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		RequestCounter:  requestCounter,
		RequestDuration: requestDuration,
		QuestionsAsked:  questionsAsked,
		ScoringDuration: scoringDuration,
		TokensUsed:      tokensUsed,
		ExtractionTime:  extractionTime,
	}, nil
}

// RecordRequest records HTTP request metrics
func (m *Metrics) RecordRequest(method, path, status string, duration float64) {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("http.path", path),
		attribute.String("http.status", status),
	}

	m.RequestCounter.Add(context.Background(), 1, metric.WithAttributes(attrs...))
	m.RequestDuration.Record(context.Background(), duration, metric.WithAttributes(attrs...))
}

// RecordQuestion records a question and whether the scorer found a document
func (m *Metrics) RecordQuestion(matched bool, scoringSeconds float64) {
	attrs := []attribute.KeyValue{
		attribute.Bool("question.matched", matched),
	}

	m.QuestionsAsked.Add(context.Background(), 1, metric.WithAttributes(attrs...))
	m.ScoringDuration.Record(context.Background(), scoringSeconds, metric.WithAttributes(attrs...))
}

// RecordTokensUsed records Gemini token usage
func (m *Metrics) RecordTokensUsed(tokens int64, model string) {
	attrs := []attribute.KeyValue{
		attribute.String("gemini.model", model),
	}

	m.TokensUsed.Add(context.Background(), tokens, metric.WithAttributes(attrs...))
}

// RecordExtraction records document extraction metrics
func (m *Metrics) RecordExtraction(fileType string, duration float64, success bool) {
	attrs := []attribute.KeyValue{
		attribute.String("document.type", fileType),
		attribute.Bool("extraction.success", success),
	}

	m.ExtractionTime.Record(context.Background(), duration, metric.WithAttributes(attrs...))
}
