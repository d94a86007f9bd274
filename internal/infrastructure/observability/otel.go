package observability

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/zatekoja/premier-landing/backend/internal/domain/entities"
)

const instrumentationName = "github.com/zatekoja/premier-landing/backend"

// Metrics holds all application metrics
type Metrics struct {
	RequestCount       metric.Int64Counter
	RequestDuration    metric.Float64Histogram
	FormEventCount     metric.Int64Counter
	SubmissionCount    metric.Int64Counter
	ValidationFailures metric.Int64Counter
	RateLimitedCount   metric.Int64Counter
}

// Setup initializes OpenTelemetry tracing, metrics and Go runtime metrics
func Setup(ctx context.Context, serviceName, serviceVersion, endpoint string) (func(context.Context) error, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, err
	}

	// Set up trace exporter
	traceExporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	// Set up metric exporter
	metricExporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(endpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		_ = tracerProvider.Shutdown(ctx)
		return nil, err
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter, sdkmetric.WithInterval(30*time.Second))),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(meterProvider)

	if err := runtime.Start(runtime.WithMeterProvider(meterProvider)); err != nil {
		GetLogger().Warn().Err(err).Msg("failed to start runtime metrics")
	}

	shutdown := func(ctx context.Context) error {
		return errors.Join(
			meterProvider.Shutdown(ctx),
			tracerProvider.Shutdown(ctx),
		)
	}

	return shutdown, nil
}

// InitMetrics initializes application metrics on the global meter provider
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter(instrumentationName)

	requestCount, err := meter.Int64Counter(
		"http.server.request.count",
		metric.WithDescription("Number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	formEventCount, err := meter.Int64Counter(
		"forms.event.count",
		metric.WithDescription("Form state transitions by form and event"),
	)
	if err != nil {
		return nil, err
	}

	submissionCount, err := meter.Int64Counter(
		"forms.submission.count",
		metric.WithDescription("Finished submissions by form and outcome"),
	)
	if err != nil {
		return nil, err
	}

	validationFailures, err := meter.Int64Counter(
		"forms.validation.failure.count",
		metric.WithDescription("Fields rejected by validation, by form and field"),
	)
	if err != nil {
		return nil, err
	}

	rateLimited, err := meter.Int64Counter(
		"forms.rate_limited.count",
		metric.WithDescription("Submissions refused by the rate limiter"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		RequestCount:       requestCount,
		RequestDuration:    requestDuration,
		FormEventCount:     formEventCount,
		SubmissionCount:    submissionCount,
		ValidationFailures: validationFailures,
		RateLimitedCount:   rateLimited,
	}, nil
}

// StartSpan starts a new trace span
func StartSpan(ctx context.Context, spanName string) (context.Context, trace.Span) {
	tracer := otel.Tracer(instrumentationName)
	return tracer.Start(ctx, spanName)
}

// RecordError records an error in the current span
func RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
	}
}

// SetSpanAttributes sets attributes on a span
func SetSpanAttributes(span trace.Span, attrs ...attribute.KeyValue) {
	span.SetAttributes(attrs...)
}

// RecordRequestMetric records one served HTTP request
func RecordRequestMetric(ctx context.Context, metrics *Metrics, method, path string, statusCode int, duration time.Duration) {
	if metrics == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("http.route", path),
		attribute.Int("http.status_code", statusCode),
	}

	metrics.RequestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	metrics.RequestDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}

// RecordFormTransition counts a form transition. Succeeded and failed events
// also count as finished submissions; invalid events count each rejected field.
func (m *Metrics) RecordFormTransition(ctx context.Context, snapshot entities.FormSnapshot, eventType entities.FormEventType) {
	if m == nil {
		return
	}
	form := attribute.String("form", string(snapshot.Form))
	m.FormEventCount.Add(ctx, 1, metric.WithAttributes(form, attribute.String("event", string(eventType))))

	switch eventType {
	case entities.FormEventSucceeded:
		m.SubmissionCount.Add(ctx, 1, metric.WithAttributes(form, attribute.String("outcome", "success")))
	case entities.FormEventFailed:
		m.SubmissionCount.Add(ctx, 1, metric.WithAttributes(form, attribute.String("outcome", "failure")))
	case entities.FormEventInvalid:
		for field := range snapshot.Errors {
			m.ValidationFailures.Add(ctx, 1, metric.WithAttributes(form, attribute.String("field", field)))
		}
	}
}

// RecordRateLimited counts a refused submission
func (m *Metrics) RecordRateLimited(ctx context.Context, form entities.FormKind) {
	if m == nil {
		return
	}
	m.RateLimitedCount.Add(ctx, 1, metric.WithAttributes(attribute.String("form", string(form))))
}
