package telemetry

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/steemit/citygroups/pkg/config"
	"github.com/steemit/citygroups/pkg/logging"
)

const instrumentationName = "github.com/steemit/citygroups"

var (
	tracer trace.Tracer

	instrumentsOnce sync.Once
	submitted       metric.Int64Counter
	decided         metric.Int64Counter
	queried         metric.Int64Histogram
)

// Init initializes OpenTelemetry with Jaeger and Prometheus exporters
func Init(cfg *config.TelemetryConfig) (func(), error) {
	if !cfg.Enabled {
		logging.GetLogger().Info("Telemetry disabled")
		return func() {}, nil
	}

	ctx := context.Background()

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion("0.1.0"),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	var shutdownFuncs []func(context.Context) error

	if cfg.JaegerURL != "" {
		jaegerExporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(cfg.JaegerURL)))
		if err != nil {
			return nil, fmt.Errorf("failed to create Jaeger exporter: %w", err)
		}

		tp := sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(jaegerExporter),
			sdktrace.WithResource(res),
		)

		otel.SetTracerProvider(tp)
		shutdownFuncs = append(shutdownFuncs, tp.Shutdown)

		logging.GetLogger().Info("Jaeger exporter initialized", zap.String("url", cfg.JaegerURL))
	}

	if cfg.PrometheusEnabled {
		// Registers with the default Prometheus registry, served by MetricsHandler
		exporter, err := prometheus.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
		}

		mp := sdkmetric.NewMeterProvider(
			sdkmetric.WithReader(exporter),
			sdkmetric.WithResource(res),
		)

		otel.SetMeterProvider(mp)
		shutdownFuncs = append(shutdownFuncs, mp.Shutdown)

		logging.GetLogger().Info("Prometheus exporter initialized", zap.Int("port", cfg.PrometheusPort))
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	tracer = otel.Tracer(cfg.ServiceName)

	shutdown := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		for _, fn := range shutdownFuncs {
			if err := func() error {
				ctx, cancel := context.WithTimeout(shutdownCtx, 3*time.Second)
				defer cancel()
				return fn(ctx)
			}(); err != nil {
				logging.GetLogger().Error("Error shutting down telemetry", zap.Error(err))
			}
		}
	}

	return shutdown, nil
}

// Tracer returns the global tracer
func Tracer() trace.Tracer {
	if tracer == nil {
		return noop.NewTracerProvider().Tracer("citygroups")
	}
	return tracer
}

// StartSpan starts a new span
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return Tracer().Start(ctx, name, opts...)
}

// MetricsHandler serves the Prometheus scrape endpoint
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// instruments are created against the global meter provider, which forwards
// to the Prometheus provider once Init has installed it.
func initInstruments() {
	meter := otel.Meter(instrumentationName)

	var err error
	submitted, err = meter.Int64Counter("listings.submitted",
		metric.WithDescription("Listings accepted into the moderation queue"))
	if err != nil {
		logging.GetLogger().Warn("Failed to create counter", zap.String("name", "listings.submitted"), zap.Error(err))
	}
	decided, err = meter.Int64Counter("listings.decided",
		metric.WithDescription("Moderation decisions applied"))
	if err != nil {
		logging.GetLogger().Warn("Failed to create counter", zap.String("name", "listings.decided"), zap.Error(err))
	}
	queried, err = meter.Int64Histogram("listings.query.results",
		metric.WithDescription("Listings returned per directory query"))
	if err != nil {
		logging.GetLogger().Warn("Failed to create histogram", zap.String("name", "listings.query.results"), zap.Error(err))
	}
}

// RecordSubmission counts an accepted submission
func RecordSubmission(ctx context.Context, platform string) {
	instrumentsOnce.Do(initInstruments)
	if submitted != nil {
		submitted.Add(ctx, 1, metric.WithAttributes(attribute.String("platform", platform)))
	}
}

// RecordDecision counts an applied moderation decision
func RecordDecision(ctx context.Context, status string) {
	instrumentsOnce.Do(initInstruments)
	if decided != nil {
		decided.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	}
}

// RecordQuery records how many listings a directory query returned
func RecordQuery(ctx context.Context, sortBy string, results int) {
	instrumentsOnce.Do(initInstruments)
	if queried != nil {
		queried.Record(ctx, int64(results), metric.WithAttributes(attribute.String("sort_by", sortBy)))
	}
}
