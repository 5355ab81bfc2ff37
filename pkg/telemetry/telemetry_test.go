package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/steemit/citygroups/pkg/config"
)

func TestInit_Disabled(t *testing.T) {
	shutdown, err := Init(&config.TelemetryConfig{Enabled: false})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if shutdown == nil {
		t.Fatal("Init() returned nil shutdown")
	}
	shutdown()
}

func TestStartSpan_WithoutInit(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "test.span")
	defer span.End()

	if ctx == nil {
		t.Fatal("StartSpan() returned nil context")
	}
	if span.SpanContext().IsValid() {
		t.Error("Expected a no-op span before Init")
	}
}

func TestRecorders(t *testing.T) {
	ctx := context.Background()
	RecordSubmission(ctx, "reddit")
	RecordDecision(ctx, "approved")
	RecordQuery(ctx, "rating", 3)
}

func TestMetricsHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	MetricsHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("GET /metrics status = %d, want 200", rec.Code)
	}
}
