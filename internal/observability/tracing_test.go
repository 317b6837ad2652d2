package observability

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestDefaultTracingConfig(t *testing.T) {
	cfg := DefaultTracingConfig()
	if cfg == nil {
		t.Fatal("expected non-nil config")
	}
	if cfg.ServiceName != "trustgraph" {
		t.Fatalf("expected service name 'trustgraph', got %s", cfg.ServiceName)
	}
	if cfg.SampleRate != 1.0 {
		t.Fatalf("expected sample rate 1.0, got %f", cfg.SampleRate)
	}
}

func TestInitTracing_NoEndpoint(t *testing.T) {
	ctx := context.Background()
	tp, err := InitTracing(ctx, &TracingConfig{ServiceName: "test"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tp.Tracer() == nil {
		t.Fatal("expected non-nil tracer")
	}
	if err := tp.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestInitTracing_NilConfig(t *testing.T) {
	tp, err := InitTracing(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tp == nil {
		t.Fatal("expected non-nil tracer provider")
	}
}

func TestSamplerFor(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, "AlwaysOnSampler"},
		{2.0, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
		{-1, "AlwaysOffSampler"},
	}
	for _, tt := range tests {
		if got := samplerFor(tt.rate).Description(); got != tt.want {
			t.Errorf("samplerFor(%v) = %s, want %s", tt.rate, got, tt.want)
		}
	}
}

// recordSpans installs an in-memory span recorder for the duration of a test.
func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return rec
}

func attrMap(attrs []attribute.KeyValue) map[attribute.Key]attribute.Value {
	m := make(map[attribute.Key]attribute.Value, len(attrs))
	for _, kv := range attrs {
		m[kv.Key] = kv.Value
	}
	return m
}

func TestStageSpan_Attributes(t *testing.T) {
	rec := recordSpans(t)

	ctx, run := StartRunSpan(context.Background(), "run-1", "edges.csv")
	_, span := StartStageSpan(ctx, StageBuild)
	RecordGraphSize(span, 10, 24)
	span.End()
	run.End()

	ended := rec.Ended()
	if len(ended) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(ended))
	}
	stage := ended[0]
	if stage.Name() != "stage.build" {
		t.Errorf("span name = %s, want stage.build", stage.Name())
	}
	attrs := attrMap(stage.Attributes())
	if attrs["graph.nodes"].AsInt64() != 10 || attrs["graph.edges"].AsInt64() != 24 {
		t.Errorf("unexpected graph size attributes: %v", stage.Attributes())
	}
	if stage.Parent().SpanID() != ended[1].SpanContext().SpanID() {
		t.Error("stage span should be a child of the run span")
	}
	if attrMap(ended[1].Attributes())["trustgraph.run.id"].AsString() != "run-1" {
		t.Error("run span missing run id")
	}
}

func TestRecordAnalysis(t *testing.T) {
	rec := recordSpans(t)

	_, span := StartStageSpan(context.Background(), StageAnalyze)
	RecordAnalysis(span, 3, 7, 5)
	span.End()

	attrs := attrMap(rec.Ended()[0].Attributes())
	if attrs["graph.components"].AsInt64() != 3 {
		t.Errorf("components = %v, want 3", attrs["graph.components"])
	}
	if attrs["analysis.representatives"].AsInt64() != 5 {
		t.Errorf("representatives = %v, want 5", attrs["analysis.representatives"])
	}
}

func TestRecordError(t *testing.T) {
	rec := recordSpans(t)

	_, span := StartSinkSpan(context.Background(), "neo4j", "store")
	RecordError(span, errors.New("connection refused"))
	RecordError(span, nil)
	span.End()

	s := rec.Ended()[0]
	if s.Status().Code != codes.Error {
		t.Errorf("status = %v, want Error", s.Status().Code)
	}
	if s.Status().Description != "connection refused" {
		t.Errorf("status description = %q", s.Status().Description)
	}
	if len(s.Events()) != 1 {
		t.Errorf("expected 1 error event, got %d", len(s.Events()))
	}
}
