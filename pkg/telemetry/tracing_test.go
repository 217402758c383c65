package telemetry

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func installRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = provider.Shutdown(context.Background())
	})
	return recorder
}

func TestInitTracer_Disabled(t *testing.T) {
	shutdown, err := InitTracer(context.Background(), Config{Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestGetSampler(t *testing.T) {
	tests := []struct {
		cfg      Config
		contains string
	}{
		{Config{SamplerType: "always"}, "AlwaysOnSampler"},
		{Config{SamplerType: ""}, "AlwaysOnSampler"},
		{Config{SamplerType: "never"}, "AlwaysOffSampler"},
		{Config{SamplerType: "ratio", SamplerRatio: 0.5}, "ParentBased"},
	}

	for _, tt := range tests {
		t.Run(tt.cfg.SamplerType, func(t *testing.T) {
			assert.Contains(t, getSampler(tt.cfg).Description(), tt.contains)
		})
	}
}

func TestWithSpan(t *testing.T) {
	recorder := installRecorder(t)

	err := WithSpan(context.Background(), "ok-stage", func(ctx context.Context) error {
		AddEvent(ctx, "checkpoint")
		SetAttributes(ctx, attribute.String("k", "v"))
		return nil
	}, attribute.String("skill", "demo"))
	require.NoError(t, err)

	failure := errors.New("boom")
	err = WithSpan(context.Background(), "bad-stage", func(context.Context) error {
		return failure
	})
	assert.Equal(t, failure, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	assert.Equal(t, "ok-stage", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "checkpoint", spans[0].Events()[0].Name)
	assert.Contains(t, spans[0].Attributes(), attribute.String("skill", "demo"))
	assert.Contains(t, spans[0].Attributes(), attribute.String("k", "v"))

	assert.Equal(t, "bad-stage", spans[1].Name())
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "boom", spans[1].Status().Description)
}

func TestWithSpanValue(t *testing.T) {
	recorder := installRecorder(t)

	v, err := WithSpanValue(context.Background(), "value", func(context.Context) (int, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	WithSpanFunc(context.Background(), "func", func(ctx context.Context) {
		RecordError(ctx, errors.New("noted"))
	})

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "value", spans[0].Name())
	assert.Equal(t, "func", spans[1].Name())
	assert.Equal(t, "skillgen", spans[0].InstrumentationScope().Name)
}
