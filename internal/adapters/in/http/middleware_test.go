package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const remoteTraceID = "4bf92f3577b34da6a3ce929d0e0e4736"

func newTracedEcho(t *testing.T) (*echo.Echo, *tracetest.SpanRecorder, *observer.ObservedLogs) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	core, logs := observer.New(zapcore.InfoLevel)

	e := echo.New()
	e.HTTPErrorHandler = NewErrorHandler(zap.NewNop())
	e.Use(Trace(otelhttp.WithTracerProvider(provider), otelhttp.WithPropagators(propagation.TraceContext{})))
	e.Use(Observe(zap.New(core)))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{DisableErrorHandler: true}))
	return e, recorder, logs
}

func serve(e *echo.Echo, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("traceparent", "00-"+remoteTraceID+"-00f067aa0ba902b7-01")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestTrace_ServerSpanNamedAfterRoute(t *testing.T) {
	e, recorder, logs := newTracedEcho(t)
	e.GET("/orders/:id", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	rec := serve(e, "/orders/42")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	spans := recorder.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "GET /orders/:id", span.Name())
	assert.Equal(t, trace.SpanKindServer, span.SpanKind())
	assert.Equal(t, remoteTraceID, span.SpanContext().TraceID().String())
	assert.Contains(t, span.Attributes(), attribute.String("http.route", "/orders/:id"))
	assert.NotEqual(t, codes.Error, span.Status().Code)

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/orders/:id", fields["route"])
	assert.EqualValues(t, http.StatusNoContent, fields["status"])
	assert.Equal(t, remoteTraceID, fields["trace_id"])
}

func TestTrace_ServerErrorMarksSpan(t *testing.T) {
	tests := []struct {
		name    string
		handler echo.HandlerFunc
	}{
		{
			name:    "returned error",
			handler: func(echo.Context) error { return errors.New("connection reset") },
		},
		{
			name:    "panic",
			handler: func(echo.Context) error { panic("nil map") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, recorder, logs := newTracedEcho(t)
			e.GET("/boom", tt.handler)

			rec := serve(e, "/boom")

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			spans := recorder.Ended()
			require.Len(t, spans, 1)
			assert.Equal(t, codes.Error, spans[0].Status().Code)
			assert.NotEmpty(t, spans[0].Events(), "error recorded on the span")

			entries := logs.FilterMessage("request").All()
			require.Len(t, entries, 1)
			assert.EqualValues(t, http.StatusInternalServerError, entries[0].ContextMap()["status"])
		})
	}
}
