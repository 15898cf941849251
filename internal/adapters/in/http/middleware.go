package http

import (
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/identity"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"

	principalKey    = "principal"
	serverOperation = "fulfillment.http"
)

type unauthenticatedError struct {
	reason string
}

func (e *unauthenticatedError) Error() string {
	return "unauthenticated: " + e.reason
}

// Authenticate reads the principal forwarded by the auth provider. The role is the claim
// of the caller; handlers check it against the directory.
func Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rawID := c.Request().Header.Get(HeaderUserID)
			rawRole := c.Request().Header.Get(HeaderUserRole)
			if rawID == "" || rawRole == "" {
				return &unauthenticatedError{reason: fmt.Sprintf("%s and %s headers are required", HeaderUserID, HeaderUserRole)}
			}

			id, err := kernel.UUIDFromString(rawID)
			if err != nil {
				return &unauthenticatedError{reason: err.Error()}
			}
			role, err := identity.ParseRole(rawRole)
			if err != nil {
				return &unauthenticatedError{reason: err.Error()}
			}
			principal, err := identity.NewPrincipal(id, role)
			if err != nil {
				return &unauthenticatedError{reason: err.Error()}
			}

			c.Set(principalKey, principal)
			return next(c)
		}
	}
}

func principalFrom(c echo.Context) identity.Principal {
	p, _ := c.Get(principalKey).(identity.Principal)
	return p
}

// Trace opens a server span per request through otelhttp. The span takes the echo route
// as its name once Observe has run.
func Trace(opts ...otelhttp.Option) echo.MiddlewareFunc {
	return echo.WrapMiddleware(otelhttp.NewMiddleware(serverOperation, opts...))
}

// Observe names the request span after its route and writes one access log line. Errors are
// rendered here so the span and the log see the final status.
func Observe(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			route := c.Path()

			span := trace.SpanFromContext(req.Context())
			span.SetName(req.Method + " " + route)
			span.SetAttributes(attribute.String("http.route", route))

			if err := next(c); err != nil {
				span.RecordError(err)
				c.Error(err)
			}

			logger.Info("request",
				zap.String("method", req.Method),
				zap.String("route", route),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)),
				zap.String("trace_id", span.SpanContext().TraceID().String()),
			)
			return nil
		}
	}
}
