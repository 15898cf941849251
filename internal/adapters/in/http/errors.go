package http

import (
	"errors"
	"net/http"

	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const CodeUnauthenticated = "unauthenticated"

// Error is the body of every failed request.
type Error struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// StatusFor maps an error code onto its HTTP status.
func StatusFor(code string) int {
	switch code {
	case errs.CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case errs.CodeAuthorization:
		return http.StatusForbidden
	case errs.CodeNotFound:
		return http.StatusNotFound
	case errs.CodeInsufficientStock, errs.CodeAlreadyExists:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// NewErrorHandler renders classified errors as Error bodies. Database and internal failures
// are logged and their messages are not exposed.
func NewErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := render(err)
		if status >= http.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("route", c.Path()),
				zap.Error(err),
			)
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, body)
		}
		if writeErr != nil {
			logger.Warn("writing error response failed", zap.Error(writeErr))
		}
	}
}

func render(err error) (int, Error) {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		msg := http.StatusText(httpErr.Code)
		if m, ok := httpErr.Message.(string); ok {
			msg = m
		}
		return httpErr.Code, Error{Code: codeForStatus(httpErr.Code), Message: msg}
	}

	var unauthenticated *unauthenticatedError
	if errors.As(err, &unauthenticated) {
		return http.StatusUnauthorized, Error{Code: CodeUnauthenticated, Message: unauthenticated.Error()}
	}

	code := errs.Code(err)
	status := StatusFor(code)
	if status >= http.StatusInternalServerError {
		return status, Error{Code: code, Message: http.StatusText(status)}
	}
	return status, Error{Code: code, Message: err.Error(), Details: errs.Details(err)}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusUnsupportedMediaType, http.StatusRequestEntityTooLarge:
		return errs.CodeValidation
	case http.StatusUnauthorized:
		return CodeUnauthenticated
	case http.StatusForbidden:
		return errs.CodeAuthorization
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return errs.CodeNotFound
	default:
		return errs.CodeInternal
	}
}
