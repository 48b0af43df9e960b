package blogapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/eringen/blogapi/store"
	"github.com/eringen/blogapi/token"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"missing token", token.ErrMissingToken, http.StatusUnauthorized, unauthorizedMessage},
		{"invalid token", fmt.Errorf("%w: expired", token.ErrInvalidToken), http.StatusUnauthorized, unauthorizedMessage},
		{"invalid id", fmt.Errorf("get blog: %w", store.ErrInvalidID), http.StatusBadRequest, "invalid id"},
		{"validation", &ValidationError{Message: "bad body", Details: []string{"title is required"}}, http.StatusBadRequest, "bad body"},
		{"deadline", fmt.Errorf("list blogs: %w", context.DeadlineExceeded), http.StatusServiceUnavailable, "service unavailable"},
		{"timeout middleware", echo.ErrServiceUnavailable.WithInternal(context.DeadlineExceeded), http.StatusServiceUnavailable, "service unavailable"},
		{"forbidden", errForbidden, http.StatusForbidden, "Forbidden Access"},
		{"not found", echo.ErrNotFound, http.StatusNotFound, "Not Found"},
		{"http 5xx hides detail", echo.NewHTTPError(http.StatusBadGateway, "upstream said secret things"), http.StatusBadGateway, http.StatusText(http.StatusBadGateway)},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := classifyError(tt.err)
			if code != tt.code {
				t.Errorf("code = %d, want %d", code, tt.code)
			}
			if body.Message != tt.msg {
				t.Errorf("message = %q, want %q", body.Message, tt.msg)
			}
		})
	}
}

func TestValidationErrorDetails(t *testing.T) {
	_, body := classifyError(&ValidationError{Message: "bad", Details: []string{"a", "b"}})
	if len(body.Errors) != 2 {
		t.Errorf("Errors = %v, want 2 entries", body.Errors)
	}
}
