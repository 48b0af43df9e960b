package blogapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/blogapi/store"
	"github.com/eringen/blogapi/token"
)

var (
	errForbidden       = echo.NewHTTPError(http.StatusForbidden, "Forbidden Access")
	errTooManyRequests = echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
)

const unauthorizedMessage = "UnAuthorized Access"

// errorResponse is the JSON body of every error reply.
type errorResponse struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code, body := classifyError(err)
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
	}
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, body)
	}
	if err != nil {
		c.Logger().Errorf("write error response: %v", err)
	}
}

func classifyError(err error) (int, errorResponse) {
	var verr *ValidationError
	switch {
	case errors.Is(err, token.ErrMissingToken), errors.Is(err, token.ErrInvalidToken):
		return http.StatusUnauthorized, errorResponse{Message: unauthorizedMessage}
	case errors.Is(err, store.ErrInvalidID):
		return http.StatusBadRequest, errorResponse{Message: "invalid id"}
	case errors.As(err, &verr):
		return http.StatusBadRequest, errorResponse{Message: verr.Message, Errors: verr.Details}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, errorResponse{Message: "service unavailable"}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg, ok := he.Message.(string)
		if !ok {
			msg = fmt.Sprint(he.Message)
		}
		if he.Code >= 500 {
			msg = http.StatusText(he.Code)
		}
		return he.Code, errorResponse{Message: msg}
	}
	return http.StatusInternalServerError, errorResponse{Message: "internal server error"}
}
