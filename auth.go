package blogapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// successResponse is the body returned by the credential endpoints.
type successResponse struct {
	Success bool `json:"success"`
}

// handleIssueToken signs whatever object the client posts and returns it in
// the auth cookie.
func (a *App) handleIssueToken(c echo.Context) error {
	if !a.credentialLimiter.Allow(c.RealIP()) {
		return errTooManyRequests
	}
	payload, err := bindValid[map[string]any](c, a.schemas.credential)
	if err != nil {
		return err
	}
	raw, err := a.Tokens.Issue(payload)
	if err != nil {
		return err
	}
	a.Tokens.SetCookie(c.Response(), raw)
	return c.JSON(http.StatusOK, successResponse{Success: true})
}

// handleLogout drops the client's cookie. The token itself stays valid until
// it expires because nothing is revoked server side.
func (a *App) handleLogout(c echo.Context) error {
	a.Tokens.ClearCookie(c.Response())
	return c.JSON(http.StatusOK, successResponse{Success: true})
}
