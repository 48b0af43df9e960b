package blogapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/eringen/blogapi/token"
)

const claimsContextKey = "blogapi.claims"

func (a *App) setupMiddleware() {
	e := a.Echo

	e.IPExtractor = echo.ExtractIPFromXFFHeader(
		echo.TrustLoopback(true),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(true),
	)

	e.HTTPErrorHandler = a.httpErrorHandler

	e.Pre(middleware.RemoveTrailingSlash())

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			c.Logger().Infof("%s %s -> %d (%s) id=%s", v.Method, v.URI, v.Status, v.Latency, v.RequestID)
			return nil
		},
	}))

	e.Use(middleware.Recover())

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     a.Config.CORSOrigins,
		AllowCredentials: true,
		AllowMethods: []string{
			http.MethodGet, http.MethodHead, http.MethodPost,
			http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAccept, echo.HeaderOrigin},
	}))

	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		HSTSMaxAge:         31536000,
	}))

	e.Use(middleware.BodyLimit(a.Config.BodyLimit))

	if a.Config.RateLimit > 0 {
		e.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(a.Config.RateLimit),
				Burst:     a.Config.RateBurst,
				ExpiresIn: 3 * time.Minute,
			}),
			IdentifierExtractor: func(c echo.Context) (string, error) {
				return c.RealIP(), nil
			},
			ErrorHandler: func(c echo.Context, err error) error {
				return echo.NewHTTPError(http.StatusForbidden, "unable to identify client").WithInternal(err)
			},
			DenyHandler: func(c echo.Context, identifier string, err error) error {
				return errTooManyRequests
			},
		}))
	}

	if a.Config.RequestTimeout > 0 {
		e.Use(middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{
			Timeout: a.Config.RequestTimeout,
		}))
	}

	e.Use(cacheControlMiddleware)
}

// Credentials and per-user data must not be stored by shared caches.
func cacheControlMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Request().URL.Path
		switch {
		case path == "/jwt" || path == "/logout" || strings.HasPrefix(path, "/wishlist"):
			c.Response().Header().Set("Cache-Control", "no-store")
		default:
			c.Response().Header().Set("Cache-Control", "no-cache")
		}
		return next(c)
	}
}

// requireAuth verifies the credential cookie and stores its claims on the
// context. Missing, malformed and expired credentials all fail the same way.
func (a *App) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := a.Tokens.Verify(token.FromRequest(c.Request()))
		if err != nil {
			return err
		}
		c.Set(claimsContextKey, claims)
		return next(c)
	}
}

// ClaimsFromContext returns the verified credential claims of the request.
func ClaimsFromContext(c echo.Context) (token.Claims, bool) {
	claims, ok := c.Get(claimsContextKey).(token.Claims)
	return claims, ok
}

// normalizeEmail is applied to every email before it is stored, queried or
// compared, so both backends can match it exactly.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// credentialOwner returns the normalized email claim of the verified
// credential, or "" when it carries none.
func credentialOwner(c echo.Context) string {
	claims, ok := ClaimsFromContext(c)
	if !ok {
		return ""
	}
	owner, _ := claims["email"].(string)
	return normalizeEmail(owner)
}

// ownerMismatch reports whether the verified credential names an email other
// than email, which must already be normalized. Credentials without an email
// claim are not restricted.
func ownerMismatch(c echo.Context, email string) bool {
	if email == "" {
		return false
	}
	owner := credentialOwner(c)
	return owner != "" && owner != email
}
