package blogapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// routePolicy is one row of the route table. Every route is listed here with
// an explicit RequiresAuth decision; setupRoutes registers nothing else.
type routePolicy struct {
	Method       string
	Path         string
	RequiresAuth bool
	handler      func(*App) echo.HandlerFunc
}

// Reads of public content stay open; every write and every wishlist access
// needs a verified credential.
var routePolicies = []routePolicy{
	{http.MethodGet, "/", false, func(a *App) echo.HandlerFunc { return handleRoot }},

	{http.MethodPost, "/jwt", false, func(a *App) echo.HandlerFunc { return a.handleIssueToken }},
	{http.MethodPost, "/logout", false, func(a *App) echo.HandlerFunc { return a.handleLogout }},

	{http.MethodGet, "/blogs", false, func(a *App) echo.HandlerFunc { return a.handleListBlogs }},
	{http.MethodGet, "/blogs/:id", false, func(a *App) echo.HandlerFunc { return a.handleGetBlog }},
	{http.MethodPost, "/blogs", true, func(a *App) echo.HandlerFunc { return a.handleCreateBlog }},
	{http.MethodPut, "/blogs/:id", true, func(a *App) echo.HandlerFunc { return a.handleReplaceBlog }},

	{http.MethodPost, "/wishlist", true, func(a *App) echo.HandlerFunc { return a.handleCreateWishlistEntry }},
	{http.MethodGet, "/wishlist", true, func(a *App) echo.HandlerFunc { return a.handleListWishlist }},
	{http.MethodDelete, "/wishlist/:id", true, func(a *App) echo.HandlerFunc { return a.handleDeleteWishlistEntry }},

	{http.MethodPost, "/comments", true, func(a *App) echo.HandlerFunc { return a.handleCreateComment }},
	{http.MethodGet, "/comments/:id", false, func(a *App) echo.HandlerFunc { return a.handleListComments }},
}

func (a *App) setupRoutes() {
	for _, r := range routePolicies {
		var mw []echo.MiddlewareFunc
		if r.RequiresAuth {
			mw = append(mw, a.requireAuth)
		}
		a.Echo.Add(r.Method, r.Path, r.handler(a), mw...)
	}
}
