package blogapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/blogapi/store"
)

func (a *App) handleCreateWishlistEntry(c echo.Context) error {
	entry, err := bindValid[store.WishlistEntry](c, a.schemas.wishlist)
	if err != nil {
		return err
	}
	entry.Email = normalizeEmail(entry.Email)
	if ownerMismatch(c, entry.Email) {
		return errForbidden
	}
	res, err := a.Store.CreateWishlistEntry(c.Request().Context(), entry)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// handleListWishlist filters by the email query parameter when present and
// returns every entry otherwise.
func (a *App) handleListWishlist(c echo.Context) error {
	email := normalizeEmail(c.QueryParam("email"))
	if ownerMismatch(c, email) {
		return errForbidden
	}
	entries, err := a.Store.ListWishlist(c.Request().Context(), email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}

// handleDeleteWishlistEntry only removes entries owned by the credential's
// email. Another user's entry reports deletedCount 0, the same as an unknown id.
func (a *App) handleDeleteWishlistEntry(c echo.Context) error {
	res, err := a.Store.DeleteWishlistEntry(c.Request().Context(), c.Param("id"), credentialOwner(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}
