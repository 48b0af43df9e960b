package blogapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/blogapi/store"
)

func (a *App) handleCreateComment(c echo.Context) error {
	comment, err := bindValid[store.Comment](c, a.schemas.comment)
	if err != nil {
		return err
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}
	res, err := a.Store.CreateComment(c.Request().Context(), comment)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// handleListComments lists the comments of the blog post named by :id.
func (a *App) handleListComments(c echo.Context) error {
	comments, err := a.Store.ListComments(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comments)
}
