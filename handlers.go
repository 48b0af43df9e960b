package blogapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/blogapi/store"
)

const livenessMessage = "Blog Website is running"

func handleRoot(c echo.Context) error {
	return c.String(http.StatusOK, livenessMessage)
}

func (a *App) handleListBlogs(c echo.Context) error {
	posts, err := a.Cache.ListBlogs(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}

// handleGetBlog answers null, not 404, for an unknown id.
func (a *App) handleGetBlog(c echo.Context) error {
	post, err := a.Store.GetBlog(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

func (a *App) handleCreateBlog(c echo.Context) error {
	post, err := bindValid[store.BlogPost](c, a.schemas.blog)
	if err != nil {
		return err
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}
	res, err := a.Store.CreateBlog(c.Request().Context(), post)
	if err != nil {
		return err
	}
	a.Cache.Invalidate()
	return c.JSON(http.StatusOK, res)
}

// handleReplaceBlog replaces every field of the post. An unknown id creates
// the post under that id; the reply's upsertedId tells the caller which
// happened. A body without createdAt keeps the stored creation time.
func (a *App) handleReplaceBlog(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	if _, err := store.ParseID(id); err != nil {
		return err
	}
	post, err := bindValid[store.BlogPost](c, a.schemas.blog)
	if err != nil {
		return err
	}
	if post.CreatedAt.IsZero() {
		existing, err := a.Store.GetBlog(ctx, id)
		if err != nil {
			return err
		}
		if existing != nil {
			post.CreatedAt = existing.CreatedAt
		} else {
			post.CreatedAt = time.Now().UTC()
		}
	}
	res, err := a.Store.ReplaceBlog(ctx, id, post)
	if err != nil {
		return err
	}
	a.Cache.Invalidate()
	return c.JSON(http.StatusOK, res)
}
