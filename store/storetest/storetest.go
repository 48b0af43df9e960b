// Package storetest holds a behavioural suite every store.Store backend must pass.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/eringen/blogapi/store"
)

// Factory returns an empty store and registers its cleanup on t.
type Factory func(t *testing.T) store.Store

// Run executes the suite against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("CreateThenGetBlog", func(t *testing.T) { testCreateThenGetBlog(t, newStore(t)) })
	t.Run("GetBlogMissing", func(t *testing.T) { testGetBlogMissing(t, newStore(t)) })
	t.Run("ListBlogs", func(t *testing.T) { testListBlogs(t, newStore(t)) })
	t.Run("ReplaceBlogExisting", func(t *testing.T) { testReplaceBlogExisting(t, newStore(t)) })
	t.Run("ReplaceBlogUpserts", func(t *testing.T) { testReplaceBlogUpserts(t, newStore(t)) })
	t.Run("WishlistFilter", func(t *testing.T) { testWishlistFilter(t, newStore(t)) })
	t.Run("WishlistDelete", func(t *testing.T) { testWishlistDelete(t, newStore(t)) })
	t.Run("WishlistDeleteByOwner", func(t *testing.T) { testWishlistDeleteByOwner(t, newStore(t)) })
	t.Run("CommentsByBlog", func(t *testing.T) { testCommentsByBlog(t, newStore(t)) })
	t.Run("InvalidIDs", func(t *testing.T) { testInvalidIDs(t, newStore(t)) })
}

// BSON datetimes carry millisecond precision.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func samplePost(title string) store.BlogPost {
	return store.BlogPost{
		Title:            title,
		Category:         "travel",
		ShortDescription: "short " + title,
		LongDescription:  "long " + title,
		Rating:           4.5,
		Photo:            "https://example.com/" + title + ".jpg",
		CreatedAt:        now(),
	}
}

func testCreateThenGetBlog(t *testing.T, s store.Store) {
	ctx := context.Background()
	post := samplePost("alps")

	res, err := s.CreateBlog(ctx, post)
	require.NoError(t, err)
	assert.True(t, res.Acknowledged)
	require.False(t, res.InsertedID.IsZero())

	got, err := s.GetBlog(ctx, res.InsertedID.Hex())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, res.InsertedID, got.ID)
	assert.Equal(t, post.Title, got.Title)
	assert.Equal(t, post.Category, got.Category)
	assert.Equal(t, post.ShortDescription, got.ShortDescription)
	assert.Equal(t, post.LongDescription, got.LongDescription)
	assert.Equal(t, post.Rating, got.Rating)
	assert.Equal(t, post.Photo, got.Photo)
	assert.True(t, post.CreatedAt.Equal(got.CreatedAt), "CreatedAt = %v, want %v", got.CreatedAt, post.CreatedAt)
}

func testGetBlogMissing(t *testing.T, s store.Store) {
	got, err := s.GetBlog(context.Background(), primitive.NewObjectID().Hex())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func testListBlogs(t *testing.T, s store.Store) {
	ctx := context.Background()
	posts, err := s.ListBlogs(ctx)
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)

	for _, title := range []string{"one", "two", "three"} {
		_, err := s.CreateBlog(ctx, samplePost(title))
		require.NoError(t, err)
	}
	posts, err = s.ListBlogs(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	titles := map[string]bool{}
	for _, p := range posts {
		titles[p.Title] = true
	}
	assert.Equal(t, map[string]bool{"one": true, "two": true, "three": true}, titles)
}

func testReplaceBlogExisting(t *testing.T, s store.Store) {
	ctx := context.Background()
	ins, err := s.CreateBlog(ctx, samplePost("before"))
	require.NoError(t, err)

	updated := samplePost("after")
	updated.Rating = 2
	res, err := s.ReplaceBlog(ctx, ins.InsertedID.Hex(), updated)
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.MatchedCount)
	assert.EqualValues(t, 1, res.ModifiedCount)
	assert.EqualValues(t, 0, res.UpsertedCount)
	assert.Nil(t, res.UpsertedID)

	got, err := s.GetBlog(ctx, ins.InsertedID.Hex())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "after", got.Title)
	assert.Equal(t, float64(2), got.Rating)

	posts, err := s.ListBlogs(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 1)
}

func testReplaceBlogUpserts(t *testing.T, s store.Store) {
	ctx := context.Background()
	id := primitive.NewObjectID()

	res, err := s.ReplaceBlog(ctx, id.Hex(), samplePost("fresh"))
	require.NoError(t, err)
	assert.EqualValues(t, 0, res.MatchedCount)
	assert.EqualValues(t, 1, res.UpsertedCount)
	require.NotNil(t, res.UpsertedID)
	assert.Equal(t, id, *res.UpsertedID)

	got, err := s.GetBlog(ctx, id.Hex())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "fresh", got.Title)
}

func testWishlistFilter(t *testing.T, s store.Store) {
	ctx := context.Background()
	for _, email := range []string{"a@b.com", "c@d.com", "a@b.com"} {
		_, err := s.CreateWishlistEntry(ctx, store.WishlistEntry{
			Email:  email,
			BlogID: primitive.NewObjectID().Hex(),
			Title:  "saved",
		})
		require.NoError(t, err)
	}

	mine, err := s.ListWishlist(ctx, "a@b.com")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	for _, e := range mine {
		assert.Equal(t, "a@b.com", e.Email)
	}

	all, err := s.ListWishlist(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	none, err := s.ListWishlist(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func testWishlistDelete(t *testing.T, s store.Store) {
	ctx := context.Background()
	keep, err := s.CreateWishlistEntry(ctx, store.WishlistEntry{Email: "a@b.com", BlogID: "1"})
	require.NoError(t, err)
	drop, err := s.CreateWishlistEntry(ctx, store.WishlistEntry{Email: "a@b.com", BlogID: "2"})
	require.NoError(t, err)

	res, err := s.DeleteWishlistEntry(ctx, drop.InsertedID.Hex(), "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.DeletedCount)

	entries, err := s.ListWishlist(ctx, "")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, keep.InsertedID, entries[0].ID)

	res, err = s.DeleteWishlistEntry(ctx, drop.InsertedID.Hex(), "")
	require.NoError(t, err)
	assert.EqualValues(t, 0, res.DeletedCount)
}

func testWishlistDeleteByOwner(t *testing.T, s store.Store) {
	ctx := context.Background()
	entry, err := s.CreateWishlistEntry(ctx, store.WishlistEntry{Email: "a@b.com", BlogID: "1"})
	require.NoError(t, err)

	res, err := s.DeleteWishlistEntry(ctx, entry.InsertedID.Hex(), "c@d.com")
	require.NoError(t, err)
	assert.EqualValues(t, 0, res.DeletedCount)

	entries, err := s.ListWishlist(ctx, "a@b.com")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	res, err = s.DeleteWishlistEntry(ctx, entry.InsertedID.Hex(), "a@b.com")
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.DeletedCount)
}

func testCommentsByBlog(t *testing.T, s store.Store) {
	ctx := context.Background()
	blogA := primitive.NewObjectID().Hex()
	blogB := primitive.NewObjectID().Hex()

	for _, c := range []store.Comment{
		{BlogID: blogA, Comment: "first", UserName: "ana", CreatedAt: now()},
		{BlogID: blogB, Comment: "elsewhere", CreatedAt: now()},
		{BlogID: blogA, Comment: "second", CreatedAt: now()},
	} {
		_, err := s.CreateComment(ctx, c)
		require.NoError(t, err)
	}

	got, err := s.ListComments(ctx, blogA)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, c := range got {
		assert.Equal(t, blogA, c.BlogID)
	}

	empty, err := s.ListComments(ctx, "not-an-object-id")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func testInvalidIDs(t *testing.T, s store.Store) {
	ctx := context.Background()

	_, err := s.GetBlog(ctx, "nope")
	assert.True(t, errors.Is(err, store.ErrInvalidID), "GetBlog: %v", err)

	_, err = s.ReplaceBlog(ctx, "nope", samplePost("x"))
	assert.True(t, errors.Is(err, store.ErrInvalidID), "ReplaceBlog: %v", err)

	_, err = s.DeleteWishlistEntry(ctx, "nope", "")
	assert.True(t, errors.Is(err, store.ErrInvalidID), "DeleteWishlistEntry: %v", err)
}
