// Package store defines the document collections of the blog backend and the
// Store interface implemented by the MongoDB and SQLite backends.
package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection names shared by every backend.
const (
	BlogsCollection    = "blogs"
	WishlistCollection = "wishlist"
	CommentsCollection = "comments"
)

// ErrInvalidID is returned when an identifier is not a valid ObjectID hex string.
var ErrInvalidID = errors.New("store: invalid id")

// Store is the persistence boundary. Each method maps to a single call on the
// underlying database; there is no batching and no cross-collection transaction.
type Store interface {
	ListBlogs(ctx context.Context) ([]BlogPost, error)
	// GetBlog returns nil without error when no post has the id.
	GetBlog(ctx context.Context, id string) (*BlogPost, error)
	CreateBlog(ctx context.Context, post BlogPost) (InsertResult, error)
	// ReplaceBlog replaces every field of the post with id, creating it when absent.
	ReplaceBlog(ctx context.Context, id string, post BlogPost) (UpdateResult, error)

	CreateWishlistEntry(ctx context.Context, entry WishlistEntry) (InsertResult, error)
	// ListWishlist returns entries owned by email, or every entry when email is empty.
	ListWishlist(ctx context.Context, email string) ([]WishlistEntry, error)
	// DeleteWishlistEntry removes the entry with id. A non-empty email limits
	// the delete to an entry owned by email.
	DeleteWishlistEntry(ctx context.Context, id, email string) (DeleteResult, error)

	CreateComment(ctx context.Context, comment Comment) (InsertResult, error)
	ListComments(ctx context.Context, blogID string) ([]Comment, error)

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// ParseID converts a hex identifier into an ObjectID.
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return oid, nil
}

// InsertResult acknowledges a single-document insert.
type InsertResult struct {
	Acknowledged bool               `json:"acknowledged"`
	InsertedID   primitive.ObjectID `json:"insertedId"`
}

// UpdateResult acknowledges a replace. UpsertedID is set only when the
// replace created a new document.
type UpdateResult struct {
	Acknowledged  bool                `json:"acknowledged"`
	MatchedCount  int64               `json:"matchedCount"`
	ModifiedCount int64               `json:"modifiedCount"`
	UpsertedCount int64               `json:"upsertedCount"`
	UpsertedID    *primitive.ObjectID `json:"upsertedId"`
}

// DeleteResult acknowledges a delete.
type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}
