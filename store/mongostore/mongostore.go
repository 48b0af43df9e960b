// Package mongostore implements store.Store on MongoDB.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"github.com/eringen/blogapi/store"
)

// Config describes how to reach the database.
type Config struct {
	URI            string
	Database       string
	MaxPoolSize    uint64 // 0 keeps the driver default
	ConnectTimeout time.Duration
}

// Store is a store.Store backed by one shared *mongo.Client.
type Store struct {
	client   *mongo.Client
	blogs    *mongo.Collection
	wishlist *mongo.Collection
	comments *mongo.Collection
}

var _ store.Store = (*Store)(nil)

// Open connects to MongoDB with the Stable API v1, pings the deployment and
// ensures the lookup indexes exist.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.URI == "" {
		return nil, errors.New("mongostore: empty URI")
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}
	serverAPI := options.ServerAPI(options.ServerAPIVersion1).
		SetStrict(true).
		SetDeprecationErrors(true)
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerAPIOptions(serverAPI).
		SetWriteConcern(writeconcern.Majority()).
		SetRetryWrites(true).
		SetConnectTimeout(cfg.ConnectTimeout)
	if cfg.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(cfg.MaxPoolSize)
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongostore: connect: %w", err)
	}

	s := New(client, cfg.Database)
	if err := s.Ping(connectCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongostore: ping: %w", err)
	}
	if err := s.EnsureIndexes(connectCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongostore: ensure indexes: %w", err)
	}
	return s, nil
}

// New wraps an already connected client.
func New(client *mongo.Client, database string) *Store {
	db := client.Database(database)
	return &Store{
		client:   client,
		blogs:    db.Collection(store.BlogsCollection),
		wishlist: db.Collection(store.WishlistCollection),
		comments: db.Collection(store.CommentsCollection),
	}
}

// EnsureIndexes creates the non-unique indexes used by the filtered listings.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	if _, err := s.wishlist.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("email_1"),
	}); err != nil {
		return fmt.Errorf("wishlist email index: %w", err)
	}
	if _, err := s.comments.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "blogId", Value: 1}},
		Options: options.Index().SetName("blogId_1"),
	}); err != nil {
		return fmt.Errorf("comments blogId index: %w", err)
	}
	return nil
}

// Ping runs the ping command against the admin database.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// ListBlogs returns every blog post.
func (s *Store) ListBlogs(ctx context.Context) ([]store.BlogPost, error) {
	posts := make([]store.BlogPost, 0)
	if err := findAll(ctx, s.blogs, bson.D{}, &posts); err != nil {
		return nil, fmt.Errorf("list blogs: %w", err)
	}
	return posts, nil
}

// GetBlog returns the post with id, or nil when none exists.
func (s *Store) GetBlog(ctx context.Context, id string) (*store.BlogPost, error) {
	oid, err := store.ParseID(id)
	if err != nil {
		return nil, err
	}
	var post store.BlogPost
	err = s.blogs.FindOne(ctx, bson.M{"_id": oid}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get blog: %w", err)
	}
	return &post, nil
}

// CreateBlog inserts a post under a fresh ObjectID.
func (s *Store) CreateBlog(ctx context.Context, post store.BlogPost) (store.InsertResult, error) {
	post.ID = primitive.NewObjectID()
	return insertOne(ctx, s.blogs, post.ID, post)
}

// ReplaceBlog replaces the post with id, inserting it when no document matches.
func (s *Store) ReplaceBlog(ctx context.Context, id string, post store.BlogPost) (store.UpdateResult, error) {
	oid, err := store.ParseID(id)
	if err != nil {
		return store.UpdateResult{}, err
	}
	post.ID = oid
	res, err := s.blogs.ReplaceOne(ctx, bson.M{"_id": oid}, post, options.Replace().SetUpsert(true))
	if err != nil {
		return store.UpdateResult{}, fmt.Errorf("replace blog: %w", err)
	}
	out := store.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
	}
	if upserted, ok := res.UpsertedID.(primitive.ObjectID); ok {
		out.UpsertedID = &upserted
	}
	return out, nil
}

// CreateWishlistEntry inserts an entry; duplicates are allowed.
func (s *Store) CreateWishlistEntry(ctx context.Context, entry store.WishlistEntry) (store.InsertResult, error) {
	entry.ID = primitive.NewObjectID()
	return insertOne(ctx, s.wishlist, entry.ID, entry)
}

// ListWishlist returns entries for email, or all entries when email is empty.
func (s *Store) ListWishlist(ctx context.Context, email string) ([]store.WishlistEntry, error) {
	filter := bson.M{}
	if email != "" {
		filter["email"] = email
	}
	entries := make([]store.WishlistEntry, 0)
	if err := findAll(ctx, s.wishlist, filter, &entries); err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	return entries, nil
}

// DeleteWishlistEntry removes the entry with id, owned by email when email is set.
func (s *Store) DeleteWishlistEntry(ctx context.Context, id, email string) (store.DeleteResult, error) {
	oid, err := store.ParseID(id)
	if err != nil {
		return store.DeleteResult{}, err
	}
	filter := bson.M{"_id": oid}
	if email != "" {
		filter["email"] = email
	}
	res, err := s.wishlist.DeleteOne(ctx, filter)
	if err != nil {
		return store.DeleteResult{}, fmt.Errorf("delete wishlist entry: %w", err)
	}
	return store.DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

// CreateComment inserts a comment.
func (s *Store) CreateComment(ctx context.Context, comment store.Comment) (store.InsertResult, error) {
	comment.ID = primitive.NewObjectID()
	return insertOne(ctx, s.comments, comment.ID, comment)
}

// ListComments returns the comments whose blogId equals blogID.
func (s *Store) ListComments(ctx context.Context, blogID string) ([]store.Comment, error) {
	comments := make([]store.Comment, 0)
	if err := findAll(ctx, s.comments, bson.M{"blogId": blogID}, &comments); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

func insertOne(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, doc interface{}) (store.InsertResult, error) {
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		return store.InsertResult{}, fmt.Errorf("insert into %s: %w", coll.Name(), err)
	}
	return store.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

func findAll(ctx context.Context, coll *mongo.Collection, filter interface{}, results interface{}) error {
	cursor, err := coll.Find(ctx, filter)
	if err != nil {
		return err
	}
	return cursor.All(ctx, results)
}
