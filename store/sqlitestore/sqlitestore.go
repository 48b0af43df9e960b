// Package sqlitestore implements store.Store on a local SQLite file. It keeps
// the same ObjectID identifiers as the MongoDB backend so the HTTP layer
// cannot tell the two apart.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	_ "modernc.org/sqlite"

	"github.com/eringen/blogapi/store"
)

// Store wraps a SQLite database holding the three collections as tables.
type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Open opens (or creates) the SQLite database at path, ensures the data
// directory exists, and creates the schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: open: %w", err)
	}
	// WAL lets readers proceed during a write; busy_timeout makes writers
	// wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlitestore: pragmas: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlitestore: ensure schema: %w", err)
	}
	return s, nil
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS blogs (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    category TEXT NOT NULL,
    short_description TEXT NOT NULL,
    long_description TEXT NOT NULL,
    rating REAL NOT NULL DEFAULT 0,
    photo TEXT NOT NULL,
    created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS wishlist (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL,
    blog_id TEXT NOT NULL,
    title TEXT NOT NULL,
    category TEXT NOT NULL,
    short_description TEXT NOT NULL,
    photo TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS comments (
    id TEXT PRIMARY KEY,
    blog_id TEXT NOT NULL,
    comment TEXT NOT NULL,
    user_name TEXT NOT NULL DEFAULT '',
    user_email TEXT NOT NULL DEFAULT '',
    user_photo TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_wishlist_email ON wishlist(email);
CREATE INDEX IF NOT EXISTS idx_comments_blog_id ON comments(blog_id);
`)
	return err
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database connection.
func (s *Store) Close(context.Context) error {
	return s.db.Close()
}

// ListBlogs returns every blog post in insertion order.
func (s *Store) ListBlogs(ctx context.Context) ([]store.BlogPost, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, category, short_description, long_description, rating, photo, created_at FROM blogs ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list blogs: %w", err)
	}
	defer rows.Close()

	posts := make([]store.BlogPost, 0)
	for rows.Next() {
		post, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// GetBlog returns the post with id, or nil when none exists.
func (s *Store) GetBlog(ctx context.Context, id string) (*store.BlogPost, error) {
	oid, err := store.ParseID(id)
	if err != nil {
		return nil, err
	}
	post, err := getBlog(ctx, s.db, oid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get blog: %w", err)
	}
	return &post, nil
}

func getBlog(ctx context.Context, q querier, oid primitive.ObjectID) (store.BlogPost, error) {
	row := q.QueryRowContext(ctx, `SELECT id, title, category, short_description, long_description, rating, photo, created_at FROM blogs WHERE id = ?`, oid.Hex())
	return scanBlog(row)
}

// CreateBlog inserts a post under a fresh ObjectID.
func (s *Store) CreateBlog(ctx context.Context, post store.BlogPost) (store.InsertResult, error) {
	post.ID = primitive.NewObjectID()
	if _, err := s.db.ExecContext(ctx, `INSERT INTO blogs (id, title, category, short_description, long_description, rating, photo, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		post.ID.Hex(), post.Title, post.Category, post.ShortDescription, post.LongDescription, post.Rating, post.Photo, formatTime(post.CreatedAt)); err != nil {
		return store.InsertResult{}, fmt.Errorf("create blog: %w", err)
	}
	return store.InsertResult{Acknowledged: true, InsertedID: post.ID}, nil
}

// ReplaceBlog replaces the post with id, inserting it when no row matches.
// The lookup and write share a transaction so the reported counts match the
// write that happened.
func (s *Store) ReplaceBlog(ctx context.Context, id string, post store.BlogPost) (store.UpdateResult, error) {
	oid, err := store.ParseID(id)
	if err != nil {
		return store.UpdateResult{}, err
	}
	post.ID = oid

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return store.UpdateResult{}, fmt.Errorf("replace blog: %w", err)
	}
	defer tx.Rollback()

	res := store.UpdateResult{Acknowledged: true}
	existing, err := getBlog(ctx, tx, oid)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		res.UpsertedCount = 1
		res.UpsertedID = &oid
	case err != nil:
		return store.UpdateResult{}, fmt.Errorf("replace blog: %w", err)
	default:
		res.MatchedCount = 1
		if !sameBlog(existing, post) {
			res.ModifiedCount = 1
		}
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO blogs (id, title, category, short_description, long_description, rating, photo, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    title = excluded.title,
    category = excluded.category,
    short_description = excluded.short_description,
    long_description = excluded.long_description,
    rating = excluded.rating,
    photo = excluded.photo,
    created_at = excluded.created_at`,
		oid.Hex(), post.Title, post.Category, post.ShortDescription, post.LongDescription, post.Rating, post.Photo, formatTime(post.CreatedAt)); err != nil {
		return store.UpdateResult{}, fmt.Errorf("replace blog: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return store.UpdateResult{}, fmt.Errorf("replace blog: %w", err)
	}
	return res, nil
}

// CreateWishlistEntry inserts an entry; duplicates are allowed.
func (s *Store) CreateWishlistEntry(ctx context.Context, entry store.WishlistEntry) (store.InsertResult, error) {
	entry.ID = primitive.NewObjectID()
	if _, err := s.db.ExecContext(ctx, `INSERT INTO wishlist (id, email, blog_id, title, category, short_description, photo) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID.Hex(), entry.Email, entry.BlogID, entry.Title, entry.Category, entry.ShortDescription, entry.Photo); err != nil {
		return store.InsertResult{}, fmt.Errorf("create wishlist entry: %w", err)
	}
	return store.InsertResult{Acknowledged: true, InsertedID: entry.ID}, nil
}

// ListWishlist returns entries for email, or all entries when email is empty.
func (s *Store) ListWishlist(ctx context.Context, email string) ([]store.WishlistEntry, error) {
	var rows *sql.Rows
	var err error
	if email == "" {
		rows, err = s.db.QueryContext(ctx, `SELECT id, email, blog_id, title, category, short_description, photo FROM wishlist ORDER BY rowid`)
	} else {
		rows, err = s.db.QueryContext(ctx, `SELECT id, email, blog_id, title, category, short_description, photo FROM wishlist WHERE email = ? ORDER BY rowid`, email)
	}
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	defer rows.Close()

	entries := make([]store.WishlistEntry, 0)
	for rows.Next() {
		var id string
		var e store.WishlistEntry
		if err := rows.Scan(&id, &e.Email, &e.BlogID, &e.Title, &e.Category, &e.ShortDescription, &e.Photo); err != nil {
			return nil, err
		}
		if e.ID, err = primitive.ObjectIDFromHex(id); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// DeleteWishlistEntry removes the entry with id, owned by email when email is set.
func (s *Store) DeleteWishlistEntry(ctx context.Context, id, email string) (store.DeleteResult, error) {
	oid, err := store.ParseID(id)
	if err != nil {
		return store.DeleteResult{}, err
	}
	var res sql.Result
	if email == "" {
		res, err = s.db.ExecContext(ctx, `DELETE FROM wishlist WHERE id = ?`, oid.Hex())
	} else {
		res, err = s.db.ExecContext(ctx, `DELETE FROM wishlist WHERE id = ? AND email = ?`, oid.Hex(), email)
	}
	if err != nil {
		return store.DeleteResult{}, fmt.Errorf("delete wishlist entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return store.DeleteResult{}, fmt.Errorf("delete wishlist entry: %w", err)
	}
	return store.DeleteResult{Acknowledged: true, DeletedCount: n}, nil
}

// CreateComment inserts a comment.
func (s *Store) CreateComment(ctx context.Context, c store.Comment) (store.InsertResult, error) {
	c.ID = primitive.NewObjectID()
	if _, err := s.db.ExecContext(ctx, `INSERT INTO comments (id, blog_id, comment, user_name, user_email, user_photo, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID.Hex(), c.BlogID, c.Comment, c.UserName, c.UserEmail, c.UserPhoto, formatTime(c.CreatedAt)); err != nil {
		return store.InsertResult{}, fmt.Errorf("create comment: %w", err)
	}
	return store.InsertResult{Acknowledged: true, InsertedID: c.ID}, nil
}

// ListComments returns the comments whose blog id equals blogID.
func (s *Store) ListComments(ctx context.Context, blogID string) ([]store.Comment, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, blog_id, comment, user_name, user_email, user_photo, created_at FROM comments WHERE blog_id = ? ORDER BY rowid`, blogID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments := make([]store.Comment, 0)
	for rows.Next() {
		var id, createdAt string
		var c store.Comment
		if err := rows.Scan(&id, &c.BlogID, &c.Comment, &c.UserName, &c.UserEmail, &c.UserPhoto, &createdAt); err != nil {
			return nil, err
		}
		if c.ID, err = primitive.ObjectIDFromHex(id); err != nil {
			return nil, err
		}
		if c.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBlog(row scanner) (store.BlogPost, error) {
	var id, createdAt string
	var p store.BlogPost
	if err := row.Scan(&id, &p.Title, &p.Category, &p.ShortDescription, &p.LongDescription, &p.Rating, &p.Photo, &createdAt); err != nil {
		return store.BlogPost{}, err
	}
	var err error
	if p.ID, err = primitive.ObjectIDFromHex(id); err != nil {
		return store.BlogPost{}, err
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return store.BlogPost{}, err
	}
	return p, nil
}

func sameBlog(a, b store.BlogPost) bool {
	return a.Title == b.Title &&
		a.Category == b.Category &&
		a.ShortDescription == b.ShortDescription &&
		a.LongDescription == b.LongDescription &&
		a.Rating == b.Rating &&
		a.Photo == b.Photo &&
		a.CreatedAt.Equal(b.CreatedAt)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
