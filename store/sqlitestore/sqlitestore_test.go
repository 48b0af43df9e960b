package sqlitestore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/eringen/blogapi/store"
	"github.com/eringen/blogapi/store/storetest"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "blog.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close(context.Background()) })
	return s
}

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return setupTestStore(t)
	})
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data", "blog.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close(context.Background())

	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blog.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	res, err := s.CreateBlog(ctx, store.BlogPost{Title: "persisted"})
	if err != nil {
		t.Fatalf("CreateBlog failed: %v", err)
	}
	s.Close(ctx)

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s.Close(ctx)

	got, err := s.GetBlog(ctx, res.InsertedID.Hex())
	if err != nil {
		t.Fatalf("GetBlog failed: %v", err)
	}
	if got == nil || got.Title != "persisted" {
		t.Errorf("GetBlog = %+v, want title %q", got, "persisted")
	}
}

func TestReplaceBlogUnchangedReportsNoModification(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	post := store.BlogPost{Title: "same", Category: "food"}
	res, err := s.CreateBlog(ctx, post)
	if err != nil {
		t.Fatalf("CreateBlog failed: %v", err)
	}
	upd, err := s.ReplaceBlog(ctx, res.InsertedID.Hex(), post)
	if err != nil {
		t.Fatalf("ReplaceBlog failed: %v", err)
	}
	if upd.MatchedCount != 1 || upd.ModifiedCount != 0 {
		t.Errorf("matched=%d modified=%d, want 1 and 0", upd.MatchedCount, upd.ModifiedCount)
	}
}
