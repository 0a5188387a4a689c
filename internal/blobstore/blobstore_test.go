package blobstore_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/avolkov/pantrypal/internal/blobstore"
)

// backends returns every store implementation that can run without an
// external database.
func backends(t *testing.T) map[string]blobstore.Store {
	t.Helper()

	fileStore, err := blobstore.NewFile(filepath.Join(t.TempDir(), "blobs"))
	if err != nil {
		t.Fatalf("NewFile failed: %v", err)
	}

	sqliteStore, err := blobstore.OpenSQLite(filepath.Join(t.TempDir(), "blobs.db"))
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	t.Cleanup(func() { _ = sqliteStore.Close() })

	return map[string]blobstore.Store{
		"memory": blobstore.NewMemory(),
		"file":   fileStore,
		"sqlite": sqliteStore,
	}
}

func TestStore_GetMissingKey(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get(context.Background(), "absent")
			if !errors.Is(err, blobstore.ErrKeyNotFound) {
				t.Errorf("Get error = %v; want ErrKeyNotFound", err)
			}
		})
	}
}

func TestStore_SetGetOverwrite(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := store.Set(ctx, "scannedItems", []byte(`[{"title":"Milk"}]`)); err != nil {
				t.Fatalf("Set failed: %v", err)
			}

			got, err := store.Get(ctx, "scannedItems")
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if string(got) != `[{"title":"Milk"}]` {
				t.Errorf("Get = %s; want stored value", got)
			}

			if err := store.Set(ctx, "scannedItems", []byte(`[]`)); err != nil {
				t.Fatalf("overwrite failed: %v", err)
			}
			got, err = store.Get(ctx, "scannedItems")
			if err != nil {
				t.Fatalf("Get after overwrite failed: %v", err)
			}
			if string(got) != `[]` {
				t.Errorf("Get after overwrite = %s; want []", got)
			}
		})
	}
}

func TestStore_DeleteIsIdempotent(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := store.Set(ctx, "k", []byte("v")); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			if err := store.Delete(ctx, "k"); err != nil {
				t.Fatalf("Delete failed: %v", err)
			}
			if err := store.Delete(ctx, "k"); err != nil {
				t.Errorf("second Delete = %v; want nil", err)
			}
			if _, err := store.Get(ctx, "k"); !errors.Is(err, blobstore.ErrKeyNotFound) {
				t.Errorf("Get after delete = %v; want ErrKeyNotFound", err)
			}
		})
	}
}
