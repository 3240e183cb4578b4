package cloud

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T, maxBytes int64) *FileStore {
	t.Helper()

	store, err := NewFileStore(t.TempDir(), maxBytes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return store
}

func TestFileStore_PutGetDelete(t *testing.T) {
	store := newTestStore(t, 0)

	data := []byte("ciphertext bytes")
	if err := store.Put("2'3'1700000000.txt", data); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := store.Get("2'3'1700000000.txt")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatal("stored and fetched bytes differ")
	}

	if err := store.Delete("2'3'1700000000.txt"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := store.Get("2'3'1700000000.txt"); err != ErrBlobNotFound {
		t.Fatalf("expected ErrBlobNotFound, got %v", err)
	}
}

func TestFileStore_GetMissing(t *testing.T) {
	store := newTestStore(t, 0)

	if _, err := store.Get("nope.txt"); err != ErrBlobNotFound {
		t.Fatalf("expected ErrBlobNotFound, got %v", err)
	}
}

func TestFileStore_PutOverwrites(t *testing.T) {
	store := newTestStore(t, 0)

	if err := store.Put("b.txt", []byte("one")); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Put("b.txt", []byte("two")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, err := store.Get("b.txt")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "two" {
		t.Fatalf("unexpected content: %s", got)
	}
}

func TestFileStore_Create(t *testing.T) {
	store := newTestStore(t, 0)

	if err := store.Create("debit'2'3'1700000000.txt", ".txt", []byte("x")); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := store.Create("debit'2'3'1700000000.txt", ".txt", []byte("y")); err != ErrBlobExists {
		t.Fatalf("expected ErrBlobExists, got %v", err)
	}
}

func TestFileStore_CreateBadSuffix(t *testing.T) {
	store := newTestStore(t, 0)

	if err := store.Create("debit.bin", ".txt", []byte("x")); err != ErrBadSuffix {
		t.Fatalf("expected ErrBadSuffix, got %v", err)
	}
}

func TestFileStore_SizeCap(t *testing.T) {
	store := newTestStore(t, 8)

	big := make([]byte, 9)
	if err := store.Put("big.txt", big); err != ErrBlobTooLarge {
		t.Fatalf("expected ErrBlobTooLarge, got %v", err)
	}
	if err := store.Create("big.txt", ".txt", big); err != ErrBlobTooLarge {
		t.Fatalf("expected ErrBlobTooLarge, got %v", err)
	}
}

func TestFileStore_RejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(filepath.Join(dir, "blobs"), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	names := []string{
		"",
		".",
		"..",
		"../escape.txt",
		"sub/escape.txt",
		`sub\escape.txt`,
	}
	for _, name := range names {
		if err := store.Put(name, []byte("x")); err != ErrOutsideRoot {
			t.Errorf("Put(%q): expected ErrOutsideRoot, got %v", name, err)
		}
		if _, err := store.Get(name); err != ErrOutsideRoot {
			t.Errorf("Get(%q): expected ErrOutsideRoot, got %v", name, err)
		}
	}

	// Nothing may have leaked outside the root.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "blobs" {
		t.Fatalf("unexpected entries outside root: %v", entries)
	}
}
