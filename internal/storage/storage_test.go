package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNewFSStore(t *testing.T) {
	t.Run("creates missing directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "out", "nested")
		store, err := NewFSStore(dir)
		if err != nil {
			t.Fatalf("NewFSStore() error = %v", err)
		}
		if store.Dir() != dir {
			t.Errorf("Dir() = %q, want %q", store.Dir(), dir)
		}
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Error("output directory was not created")
		}
	})

	t.Run("empty dir defaults to current directory", func(t *testing.T) {
		store, err := NewFSStore("")
		if err != nil {
			t.Fatalf("NewFSStore() error = %v", err)
		}
		if store.Dir() != "." {
			t.Errorf("Dir() = %q, want .", store.Dir())
		}
	})
}

func TestFSStore_Save(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFSStore(dir)
	if err != nil {
		t.Fatalf("NewFSStore() error = %v", err)
	}

	t.Run("writes the artifact", func(t *testing.T) {
		path, err := store.Save("inv-42.pdf", []byte("%PDF-1.4"))
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if path != filepath.Join(dir, "inv-42.pdf") {
			t.Errorf("path = %q", path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("reading artifact: %v", err)
		}
		if string(data) != "%PDF-1.4" {
			t.Errorf("content = %q", data)
		}
	})

	t.Run("rejects empty filename", func(t *testing.T) {
		if _, err := store.Save("", []byte("x")); !errors.Is(err, ErrEmptyFilename) {
			t.Errorf("error = %v, want %v", err, ErrEmptyFilename)
		}
	})

	t.Run("rejects traversal", func(t *testing.T) {
		for _, name := range []string{"../escape.pdf", "a/b.pdf", "a\\b.pdf", "..name.pdf"} {
			if _, err := store.Save(name, []byte("x")); !errors.Is(err, ErrUnsafeFilename) {
				t.Errorf("Save(%q) error = %v, want %v", name, err, ErrUnsafeFilename)
			}
		}
	})

	t.Run("rejects empty payload", func(t *testing.T) {
		if _, err := store.Save("empty.pdf", nil); !errors.Is(err, ErrNothingToStore) {
			t.Errorf("error = %v, want %v", err, ErrNothingToStore)
		}
	})
}
