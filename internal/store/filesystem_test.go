package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreWriteRead(t *testing.T) {
	base := t.TempDir()
	s, err := NewFileStore(base)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	key, err := s.Write(context.Background(), "mockups/a.png", []byte("img"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if key != "mockups/a.png" {
		t.Fatalf("key = %q", key)
	}

	data, err := s.Read(context.Background(), key)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(data) != "img" {
		t.Fatalf("data = %q", data)
	}

	if _, err := os.Stat(filepath.Join(base, "mockups", "a.png")); err != nil {
		t.Fatalf("file missing on disk: %v", err)
	}
}

func TestFileStoreRejectsTraversal(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	for _, key := range []string{"", ".", "../escape", "a/../../escape"} {
		if _, err := s.Write(context.Background(), key, []byte("x")); err == nil {
			t.Errorf("key %q should be rejected", key)
		}
	}
}
