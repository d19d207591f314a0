package ocr

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileSourceReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "order.txt")
	if err := os.WriteFile(path, []byte("order text"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	src := NewFileSource()
	got, err := src.Text(context.Background(), path)
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if got != "order text" {
		t.Errorf("Text = %q", got)
	}
}

func TestFileSourceMissingFile(t *testing.T) {
	src := NewFileSource()
	if _, err := src.Text(context.Background(), filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestNewCommandSourceEmptySpec(t *testing.T) {
	if _, err := NewCommandSource("   "); err == nil {
		t.Fatal("expected error for empty command spec")
	}
}

func TestCommandSourcePlaceholder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "order.txt")
	if err := os.WriteFile(path, []byte("scanned text\n"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	src, err := NewCommandSource("cat {input}")
	if err != nil {
		t.Fatalf("NewCommandSource: %v", err)
	}
	got, err := src.Text(context.Background(), path)
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if got != "scanned text\n" {
		t.Errorf("Text = %q", got)
	}
}

func TestCommandSourceFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "order.txt")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	src, err := NewCommandSource("false")
	if err != nil {
		t.Fatalf("NewCommandSource: %v", err)
	}
	if _, err := src.Text(context.Background(), path); err == nil {
		t.Fatal("expected error from failing command")
	}
}
