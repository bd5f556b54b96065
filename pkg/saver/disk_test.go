package saver_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vango-dev/uploadbox/pkg/saver"
)

func TestDiskSaver_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "downloads")
	s, err := saver.NewDiskSaver(dir)
	if err != nil {
		t.Fatalf("NewDiskSaver: %v", err)
	}

	if err := s.Save(context.Background(), "report.zip", []byte("zip data"), "application/zip"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "report.zip"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "zip data" {
		t.Errorf("content = %q", data)
	}
	if s.LastPath() != filepath.Join(dir, "report.zip") {
		t.Errorf("LastPath = %q", s.LastPath())
	}
}

func TestDiskSaver_NeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	s, err := saver.NewDiskSaver(dir)
	if err != nil {
		t.Fatalf("NewDiskSaver: %v", err)
	}

	for _, content := range []string{"one", "two", "three"} {
		if err := s.Save(context.Background(), "a.txt", []byte(content), "text/plain"); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	want := map[string]string{"a.txt": "one", "a (1).txt": "two", "a (2).txt": "three"}
	for name, content := range want {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("ReadFile(%s): %v", name, err)
			continue
		}
		if string(data) != content {
			t.Errorf("%s = %q, want %q", name, data, content)
		}
	}
}

func TestDiskSaver_StripsDirectories(t *testing.T) {
	dir := t.TempDir()
	s, _ := saver.NewDiskSaver(dir)

	for _, name := range []string{"../../etc/passwd", `..\..\evil.txt`} {
		if err := s.Save(context.Background(), name, []byte("x"), ""); err != nil {
			t.Fatalf("Save(%q): %v", name, err)
		}
		if filepath.Dir(s.LastPath()) != dir {
			t.Errorf("Save(%q) wrote %s outside %s", name, s.LastPath(), dir)
		}
	}
}

func TestDiskSaver_Rejects(t *testing.T) {
	s, _ := saver.NewDiskSaver(t.TempDir())

	if err := s.Save(context.Background(), "a.txt", nil, ""); !errors.Is(err, saver.ErrEmpty) {
		t.Errorf("empty payload: err = %v", err)
	}
	for _, name := range []string{"", "..", "/"} {
		if err := s.Save(context.Background(), name, []byte("x"), ""); !errors.Is(err, saver.ErrInvalidName) {
			t.Errorf("name %q: err = %v", name, err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Save(ctx, "a.txt", []byte("x"), ""); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled: err = %v", err)
	}
}

func TestDiskSaver_WithMeta(t *testing.T) {
	dir := t.TempDir()
	s, _ := saver.NewDiskSaver(dir)
	s.WithMeta()

	if err := s.Save(context.Background(), "data.csv", []byte("a,b"), "text/csv"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "data.csv.meta"))
	if err != nil {
		t.Fatalf("expected meta file: %v", err)
	}
	var meta struct {
		Filename    string `json:"filename"`
		ContentType string `json:"content_type"`
		Size        int64  `json:"size"`
	}
	if err := json.Unmarshal(raw, &meta); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if meta.Filename != "data.csv" || meta.ContentType != "text/csv" || meta.Size != 3 {
		t.Errorf("meta = %+v", meta)
	}
}
