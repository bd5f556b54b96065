package saver

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// maxSuffix bounds the "name (n).ext" search for a free file name.
const maxSuffix = 1000

// DiskSaver writes payloads into a local directory. Existing files are
// never overwritten; a clashing name gets a " (n)" suffix the way
// browsers name repeated downloads.
type DiskSaver struct {
	dir       string
	writeMeta bool

	mu   sync.Mutex
	last string
}

// diskMeta is the optional sidecar written next to each saved file.
type diskMeta struct {
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	SavedAt     time.Time `json:"saved_at"`
}

// NewDiskSaver creates a DiskSaver, creating dir if needed.
func NewDiskSaver(dir string) (*DiskSaver, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &DiskSaver{dir: dir}, nil
}

// WithMeta makes the saver write a "<file>.meta" JSON sidecar holding the
// content type and save time.
func (s *DiskSaver) WithMeta() *DiskSaver {
	s.writeMeta = true
	return s
}

// Dir returns the target directory.
func (s *DiskSaver) Dir() string {
	return s.dir
}

// LastPath returns the path of the most recently saved file.
func (s *DiskSaver) LastPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Save writes data to the directory under name.
func (s *DiskSaver) Save(ctx context.Context, name string, data []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(data) == 0 {
		return ErrEmpty
	}
	base, err := cleanName(name)
	if err != nil {
		return fmt.Errorf("%w: %q", err, name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path, f, err := s.create(base)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return err
	}

	if s.writeMeta {
		meta := diskMeta{
			Filename:    name,
			ContentType: contentType,
			Size:        int64(len(data)),
			SavedAt:     time.Now(),
		}
		if err := writeMeta(path+".meta", meta); err != nil {
			return err
		}
	}

	s.last = path
	return nil
}

// create opens the first free "name", "name (1)", ... in the directory.
func (s *DiskSaver) create(base string) (string, *os.File, error) {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	for i := 0; i < maxSuffix; i++ {
		candidate := base
		if i > 0 {
			candidate = fmt.Sprintf("%s (%d)%s", stem, i, ext)
		}
		path := filepath.Join(s.dir, candidate)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err == nil {
			return path, f, nil
		}
		if !os.IsExist(err) {
			return "", nil, err
		}
	}
	return "", nil, fmt.Errorf("saver: no free name for %q in %s", base, s.dir)
}

func writeMeta(path string, meta diskMeta) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
