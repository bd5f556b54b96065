package preview

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/vango-dev/uploadbox/pkg/uploadbox"
)

// DecodeServerFiles reads a JSON array of server files.
func DecodeServerFiles(r io.Reader) ([]uploadbox.UploadedFile, error) {
	var files []uploadbox.UploadedFile
	if err := json.NewDecoder(r).Decode(&files); err != nil {
		return nil, fmt.Errorf("preview: decode file list: %w", err)
	}
	return files, nil
}

// ReadServerFiles reads a JSON array of server files from path.
func ReadServerFiles(path string) ([]uploadbox.UploadedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeServerFiles(f)
}

// WatchServerFiles replaces the box's server file list every time the
// JSON file at path changes. It blocks until ctx is done. A file that
// fails to parse is logged and skipped; the next write is picked up.
func WatchServerFiles(ctx context.Context, path string, box *uploadbox.Box, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("preview: watch %s: %w", path, err)
	}
	defer w.Close()

	// Editors often replace the file rather than write it, so watch
	// the directory and filter by name.
	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("preview: watch %s: %w", path, err)
	}
	target := filepath.Clean(path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			files, err := ReadServerFiles(path)
			if err != nil {
				logger.Warn("server file list not reloaded", "path", path, "error", err)
				continue
			}
			box.SetServerFiles(files)
			logger.Info("server file list reloaded", "path", path, "files", len(files))
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("file watch error", "path", path, "error", err)
		}
	}
}
