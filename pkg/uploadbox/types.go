package uploadbox

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ServerFile is a file the server already knows about.
type ServerFile struct {
	Seq         string `json:"seq"`
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	UserSeq     string `json:"user_seq,omitempty"`
	UserName    string `json:"user_name,omitempty"`
	CreatedTime string `json:"created_time,omitempty"`
}

// UploadedFile is a server file as the box displays it.
type UploadedFile struct {
	ServerFile

	// TableName is the bucket the file is stored under.
	TableName string `json:"table_name"`

	// ToDelete marks the file for deletion on the next commit. UI only.
	ToDelete bool `json:"toDelete,omitempty"`

	// Readonly files cannot be marked for deletion.
	Readonly bool `json:"readonly,omitempty"`
}

// Attachment is a locally selected file that has not been uploaded yet.
type Attachment struct {
	// Key identifies the attachment for rendering and live actions.
	Key         string
	Name        string
	Size        int64
	ContentType string

	open func() (io.ReadCloser, error)
}

// NewAttachment creates an attachment whose content is produced by open.
func NewAttachment(name string, size int64, contentType string, open func() (io.ReadCloser, error)) Attachment {
	if contentType == "" {
		contentType = contentTypeFor(name, nil)
	}
	return Attachment{
		Key:         uuid.NewString(),
		Name:        name,
		Size:        size,
		ContentType: contentType,
		open:        open,
	}
}

// BytesAttachment creates an attachment held in memory.
func BytesAttachment(name string, data []byte) Attachment {
	return NewAttachment(name, int64(len(data)), contentTypeFor(name, data), func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	})
}

// FileAttachment creates an attachment backed by a file on disk. The file
// is opened again every time the content is read.
func FileAttachment(path string) (Attachment, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Attachment{}, err
	}
	if info.IsDir() {
		return Attachment{}, fmt.Errorf("uploadbox: %s is a directory", path)
	}
	return NewAttachment(filepath.Base(path), info.Size(), "", func() (io.ReadCloser, error) {
		return os.Open(path)
	}), nil
}

// Open returns a reader over the attachment content.
func (a Attachment) Open() (io.ReadCloser, error) {
	if a.open == nil {
		return nil, fmt.Errorf("uploadbox: attachment %q has no content", a.Name)
	}
	return a.open()
}

func contentTypeFor(name string, data []byte) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	if len(data) > 0 {
		return http.DetectContentType(data)
	}
	return "application/octet-stream"
}

// Snapshot is a copy of the box state at one point in time.
type Snapshot struct {
	ServerFiles []UploadedFile
	Pending     []UploadedFile
	Attachments []Attachment
	DragOver    bool
}

// VisibleCount returns how many server files are not marked for deletion.
func (s Snapshot) VisibleCount() int {
	n := 0
	for _, f := range s.ServerFiles {
		if !f.ToDelete {
			n++
		}
	}
	return n
}
