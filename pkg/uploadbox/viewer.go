package uploadbox

import (
	"context"
	"net/url"
	"sync"

	"github.com/vango-dev/uploadbox/pkg/vdom"
)

// viewableExtensions open in the embedded viewer when ViewInBrowser is on.
var viewableExtensions = map[string]bool{
	"pdf": true, "jpg": true, "jpeg": true, "png": true, "gif": true,
	"bmp": true, "webp": true, "svg": true, "txt": true, "html": true,
	"htm": true, "csv": true, "xls": true, "xlsx": true, "js": true,
	"jsx": true, "ts": true, "tsx": true, "css": true, "scss": true,
	"sass": true, "less": true, "php": true, "py": true, "java": true,
	"c": true, "cpp": true, "h": true, "hpp": true, "cs": true,
	"go": true, "rs": true, "rb": true, "swift": true, "kt": true,
	"scala": true, "sql": true, "sh": true, "bash": true, "bat": true,
	"ps1": true, "yml": true, "yaml": true, "toml": true, "ini": true,
	"conf": true, "json": true, "xml": true, "log": true, "md": true,
	"markdown": true,
}

// alwaysViewable open in the viewer even with ViewInBrowser off.
var alwaysViewable = map[string]bool{
	"pdf": true, "csv": true, "xls": true, "xlsx": true,
}

// IsViewable reports whether name opens in the embedded viewer rather
// than being downloaded.
func IsViewable(name string, viewInBrowser bool) bool {
	ext := Extension(name)
	if alwaysViewable[ext] {
		return true
	}
	return viewInBrowser && viewableExtensions[ext]
}

// Viewer is the embedded file viewer controller.
type Viewer interface {
	Open(file UploadedFile)
	Close()
}

// Saver exposes a downloaded payload to the user as a saved file.
type Saver interface {
	Save(ctx context.Context, name string, data []byte, contentType string) error
}

// SaverFunc adapts a function to Saver.
type SaverFunc func(ctx context.Context, name string, data []byte, contentType string) error

// Save implements Saver.
func (f SaverFunc) Save(ctx context.Context, name string, data []byte, contentType string) error {
	return f(ctx, name, data, contentType)
}

// ModalViewer is a Viewer that remembers the selected file and renders
// an iframe modal pointing at URL(file).
type ModalViewer struct {
	// URL builds the address the iframe loads.
	URL func(file UploadedFile) string

	mu       sync.Mutex
	selected *UploadedFile
}

// ViewerURL returns a URL builder that points at base with table and seq
// query parameters.
func ViewerURL(base string) func(UploadedFile) string {
	return func(f UploadedFile) string {
		q := url.Values{}
		q.Set("table_name", f.TableName)
		q.Set("data_seq", f.Seq)
		q.Set("name", f.Name)
		return base + "?" + q.Encode()
	}
}

// Open implements Viewer.
func (m *ModalViewer) Open(file UploadedFile) {
	m.mu.Lock()
	m.selected = &file
	m.mu.Unlock()
}

// Close implements Viewer.
func (m *ModalViewer) Close() {
	m.mu.Lock()
	m.selected = nil
	m.mu.Unlock()
}

// Selected returns the open file, if any.
func (m *ModalViewer) Selected() (UploadedFile, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.selected == nil {
		return UploadedFile{}, false
	}
	return *m.selected, true
}

// Render draws the modal, or nothing when closed.
func (m *ModalViewer) Render() *vdom.VNode {
	file, ok := m.Selected()
	if !ok {
		return nil
	}
	src := ""
	if m.URL != nil {
		src = m.URL(file)
	}
	return vdom.Div(
		vdom.Class("uploadbox-viewer"),
		vdom.Role("dialog"),
		vdom.AriaModal(true),
		vdom.AriaLabel(file.Name),
		vdom.Div(
			vdom.Class("uploadbox-viewer-header"),
			vdom.Span(file.Name),
			vdom.Button(vdom.Type("button"), vdom.Data("action", ActionCloseViewer), vdom.AriaLabel("Close"), "×"),
		),
		vdom.Iframe(vdom.Class("uploadbox-viewer-frame"), vdom.Src(src), vdom.TitleAttr(file.Name)),
	)
}
