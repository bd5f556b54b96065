package uploadbox

import (
	"fmt"
	"log/slog"

	"github.com/vango-dev/uploadbox/pkg/toast"
)

// Variant selects how the box is drawn.
type Variant string

const (
	// VariantBox draws a drag-and-drop zone followed by the file list.
	VariantBox Variant = "box"
	// VariantIcon draws only an attach button.
	VariantIcon Variant = "icon"
	// VariantList draws only the server file list, without remove actions.
	VariantList Variant = "list"
)

// Valid reports whether v is a known variant.
func (v Variant) Valid() bool {
	switch v {
	case VariantBox, VariantIcon, VariantList:
		return true
	}
	return false
}

// Default endpoint paths used when a Config leaves them empty.
const (
	DefaultUploaderURL   = "/upload/uploader"
	DefaultDeleterURL    = "/upload/deleter"
	DefaultDownloaderURL = "/downloader"
)

// Defaults for the visual options.
const (
	DefaultHeight       = 100
	DefaultIconSize     = 16
	DefaultMaxSizeMB    = 20
	DefaultDropzoneText = "Drag and drop files here or click to select"
	DefaultNoFilesText  = "No files"
)

// DefaultAcceptedTypes is the extension allow-list of DefaultConfig.
var DefaultAcceptedTypes = []string{
	"jpg", "jpeg", "png", "gif", "svg",
	"pdf", "doc", "docx", "xls", "xlsx", "ppt", "txt", "pptx",
	"hwp", "hwpx", "csv", "json", "xml", "log", "html", "htm",
	"zip", "rar", "egg",
}

// Styles holds per-region CSS overrides. Each value is appended to the
// region's inline style.
type Styles struct {
	Container        string `json:"container,omitempty"`
	Dropzone         string `json:"dropzone,omitempty"`
	FileItem         string `json:"fileItem,omitempty"`
	AttachedFileItem string `json:"attachedFileItem,omitempty"`
	DeleteIcon       string `json:"deleteIcon,omitempty"`
	Tooltip          string `json:"tooltip,omitempty"`
}

// Config is the configuration surface of a Box. Start from
// DefaultConfig; New fills empty strings and non-positive sizes with
// defaults but cannot tell an unset bool from false.
type Config struct {
	UploaderURL   string   `json:"uploaderUrl,omitempty"`
	DeleterURL    string   `json:"deleterUrl,omitempty"`
	DownloaderURL string   `json:"downloaderUrl,omitempty"`
	Multiple      bool     `json:"multiple"`
	Height        int      `json:"height,omitempty"`
	ViewInBrowser bool     `json:"viewInBrowser"`
	AcceptedTypes []string `json:"acceptedTypes"`
	MaxFileSizeMB float64  `json:"maxFileSize,omitempty"`
	Variant       Variant  `json:"variant,omitempty"`
	IconSize      int      `json:"iconSize,omitempty"`
	DropzoneText  string   `json:"dropzoneText,omitempty"`
	NoFilesText   string   `json:"noFilesText,omitempty"`
	ShowTooltip   bool     `json:"showTooltip"`
	Styles        Styles   `json:"styles"`
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		UploaderURL:   DefaultUploaderURL,
		DeleterURL:    DefaultDeleterURL,
		DownloaderURL: DefaultDownloaderURL,
		Multiple:      true,
		Height:        DefaultHeight,
		ViewInBrowser: true,
		AcceptedTypes: append([]string(nil), DefaultAcceptedTypes...),
		MaxFileSizeMB: DefaultMaxSizeMB,
		Variant:       VariantBox,
		IconSize:      DefaultIconSize,
		DropzoneText:  DefaultDropzoneText,
		NoFilesText:   DefaultNoFilesText,
		ShowTooltip:   true,
	}
}

// normalize fills zero values with defaults.
func (c Config) normalize() Config {
	if c.UploaderURL == "" {
		c.UploaderURL = DefaultUploaderURL
	}
	if c.DeleterURL == "" {
		c.DeleterURL = DefaultDeleterURL
	}
	if c.DownloaderURL == "" {
		c.DownloaderURL = DefaultDownloaderURL
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	if c.MaxFileSizeMB <= 0 {
		c.MaxFileSizeMB = DefaultMaxSizeMB
	}
	if c.Variant == "" {
		c.Variant = VariantBox
	}
	if c.IconSize <= 0 {
		c.IconSize = DefaultIconSize
	}
	if c.DropzoneText == "" {
		c.DropzoneText = DefaultDropzoneText
	}
	if c.NoFilesText == "" {
		c.NoFilesText = DefaultNoFilesText
	}
	c.AcceptedTypes = append([]string(nil), c.AcceptedTypes...)
	return c
}

// Validate reports configuration values New cannot repair.
func (c Config) Validate() error {
	if c.Variant != "" && !c.Variant.Valid() {
		return fmt.Errorf("uploadbox: unknown variant %q (want box, icon or list)", c.Variant)
	}
	if c.MaxFileSizeMB < 0 {
		return fmt.Errorf("uploadbox: maxFileSize must not be negative, got %v", c.MaxFileSizeMB)
	}
	return nil
}

// Validator returns the validator described by c.
func (c Config) Validator() Validator {
	return Validator{AcceptedTypes: c.AcceptedTypes, MaxSizeMB: c.MaxFileSizeMB}
}

// Option configures the collaborators of a Box.
type Option func(*Box)

// WithClient sets the HTTP helper used for upload, delete and download.
func WithClient(api API) Option {
	return func(b *Box) {
		b.api = api
	}
}

// WithNotifier sets where validation toasts go.
func WithNotifier(e toast.Emitter) Option {
	return func(b *Box) {
		b.notifier = e
	}
}

// WithViewer sets the embedded viewer controller.
func WithViewer(v Viewer) Option {
	return func(b *Box) {
		b.viewer = v
	}
}

// WithSaver sets the save-to-disk action for downloaded payloads.
func WithSaver(s Saver) Option {
	return func(b *Box) {
		b.saver = s
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(b *Box) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithMetrics sets the Prometheus collectors the box reports to.
func WithMetrics(m *Metrics) Option {
	return func(b *Box) {
		b.metrics = m
	}
}

// WithFiles sets the initial server file list.
func WithFiles(files []UploadedFile) Option {
	return func(b *Box) {
		b.state.setServerFiles(files)
	}
}
