package preview

import (
	"context"
	"errors"
	"mime"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vango-dev/uploadbox/pkg/toast"
	"github.com/vango-dev/uploadbox/pkg/uploadbox"
)

// DownloadEvent is the event name that tells a browser to fetch a
// prepared download.
const DownloadEvent = "uploadbox:download"

// DefaultDownloadTTL bounds how long an unclaimed download is held.
const DefaultDownloadTTL = 5 * time.Minute

// ErrNoDownloadTarget is returned by Save when no browser is listening.
var ErrNoDownloadTarget = errors.New("preview: no download target")

type pendingDownload struct {
	name        string
	contentType string
	data        []byte
	expires     time.Time
}

// Downloads is an uploadbox.Saver that hands payloads to the browser. Save
// parks the payload under a one-shot token and emits DownloadEvent with
// the URL the client fetches it from.
type Downloads struct {
	emitter toast.Emitter
	ttl     time.Duration
	now     func() time.Time

	mu      sync.Mutex
	pending map[string]pendingDownload
}

var _ uploadbox.Saver = (*Downloads)(nil)

// NewDownloads creates a Downloads that announces payloads through
// emitter, normally the live Hub.
func NewDownloads(emitter toast.Emitter) *Downloads {
	return &Downloads{
		emitter: emitter,
		ttl:     DefaultDownloadTTL,
		now:     time.Now,
		pending: make(map[string]pendingDownload),
	}
}

// Save implements uploadbox.Saver.
func (d *Downloads) Save(_ context.Context, name string, data []byte, contentType string) error {
	if d.emitter == nil {
		return ErrNoDownloadTarget
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	token := uuid.NewString()
	now := d.now()

	d.mu.Lock()
	for k, p := range d.pending {
		if now.After(p.expires) {
			delete(d.pending, k)
		}
	}
	d.pending[token] = pendingDownload{name: name, contentType: contentType, data: data, expires: now.Add(d.ttl)}
	d.mu.Unlock()

	d.emitter.Emit(DownloadEvent, map[string]any{
		"url":  "/download/" + token,
		"name": name,
	})
	return nil
}

// take removes and returns the payload for token.
func (d *Downloads) take(token string) (pendingDownload, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.pending[token]
	if !ok {
		return pendingDownload{}, false
	}
	delete(d.pending, token)
	if d.now().After(p.expires) {
		return pendingDownload{}, false
	}
	return p, true
}

// Len returns the number of unclaimed downloads.
func (d *Downloads) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// ServeHTTP sends the payload for the {token} URL parameter as an
// attachment. Each token is served once.
func (d *Downloads) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p, ok := d.take(chi.URLParam(r, "token"))
	if !ok {
		http.Error(w, "download not found", http.StatusNotFound)
		return
	}
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": p.name})
	if disposition == "" {
		disposition = "attachment"
	}
	w.Header().Set("Content-Type", p.contentType)
	w.Header().Set("Content-Disposition", disposition)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(p.data)
}
