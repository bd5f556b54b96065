package uploadbox

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/vango-dev/uploadbox/pkg/apiclient"
	"github.com/vango-dev/uploadbox/pkg/toast"
)

// API is the host HTTP helper a Box issues its network calls through.
// *apiclient.Client implements it.
type API interface {
	PostJSON(ctx context.Context, endpoint string, body any) (*apiclient.Response, error)
	PostMultipart(ctx context.Context, endpoint string, form *apiclient.Form) (*apiclient.Response, error)
	FetchBlob(ctx context.Context, endpoint string, body any) (*apiclient.Blob, error)
}

var _ API = (*apiclient.Client)(nil)

// Box is one upload box instance. Its methods are safe for concurrent
// use; the internal lock is never held across network calls or
// subscriber callbacks.
type Box struct {
	cfg       Config
	validator Validator

	api      API
	notifier toast.Emitter
	viewer   Viewer
	saver    Saver
	logger   *slog.Logger
	metrics  *Metrics

	mu       sync.Mutex
	state    fileState
	dragOver bool
	subs     map[int]func(Snapshot)
	nextSub  int
}

// New creates a Box from cfg and collaborator options.
func New(cfg Config, opts ...Option) *Box {
	cfg = cfg.normalize()
	b := &Box{
		cfg:       cfg,
		validator: cfg.Validator(),
		logger:    slog.Default(),
		subs:      make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Config returns the effective configuration.
func (b *Box) Config() Config {
	return b.cfg
}

// Validator returns the validator built from the configuration.
func (b *Box) Validator() Validator {
	return b.validator
}

// Viewer returns the configured viewer, which may be nil.
func (b *Box) Viewer() Viewer {
	return b.viewer
}

// Subscribe registers fn to receive a snapshot after every state
// change. The returned function unregisters it.
func (b *Box) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextSub
	b.nextSub++
	b.subs[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// Snapshot returns a copy of the current state.
func (b *Box) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotLocked()
}

func (b *Box) snapshotLocked() Snapshot {
	s := b.state.snapshot()
	s.DragOver = b.dragOver
	return s
}

// update runs fn under the lock and, if it reports a change, notifies
// subscribers after the lock is released.
func (b *Box) update(fn func() bool) {
	b.mu.Lock()
	changed := fn()
	if !changed {
		b.mu.Unlock()
		return
	}
	snap := b.snapshotLocked()
	subs := make([]func(Snapshot), 0, len(b.subs))
	for _, s := range b.subs {
		subs = append(subs, s)
	}
	b.mu.Unlock()

	for _, s := range subs {
		s(snap)
	}
}

// Refresh notifies subscribers without changing state, e.g. after the
// viewer opened or closed.
func (b *Box) Refresh() {
	b.update(func() bool { return true })
}

// SetServerFiles replaces the mirrored server list. Deletion marks are
// carried over by id.
func (b *Box) SetServerFiles(files []UploadedFile) {
	b.update(func() bool {
		b.state.setServerFiles(files)
		return true
	})
}

// ServerFiles returns the mirrored server list, with deletion marks.
func (b *Box) ServerFiles() []UploadedFile {
	return b.Snapshot().ServerFiles
}

// PendingDeletions returns the files that the next commit will delete.
func (b *Box) PendingDeletions() []UploadedFile {
	return b.Snapshot().Pending
}

// Attachments returns the local attachments in selection order.
func (b *Box) Attachments() []Attachment {
	return b.Snapshot().Attachments
}

// RemoveServerFile marks the server file with id seq for deletion. The
// file stays listed, struck through, until the host drops it. A list
// variant box is read-only and returns ErrReadonly.
func (b *Box) RemoveServerFile(seq string) error {
	if b.cfg.Variant == VariantList {
		return fmt.Errorf("uploadbox: remove %s from list box: %w", seq, ErrReadonly)
	}
	var err error
	b.update(func() bool {
		err = b.state.markForDeletion(seq)
		return err == nil
	})
	return err
}

// CanRemove reports whether the UI offers a remove action for file.
func (b *Box) CanRemove(file UploadedFile) bool {
	return b.cfg.Variant != VariantList && !file.Readonly && !file.ToDelete
}

// RemoveAttachment drops the local attachment at index i.
func (b *Box) RemoveAttachment(i int) error {
	var err error
	b.update(func() bool {
		err = b.state.removeAttachment(i)
		return err == nil
	})
	return err
}

// RemoveAttachmentKey drops the local attachment with the given key.
func (b *Box) RemoveAttachmentKey(key string) error {
	var err error
	b.update(func() bool {
		i := b.state.attachmentIndex(key)
		if i < 0 {
			err = fmt.Errorf("uploadbox: attachment %s: %w", key, ErrFileNotFound)
			return false
		}
		err = b.state.removeAttachment(i)
		return err == nil
	})
	return err
}

// DragOver marks the drop zone as hovered.
func (b *Box) DragOver() {
	b.setDragOver(true)
}

// DragLeave clears the hovered state.
func (b *Box) DragLeave() {
	b.setDragOver(false)
}

func (b *Box) setDragOver(v bool) {
	b.update(func() bool {
		if b.dragOver == v {
			return false
		}
		b.dragOver = v
		return true
	})
}

// Drop handles files dropped on the box. It clears the hovered state
// and attaches every file that passes validation.
func (b *Box) Drop(files []Attachment) Partition {
	return b.attach(files, true)
}

// Pick handles files chosen in the file picker. With Multiple off only
// the first file is considered.
func (b *Box) Pick(files []Attachment) Partition {
	if !b.cfg.Multiple && len(files) > 1 {
		files = files[:1]
	}
	return b.attach(files, false)
}

func (b *Box) attach(files []Attachment, dropped bool) Partition {
	p := b.validator.Filter(files)
	b.metrics.observePartition(p)

	if len(p.Rejected) > 0 {
		allowed := "all files"
		if len(b.cfg.AcceptedTypes) > 0 {
			allowed = strings.Join(b.cfg.AcceptedTypes, ", ")
		}
		toast.Error(b.notifier, "File type not allowed. Allowed types: "+allowed)
	}
	if len(p.Oversized) > 0 {
		toast.Error(b.notifier, "File size exceeded. Max size: "+formatMB(b.cfg.MaxFileSizeMB))
	}

	b.update(func() bool {
		changed := false
		if dropped && b.dragOver {
			b.dragOver = false
			changed = true
		}
		if len(p.Allowed) > 0 {
			b.state.addAttachments(p.Allowed)
			changed = true
		}
		return changed
	})
	return p
}
