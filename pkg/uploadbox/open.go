package uploadbox

import (
	"context"
	"time"
)

type downloadRequest struct {
	TableName string `json:"table_name"`
	DataSeq   string `json:"data_seq"`
}

// Open shows a server file to the user. Files marked for deletion are
// ignored. Viewable files go to the embedded viewer without a network
// call; everything else is fetched from the download endpoint and handed
// to the Saver. Open reports whether the file reached the user.
func (b *Box) Open(ctx context.Context, file UploadedFile) bool {
	if file.ToDelete || b.markedForDeletion(file.Seq) {
		return false
	}

	if IsViewable(file.Name, b.cfg.ViewInBrowser) {
		if b.viewer == nil {
			b.logger.WarnContext(ctx, "no viewer configured", "file", file.Name)
			return false
		}
		b.viewer.Open(file)
		b.Refresh()
		return true
	}

	return b.Download(ctx, file)
}

// OpenSeq is Open for the mirrored server file with id seq.
func (b *Box) OpenSeq(ctx context.Context, seq string) bool {
	for _, f := range b.ServerFiles() {
		if f.Seq == seq {
			return b.Open(ctx, f)
		}
	}
	b.logger.WarnContext(ctx, "open: unknown file", "seq", seq)
	return false
}

// CloseViewer closes the embedded viewer.
func (b *Box) CloseViewer() {
	if b.viewer == nil {
		return
	}
	b.viewer.Close()
	b.Refresh()
}

func (b *Box) markedForDeletion(seq string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, f := range b.state.serverFiles {
		if f.Seq == seq {
			return f.ToDelete
		}
	}
	return false
}

// Download fetches file from the download endpoint and hands it to the
// Saver, skipping the viewer. It reports whether the file was saved.
func (b *Box) Download(ctx context.Context, file UploadedFile) bool {
	if b.api == nil {
		b.logger.ErrorContext(ctx, "file download failed: no api client configured", "file", file.Name)
		return false
	}

	start := time.Now()
	blob, err := b.api.FetchBlob(ctx, b.cfg.DownloaderURL, downloadRequest{TableName: file.TableName, DataSeq: file.Seq})
	ok := err == nil && blob != nil && len(blob.Data) > 0
	b.metrics.observeRequest(opDownload, ok, time.Since(start))
	if !ok {
		if err == nil {
			b.logger.ErrorContext(ctx, "file download failed: empty response", "file", file.Name)
		} else {
			b.logger.ErrorContext(ctx, "file download failed", "file", file.Name, "error", err)
		}
		return false
	}

	if b.saver == nil {
		b.logger.ErrorContext(ctx, "file download failed: no saver configured", "file", file.Name)
		return false
	}
	if err := b.saver.Save(ctx, file.Name, blob.Data, blob.ContentType); err != nil {
		b.logger.ErrorContext(ctx, "file save failed", "file", file.Name, "error", err)
		return false
	}
	return true
}
