package uploadbox

import (
	"context"
	"fmt"
	"time"

	"github.com/vango-dev/uploadbox/pkg/apiclient"
)

type deleteRequest struct {
	Files []UploadedFile `json:"files"`
}

// Commit sends pending deletions and local attachments to the host.
//
// Deletion runs first; if it fails nothing else happens and the pending
// set is kept for a retry. Attachments are uploaded in one multipart
// request and the ones sent are cleared whatever the outcome; files
// attached while the upload runs stay for the next commit. The two requests are not a
// transaction: a failed upload does not undo a delete that already
// succeeded.
//
// Commit reports success as a bool and never returns an error; failures
// are logged. An empty dataSeq fails without any network call.
func (b *Box) Commit(ctx context.Context, tableName, dataFieldName, dataSeq string) bool {
	result := b.commit(ctx, tableName, dataFieldName, dataSeq)
	b.metrics.observeCommit(result)
	return result == "success"
}

func (b *Box) commit(ctx context.Context, tableName, dataFieldName, dataSeq string) string {
	if dataSeq == "" {
		b.logger.DebugContext(ctx, "commit skipped: no data seq", "table", tableName, "field", dataFieldName)
		return "skipped"
	}

	snap := b.Snapshot()
	if b.api == nil && (len(snap.Pending) > 0 || len(snap.Attachments) > 0) {
		b.logger.ErrorContext(ctx, "commit failed: no api client configured")
		return "failure"
	}

	if len(snap.Pending) > 0 {
		b.logger.DebugContext(ctx, "deleting files", "count", len(snap.Pending))
		start := time.Now()
		resp, err := b.api.PostJSON(ctx, b.cfg.DeleterURL, deleteRequest{Files: snap.Pending})
		ok := err == nil && apiclient.IsSuccess(resp)
		b.metrics.observeRequest(opDelete, ok, time.Since(start))
		if !ok {
			b.logger.ErrorContext(ctx, "file delete failed", "endpoint", b.cfg.DeleterURL, "error", responseError(resp, err))
			return "failure"
		}
		b.update(func() bool {
			b.state.clearPending(snap.Pending)
			return true
		})
	}

	if len(snap.Attachments) == 0 {
		return "success"
	}

	form := apiclient.NewForm().
		Field("table_name", tableName).
		Field("data_field_name", dataFieldName).
		Field("data_seq", dataSeq)
	for i, a := range snap.Attachments {
		form.File(fmt.Sprintf("files[%d]", i), a.Name, a.ContentType, a.Open)
	}

	start := time.Now()
	resp, err := b.api.PostMultipart(ctx, b.cfg.UploaderURL, form)
	ok := err == nil && apiclient.IsSuccess(resp)
	b.metrics.observeRequest(opUpload, ok, time.Since(start))

	b.update(func() bool {
		b.state.clearAttachments(snap.Attachments)
		return true
	})

	if !ok {
		b.logger.ErrorContext(ctx, "file upload failed", "endpoint", b.cfg.UploaderURL, "files", len(snap.Attachments), "error", responseError(resp, err))
		return "failure"
	}
	b.logger.InfoContext(ctx, "files uploaded", "table", tableName, "seq", dataSeq, "files", len(snap.Attachments))
	return "success"
}

// responseError describes why a call did not succeed.
func responseError(resp *apiclient.Response, err error) error {
	switch {
	case err != nil:
		return err
	case resp == nil:
		return fmt.Errorf("empty response")
	case resp.Message != "":
		return fmt.Errorf("unsuccessful response (status %d): %s", resp.StatusCode, resp.Message)
	default:
		return fmt.Errorf("unsuccessful response (status %d)", resp.StatusCode)
	}
}
