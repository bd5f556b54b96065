package uploadbox

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/vango-dev/uploadbox/pkg/apiclient"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type uploadedPart struct {
	field, name string
	content     string
}

// fakeAPI records calls and answers with canned responses.
type fakeAPI struct {
	mu sync.Mutex

	deleteResp *apiclient.Response
	deleteErr  error
	uploadResp *apiclient.Response
	uploadErr  error
	blob       *apiclient.Blob
	blobErr    error

	calls     []string
	deleted   [][]UploadedFile
	downloads []downloadRequest
}

func okResponse() *apiclient.Response {
	return &apiclient.Response{Success: true, StatusCode: http.StatusOK}
}

func (f *fakeAPI) PostJSON(_ context.Context, endpoint string, body any) (*apiclient.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "json "+endpoint)
	if req, isDelete := body.(deleteRequest); isDelete {
		f.deleted = append(f.deleted, req.Files)
	}
	return f.deleteResp, f.deleteErr
}

func (f *fakeAPI) PostMultipart(_ context.Context, endpoint string, form *apiclient.Form) (*apiclient.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "multipart "+endpoint)
	return f.uploadResp, f.uploadErr
}

func (f *fakeAPI) FetchBlob(_ context.Context, endpoint string, body any) (*apiclient.Blob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "blob "+endpoint)
	if req, isDownload := body.(downloadRequest); isDownload {
		f.downloads = append(f.downloads, req)
	}
	return f.blob, f.blobErr
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func newBox(api API, opts ...Option) *Box {
	opts = append([]Option{WithClient(api), WithLogger(discard)}, opts...)
	return New(DefaultConfig(), opts...)
}

func TestCommitNothingToDo(t *testing.T) {
	api := &fakeAPI{}
	b := newBox(api)

	if !b.Commit(context.Background(), "orders", "files", "42") {
		t.Error("Commit with no work should succeed")
	}
	if calls := api.Calls(); len(calls) != 0 {
		t.Errorf("calls = %v, want none", calls)
	}
}

func TestCommitEmptySeq(t *testing.T) {
	api := &fakeAPI{uploadResp: okResponse()}
	b := newBox(api)
	b.Pick(attachments("a.pdf"))

	if b.Commit(context.Background(), "orders", "files", "") {
		t.Error("Commit without seq should fail")
	}
	if calls := api.Calls(); len(calls) != 0 {
		t.Errorf("calls = %v, want none", calls)
	}
	if len(b.Attachments()) != 1 {
		t.Error("attachments should be untouched")
	}
}

func TestCommitDeleteThenUpload(t *testing.T) {
	api := &fakeAPI{deleteResp: okResponse(), uploadResp: okResponse()}
	b := newBox(api, WithFiles([]UploadedFile{file("1", "a.pdf"), file("2", "b.pdf")}))
	b.RemoveServerFile("2")
	b.Pick(attachments("new.pdf"))

	if !b.Commit(context.Background(), "orders", "files", "42") {
		t.Fatal("Commit failed")
	}

	calls := api.Calls()
	if len(calls) != 2 || calls[0] != "json "+DefaultDeleterURL || calls[1] != "multipart "+DefaultUploaderURL {
		t.Errorf("calls = %v", calls)
	}
	if len(api.deleted) != 1 || len(api.deleted[0]) != 1 || api.deleted[0][0].Seq != "2" {
		t.Errorf("deleted = %+v", api.deleted)
	}
	if len(b.PendingDeletions()) != 0 {
		t.Error("pending should be cleared")
	}
	if len(b.Attachments()) != 0 {
		t.Error("attachments should be cleared")
	}
}

func TestCommitDeleteFailureKeepsState(t *testing.T) {
	tests := []struct {
		name string
		resp *apiclient.Response
		err  error
	}{
		{"transport error", nil, errors.New("connection refused")},
		{"unsuccessful envelope", &apiclient.Response{Success: false, Message: "locked", StatusCode: 200}, nil},
		{"http error", &apiclient.Response{Success: true, StatusCode: 500}, &apiclient.Error{StatusCode: 500}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{deleteResp: tt.resp, deleteErr: tt.err, uploadResp: okResponse()}
			b := newBox(api, WithFiles([]UploadedFile{file("1", "a.pdf")}))
			b.RemoveServerFile("1")
			b.Pick(attachments("new.pdf"))

			if b.Commit(context.Background(), "orders", "files", "42") {
				t.Fatal("Commit should fail")
			}
			if calls := api.Calls(); len(calls) != 1 {
				t.Errorf("calls = %v, want only the delete", calls)
			}
			if len(b.PendingDeletions()) != 1 {
				t.Error("pending should be kept")
			}
			if len(b.Attachments()) != 1 {
				t.Error("attachments should be kept")
			}
		})
	}
}

func TestCommitUploadFailureClearsAttachments(t *testing.T) {
	api := &fakeAPI{uploadResp: &apiclient.Response{Success: false, Message: "quota", StatusCode: 200}}
	b := newBox(api)
	b.Pick(attachments("a.pdf", "b.pdf"))

	if b.Commit(context.Background(), "orders", "files", "42") {
		t.Fatal("Commit should fail")
	}
	if len(b.Attachments()) != 0 {
		t.Error("attachments should be cleared after an upload attempt")
	}
}

// slowUploadAPI holds the upload until release is closed.
type slowUploadAPI struct {
	*fakeAPI
	started chan struct{}
	release chan struct{}
}

func (s *slowUploadAPI) PostMultipart(ctx context.Context, endpoint string, form *apiclient.Form) (*apiclient.Response, error) {
	close(s.started)
	<-s.release
	return s.fakeAPI.PostMultipart(ctx, endpoint, form)
}

func TestCommitKeepsFilesAttachedDuringUpload(t *testing.T) {
	api := &slowUploadAPI{
		fakeAPI: &fakeAPI{uploadResp: okResponse()},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	b := newBox(api)
	b.Pick(attachments("a.txt"))

	done := make(chan bool)
	go func() {
		done <- b.Commit(context.Background(), "orders", "files", "42")
	}()

	<-api.started
	b.Pick(attachments("b.txt"))
	close(api.release)

	if !<-done {
		t.Fatal("Commit failed")
	}
	if got := names(b.Attachments()); len(got) != 1 || got[0] != "b.txt" {
		t.Errorf("attachments after commit = %v, want [b.txt]", got)
	}
}

func TestCommitDeleteOnly(t *testing.T) {
	api := &fakeAPI{deleteResp: okResponse()}
	b := newBox(api, WithFiles([]UploadedFile{file("1", "a.pdf")}))
	b.RemoveServerFile("1")

	if !b.Commit(context.Background(), "orders", "files", "42") {
		t.Fatal("Commit failed")
	}
	if calls := api.Calls(); len(calls) != 1 {
		t.Errorf("calls = %v", calls)
	}
	// The mark stays until the host supplies a fresh list.
	if !b.ServerFiles()[0].ToDelete {
		t.Error("file should stay marked")
	}
}

func TestCommitWithoutClient(t *testing.T) {
	b := New(DefaultConfig(), WithLogger(discard))
	b.Pick(attachments("a.pdf"))
	if b.Commit(context.Background(), "orders", "files", "42") {
		t.Error("Commit without client should fail")
	}
}

func TestCommitOverHTTP(t *testing.T) {
	var (
		mu       sync.Mutex
		deleted  []UploadedFile
		fields   = map[string]string{}
		uploaded []uploadedPart
	)

	mux := http.NewServeMux()
	mux.HandleFunc("/upload/deleter", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Files []UploadedFile `json:"files"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		mu.Lock()
		deleted = req.Files
		mu.Unlock()
		w.Write([]byte(`{"success":true}`))
	})
	mux.HandleFunc("/upload/uploader", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		mu.Lock()
		defer mu.Unlock()
		for k, v := range r.MultipartForm.Value {
			fields[k] = v[0]
		}
		for field, headers := range r.MultipartForm.File {
			for _, h := range headers {
				f, err := h.Open()
				if err != nil {
					http.Error(w, err.Error(), http.StatusBadRequest)
					return
				}
				data, _ := io.ReadAll(f)
				f.Close()
				uploaded = append(uploaded, uploadedPart{field: field, name: h.Filename, content: string(data)})
			}
		}
		w.Write([]byte(`{"success":true,"message":"uploaded"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	b := newBox(apiclient.New(srv.URL), WithFiles([]UploadedFile{file("7", "old.pdf")}))
	b.RemoveServerFile("7")
	b.Pick(attachments("a.pdf", "b.txt"))

	if !b.Commit(context.Background(), "orders", "attachments", "42") {
		t.Fatal("Commit failed")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(deleted) != 1 || deleted[0].Seq != "7" || deleted[0].TableName != "orders" || !deleted[0].ToDelete {
		t.Errorf("deleted = %+v", deleted)
	}
	want := map[string]string{"table_name": "orders", "data_field_name": "attachments", "data_seq": "42"}
	for k, v := range want {
		if fields[k] != v {
			t.Errorf("field %s = %q, want %q", k, fields[k], v)
		}
	}
	got := map[string]uploadedPart{}
	for _, p := range uploaded {
		got[p.field] = p
	}
	if p := got["files[0]"]; p.name != "a.pdf" || p.content != "content of a.pdf" {
		t.Errorf("files[0] = %+v", p)
	}
	if p := got["files[1]"]; p.name != "b.txt" || p.content != "content of b.txt" {
		t.Errorf("files[1] = %+v", p)
	}
}
