package preview

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/uploadbox/pkg/apiclient"
	"github.com/vango-dev/uploadbox/pkg/live"
	"github.com/vango-dev/uploadbox/pkg/toast"
	"github.com/vango-dev/uploadbox/pkg/uploadbox"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// stubAPI answers every call with fixed responses.
type stubAPI struct {
	resp *apiclient.Response
	blob *apiclient.Blob
}

func (s *stubAPI) PostJSON(context.Context, string, any) (*apiclient.Response, error) {
	return s.resp, nil
}

func (s *stubAPI) PostMultipart(context.Context, string, *apiclient.Form) (*apiclient.Response, error) {
	return s.resp, nil
}

func (s *stubAPI) FetchBlob(context.Context, string, any) (*apiclient.Blob, error) {
	return s.blob, nil
}

type fixture struct {
	server    *Server
	box       *uploadbox.Box
	api       *stubAPI
	metrics   *uploadbox.Metrics
	downloads *Downloads
	events    *toast.Recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	api := &stubAPI{
		resp: &apiclient.Response{Success: true, StatusCode: http.StatusOK},
		blob: &apiclient.Blob{Data: []byte("%PDF-1.4"), ContentType: "application/pdf", StatusCode: http.StatusOK},
	}
	reg := prometheus.NewRegistry()
	metrics := uploadbox.NewMetrics(uploadbox.WithRegistry(reg))

	hub := live.NewHub(live.WithLogger(discard))
	events := &toast.Recorder{}
	downloads := NewDownloads(toast.Multi(hub, events))
	box := uploadbox.New(uploadbox.DefaultConfig(),
		uploadbox.WithClient(api),
		uploadbox.WithSaver(downloads),
		uploadbox.WithNotifier(hub),
		uploadbox.WithLogger(discard),
		uploadbox.WithMetrics(metrics),
		uploadbox.WithViewer(&uploadbox.ModalViewer{URL: uploadbox.ViewerURL("/view")}),
		uploadbox.WithFiles([]uploadbox.UploadedFile{
			{ServerFile: uploadbox.ServerFile{Seq: "1", Name: "a.pdf", Size: 10}, TableName: "orders"},
			{ServerFile: uploadbox.ServerFile{Seq: "2", Name: "b.pdf", Size: 20}, TableName: "orders", Readonly: true},
		}),
	)
	hub.Bind(box)
	t.Cleanup(hub.Close)

	s, err := New(Config{Box: box, Hub: hub, API: api, Downloads: downloads, Gatherer: reg, Logger: discard})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return &fixture{server: s, box: box, api: api, metrics: metrics, downloads: downloads, events: events}
}

func (f *fixture) do(t *testing.T, method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	return rec
}

type response struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response {
	t.Helper()
	var r response
	if err := json.Unmarshal(rec.Body.Bytes(), &r); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return r
}

func multipartBody(t *testing.T, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, content := range files {
		fw, err := mw.CreateFormFile("files", name)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write([]byte(content))
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestNewRequiresBoxAndHub(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("New without box should fail")
	}
}

func TestPage(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/", nil, "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"<!DOCTYPE html>", `id="uploadbox-root"`, "a.pdf", ".uploadbox-dropzone", "new WebSocket"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestFragment(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/box", nil, "")
	if rec.Code != http.StatusOK || !strings.HasPrefix(rec.Body.String(), "<div") {
		t.Errorf("fragment = %d %q", rec.Code, rec.Body.String())
	}
}

func TestAttach(t *testing.T) {
	f := newFixture(t)
	body, ct := multipartBody(t, map[string]string{"doc.pdf": "pdf", "tool.exe": "exe"})

	rec := f.do(t, http.MethodPost, "/attach?mode=drop", body, ct)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	r := decode(t, rec)
	if r.Success {
		t.Error("success should be false when a file was rejected")
	}
	var result attachResult
	json.Unmarshal(r.Data, &result)
	if len(result.Allowed) != 1 || result.Allowed[0] != "doc.pdf" || len(result.Rejected) != 1 {
		t.Errorf("result = %+v", result)
	}

	atts := f.box.Attachments()
	if len(atts) != 1 || atts[0].Name != "doc.pdf" {
		t.Fatalf("attachments = %+v", atts)
	}
	rc, _ := atts[0].Open()
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "pdf" {
		t.Errorf("content = %q", data)
	}
}

func TestAttachWithoutFiles(t *testing.T) {
	f := newFixture(t)
	body, ct := multipartBody(t, nil)
	if rec := f.do(t, http.MethodPost, "/attach", body, ct); rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
	if rec := f.do(t, http.MethodPost, "/attach", strings.NewReader("x"), "text/plain"); rec.Code != http.StatusBadRequest {
		t.Errorf("non-multipart status = %d", rec.Code)
	}
}

func TestServerFiles(t *testing.T) {
	f := newFixture(t)
	list := `[{"seq":"9","name":"z.txt","size":3,"table_name":"orders"}]`

	rec := f.do(t, http.MethodPut, "/server-files", strings.NewReader(list), "application/json")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	files := f.box.ServerFiles()
	if len(files) != 1 || files[0].Seq != "9" {
		t.Errorf("server files = %+v", files)
	}

	rec = f.do(t, http.MethodGet, "/server-files", nil, "")
	var got []uploadbox.UploadedFile
	json.Unmarshal(decode(t, rec).Data, &got)
	if len(got) != 1 || got[0].Name != "z.txt" {
		t.Errorf("GET = %+v", got)
	}

	if rec := f.do(t, http.MethodPut, "/server-files", strings.NewReader("{"), "application/json"); rec.Code != http.StatusBadRequest {
		t.Errorf("bad list status = %d", rec.Code)
	}
}

func TestActions(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/actions/remove-file", strings.NewReader(`{"id":"1"}`), "application/json")
	if rec.Code != http.StatusOK {
		t.Fatalf("remove-file status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = f.do(t, http.MethodGet, "/pending", nil, "")
	var pending []uploadbox.UploadedFile
	json.Unmarshal(decode(t, rec).Data, &pending)
	if len(pending) != 1 || pending[0].Seq != "1" {
		t.Errorf("pending = %+v", pending)
	}

	tests := []struct {
		target string
		body   string
		status int
	}{
		{"/actions/remove-file", `{"id":"2"}`, http.StatusForbidden},
		{"/actions/remove-file", `{"id":"404"}`, http.StatusNotFound},
		{"/actions/remove-attachment", `{"index":3}`, http.StatusNotFound},
		{"/actions/explode", "", http.StatusNotFound},
		{"/actions/remove-file", "{", http.StatusBadRequest},
		{"/actions/dragover", "", http.StatusOK},
	}
	for _, tt := range tests {
		rec := f.do(t, http.MethodPost, tt.target, strings.NewReader(tt.body), "application/json")
		if rec.Code != tt.status {
			t.Errorf("%s %s: status = %d, want %d", tt.target, tt.body, rec.Code, tt.status)
		}
	}
}

func TestCommit(t *testing.T) {
	f := newFixture(t)
	f.box.RemoveServerFile("1")

	rec := f.do(t, http.MethodPost, "/commit", strings.NewReader(`{"table_name":"orders","data_field_name":"files","data_seq":"42"}`), "application/json")
	if rec.Code != http.StatusOK || !decode(t, rec).Success {
		t.Fatalf("commit = %d %s", rec.Code, rec.Body.String())
	}
	if len(f.box.PendingDeletions()) != 0 {
		t.Error("pending not cleared")
	}

	rec = f.do(t, http.MethodPost, "/commit", strings.NewReader(`{"table_name":"orders"}`), "application/json")
	if rec.Code != http.StatusBadGateway || decode(t, rec).Success {
		t.Errorf("commit without seq = %d %s", rec.Code, rec.Body.String())
	}

	f.api.resp = &apiclient.Response{Success: false, Message: "nope", StatusCode: http.StatusOK}
	f.box.Pick([]uploadbox.Attachment{uploadbox.BytesAttachment("x.pdf", []byte("x"))})
	rec = f.do(t, http.MethodPost, "/commit", strings.NewReader(`{"table_name":"orders","data_seq":"42"}`), "application/json")
	if rec.Code != http.StatusBadGateway {
		t.Errorf("failed upload status = %d", rec.Code)
	}
}

func TestView(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/view?table_name=orders&data_seq=1&name=a.pdf", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q", ct)
	}
	if rec.Body.String() != "%PDF-1.4" {
		t.Errorf("body = %q", rec.Body.String())
	}
	if csp := rec.Header().Get("Content-Security-Policy"); csp != "sandbox" {
		t.Errorf("Content-Security-Policy = %q", csp)
	}

	if rec := f.do(t, http.MethodGet, "/view", nil, ""); rec.Code != http.StatusBadRequest {
		t.Errorf("missing seq status = %d", rec.Code)
	}

	f.api.blob = &apiclient.Blob{}
	if rec := f.do(t, http.MethodGet, "/view?data_seq=1", nil, ""); rec.Code != http.StatusBadGateway {
		t.Errorf("empty blob status = %d", rec.Code)
	}
}

func TestViewSandboxesHTML(t *testing.T) {
	f := newFixture(t)
	f.api.blob = &apiclient.Blob{Data: []byte("<script>alert(1)</script>"), ContentType: "text/html", StatusCode: http.StatusOK}

	rec := f.do(t, http.MethodGet, "/view?table_name=orders&data_seq=1&name=page.html", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if csp := rec.Header().Get("Content-Security-Policy"); csp != "sandbox" {
		t.Errorf("Content-Security-Policy = %q", csp)
	}
}

func TestOpenDownloadReachesBrowser(t *testing.T) {
	f := newFixture(t)
	f.api.blob = &apiclient.Blob{Data: []byte("PK\x03\x04"), ContentType: "application/zip", StatusCode: http.StatusOK}
	f.box.SetServerFiles(append(f.box.ServerFiles(), uploadbox.UploadedFile{
		ServerFile: uploadbox.ServerFile{Seq: "3", Name: "report 2024.zip", Size: 4}, TableName: "orders",
	}))

	rec := f.do(t, http.MethodPost, "/actions/open", strings.NewReader(`{"id":"3"}`), "application/json")
	if rec.Code != http.StatusOK {
		t.Fatalf("open status = %d: %s", rec.Code, rec.Body.String())
	}

	var url string
	for _, ev := range f.events.Events() {
		if ev.Name == DownloadEvent {
			url, _ = ev.Data["url"].(string)
			if ev.Data["name"] != "report 2024.zip" {
				t.Errorf("event name = %v", ev.Data["name"])
			}
		}
	}
	if !strings.HasPrefix(url, "/download/") {
		t.Fatalf("no download event, events = %+v", f.events.Events())
	}
	if f.downloads.Len() != 1 {
		t.Errorf("pending downloads = %d", f.downloads.Len())
	}

	rec = f.do(t, http.MethodGet, url, nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("download status = %d", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, "attachment;") || !strings.Contains(cd, "report 2024.zip") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/zip" {
		t.Errorf("Content-Type = %q", ct)
	}
	if rec.Body.String() != "PK\x03\x04" {
		t.Errorf("body = %q", rec.Body.String())
	}

	if rec := f.do(t, http.MethodGet, url, nil, ""); rec.Code != http.StatusNotFound {
		t.Errorf("second fetch status = %d, want 404", rec.Code)
	}
	if f.downloads.Len() != 0 {
		t.Errorf("pending downloads after fetch = %d", f.downloads.Len())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t)
	f.box.Drop([]uploadbox.Attachment{uploadbox.BytesAttachment("bad.exe", []byte("x"))})

	rec := f.do(t, http.MethodGet, "/metrics", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `uploadbox_validation_rejections_total{reason="type"} 1`) {
		t.Errorf("metrics output missing rejection counter:\n%s", rec.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	f := newFixture(t)
	if rec := f.do(t, http.MethodGet, "/healthz", nil, ""); rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("healthz = %d %q", rec.Code, rec.Body.String())
	}
}
