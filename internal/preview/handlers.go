package preview

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vango-dev/uploadbox/pkg/live"
	"github.com/vango-dev/uploadbox/pkg/render"
	"github.com/vango-dev/uploadbox/pkg/uploadbox"
	"github.com/vango-dev/uploadbox/pkg/vdom"
)

// envelope mirrors the host API response shape.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Message: message})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	page := render.PageData{
		Title:   s.config.Title,
		Styles:  []string{uploadbox.Stylesheet},
		Scripts: []string{live.ClientScript},
		Body: vdom.Div(
			vdom.ID("uploadbox-root"),
			s.config.Box.Render(),
		),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderer.RenderPage(w, page); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

func (s *Server) handleFragment(w http.ResponseWriter, r *http.Request) {
	html, err := s.renderer.RenderToString(s.config.Box.Render())
	if err != nil {
		s.logger.Error("render failed", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, html)
}

type attachResult struct {
	Allowed   []string `json:"allowed"`
	Rejected  []string `json:"rejected"`
	Oversized []string `json:"oversized"`
}

func fileNames(as []uploadbox.Attachment) []string {
	names := make([]string, len(as))
	for i, a := range as {
		names[i] = a.Name
	}
	return names
}

// handleAttach turns browser-selected files into local attachments.
func (s *Server) handleAttach(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeFailure(w, http.StatusRequestEntityTooLarge, "request too large")
			return
		}
		writeFailure(w, http.StatusBadRequest, "failed to parse form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		writeFailure(w, http.StatusBadRequest, "no files provided")
		return
	}

	files := make([]uploadbox.Attachment, 0, len(headers))
	for _, h := range headers {
		f, err := h.Open()
		if err != nil {
			writeFailure(w, http.StatusBadRequest, "failed to read "+h.Filename)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			writeFailure(w, http.StatusBadRequest, "failed to read "+h.Filename)
			return
		}
		a := uploadbox.BytesAttachment(h.Filename, data)
		if ct := h.Header.Get("Content-Type"); ct != "" {
			a.ContentType = ct
		}
		files = append(files, a)
	}

	var p uploadbox.Partition
	if r.URL.Query().Get("mode") == "drop" {
		p = s.config.Box.Drop(files)
	} else {
		p = s.config.Box.Pick(files)
	}

	writeJSON(w, http.StatusOK, envelope{
		Success: len(p.Rejected) == 0 && len(p.Oversized) == 0,
		Data: attachResult{
			Allowed:   fileNames(p.Allowed),
			Rejected:  fileNames(p.Rejected),
			Oversized: fileNames(p.Oversized),
		},
	})
}

func (s *Server) handleGetServerFiles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: s.config.Box.ServerFiles()})
}

func (s *Server) handleSetServerFiles(w http.ResponseWriter, r *http.Request) {
	files, err := DecodeServerFiles(r.Body)
	if err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}
	s.config.Box.SetServerFiles(files)
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: s.config.Box.ServerFiles()})
}

func (s *Server) handlePending(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: s.config.Box.PendingDeletions()})
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	var a live.Action
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&a); err != nil && !errors.Is(err, io.EOF) {
			writeFailure(w, http.StatusBadRequest, "invalid action: "+err.Error())
			return
		}
	}
	a.Action = chi.URLParam(r, "action")

	if err := s.config.Hub.Dispatch(r.Context(), a); err != nil {
		status := http.StatusBadRequest
		switch {
		case errors.Is(err, live.ErrUnknownAction):
			status = http.StatusNotFound
		case errors.Is(err, uploadbox.ErrReadonly):
			status = http.StatusForbidden
		case errors.Is(err, uploadbox.ErrFileNotFound), errors.Is(err, uploadbox.ErrIndexOutOfRange):
			status = http.StatusNotFound
		}
		writeFailure(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true})
}

type commitRequest struct {
	TableName     string `json:"table_name"`
	DataFieldName string `json:"data_field_name"`
	DataSeq       string `json:"data_seq"`
}

func (s *Server) handleCommit(w http.ResponseWriter, r *http.Request) {
	var req commitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid commit request: "+err.Error())
		return
	}
	if !s.config.Box.Commit(r.Context(), req.TableName, req.DataFieldName, req.DataSeq) {
		writeFailure(w, http.StatusBadGateway, "commit failed")
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true})
}

// handleView streams a file from the download endpoint so the viewer
// iframe can show it inline. The payload is sandboxed so host-supplied
// html or svg cannot run script on the preview origin.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := struct {
		TableName string `json:"table_name"`
		DataSeq   string `json:"data_seq"`
	}{q.Get("table_name"), q.Get("data_seq")}
	if req.DataSeq == "" {
		http.Error(w, "data_seq is required", http.StatusBadRequest)
		return
	}

	blob, err := s.config.API.FetchBlob(r.Context(), s.config.Box.Config().DownloaderURL, req)
	if err != nil || blob == nil || len(blob.Data) == 0 {
		s.logger.Warn("view fetch failed", "seq", req.DataSeq, "error", err)
		http.Error(w, "file not available", http.StatusBadGateway)
		return
	}

	contentType := blob.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(blob.Data)
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Security-Policy", "sandbox")
	w.Write(blob.Data)
}
