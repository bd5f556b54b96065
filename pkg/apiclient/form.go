package apiclient

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// Form is a multipart/form-data body built from text fields and file
// parts. Parts are written in the order they were added.
type Form struct {
	parts []formPart
}

type formPart struct {
	name        string
	value       string
	fileName    string
	contentType string
	open        func() (io.ReadCloser, error)
}

// NewForm returns an empty Form.
func NewForm() *Form {
	return &Form{}
}

// Field adds a text field.
func (f *Form) Field(name, value string) *Form {
	f.parts = append(f.parts, formPart{name: name, value: value})
	return f
}

// File adds a file part whose content is read lazily from open when the
// request body is streamed.
func (f *Form) File(name, fileName, contentType string, open func() (io.ReadCloser, error)) *Form {
	f.parts = append(f.parts, formPart{name: name, fileName: fileName, contentType: contentType, open: open})
	return f
}

// Len returns the number of parts.
func (f *Form) Len() int { return len(f.parts) }

// encode streams the form through a pipe. The returned reader must be
// closed by the caller; closing it early aborts the writer.
func (f *Form) encode() (io.ReadCloser, string) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(f.write(mw))
	}()

	return pr, mw.FormDataContentType()
}

func (f *Form) write(mw *multipart.Writer) error {
	for _, p := range f.parts {
		if p.open == nil {
			if err := mw.WriteField(p.name, p.value); err != nil {
				return err
			}
			continue
		}

		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, escapeQuotes(p.name), escapeQuotes(p.fileName)))
		ct := p.contentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)

		w, err := mw.CreatePart(h)
		if err != nil {
			return err
		}
		if err := copyPart(w, p); err != nil {
			return err
		}
	}
	return mw.Close()
}

func copyPart(w io.Writer, p formPart) error {
	rc, err := p.open()
	if err != nil {
		return fmt.Errorf("apiclient: open %s: %w", p.fileName, err)
	}
	defer rc.Close()
	if _, err := io.Copy(w, rc); err != nil {
		return fmt.Errorf("apiclient: copy %s: %w", p.fileName, err)
	}
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
