package uploadbox

import (
	"fmt"
	"testing"
)

func TestExtension(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"report.pdf", "pdf"},
		{"Photo.JPG", "jpg"},
		{"archive.tar.gz", "gz"},
		{"noext", ""},
		{"trailing.", ""},
		{".bashrc", "bashrc"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Extension(tt.name); got != tt.want {
			t.Errorf("Extension(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestClassify(t *testing.T) {
	v := Validator{AcceptedTypes: []string{"pdf", "PNG", ".txt"}, MaxSizeMB: 20}
	max := int64(20 * 1024 * 1024)

	tests := []struct {
		name string
		file string
		size int64
		want Outcome
	}{
		{"allowed", "a.pdf", 10, Allowed},
		{"case insensitive list", "a.png", 10, Allowed},
		{"case insensitive name", "A.PDF", 10, Allowed},
		{"dotted list entry", "notes.txt", 10, Allowed},
		{"wrong type", "a.exe", 10, RejectedType},
		{"no extension", "README", 10, RejectedType},
		{"exactly max", "a.pdf", max, Allowed},
		{"one byte over", "a.pdf", max + 1, RejectedSize},
		{"type wins over size", "a.exe", max + 1, RejectedType},
		{"empty file", "a.pdf", 0, Allowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.Classify(tt.file, tt.size); got != tt.want {
				t.Errorf("Classify(%q, %d) = %v, want %v", tt.file, tt.size, got, tt.want)
			}
		})
	}
}

func TestClassifyEmptyAllowListDependsOnlyOnSize(t *testing.T) {
	v := Validator{MaxSizeMB: 1}
	for _, name := range []string{"a.exe", "noext", "x.PDF", ""} {
		if got := v.Classify(name, 1024*1024); got != Allowed {
			t.Errorf("Classify(%q, 1MB) = %v, want allowed", name, got)
		}
		if got := v.Classify(name, 1024*1024+1); got != RejectedSize {
			t.Errorf("Classify(%q, 1MB+1) = %v, want rejected_size", name, got)
		}
	}
}

func TestClassifyListedTypesAcrossSizes(t *testing.T) {
	v := Validator{AcceptedTypes: DefaultAcceptedTypes, MaxSizeMB: 2.5}
	limit := int64(2.5 * 1024 * 1024)
	for _, ext := range DefaultAcceptedTypes {
		for _, size := range []int64{0, 1, limit - 1, limit} {
			name := fmt.Sprintf("file.%s", ext)
			if got := v.Classify(name, size); got != Allowed {
				t.Errorf("Classify(%q, %d) = %v, want allowed", name, size, got)
			}
		}
		if got := v.Classify("file."+ext, limit+1); got != RejectedSize {
			t.Errorf("Classify(file.%s, limit+1) = %v, want rejected_size", ext, got)
		}
	}
}

func TestZeroValidatorAllowsEverything(t *testing.T) {
	var v Validator
	if got := v.Classify("anything", 1<<40); got != Allowed {
		t.Errorf("zero Validator classified %v", got)
	}
}

func TestFilter(t *testing.T) {
	v := Validator{AcceptedTypes: []string{"txt"}, MaxSizeMB: 1}
	big := make([]byte, 1024*1024+1)
	files := []Attachment{
		BytesAttachment("a.txt", []byte("a")),
		BytesAttachment("b.exe", []byte("b")),
		BytesAttachment("c.txt", big),
		BytesAttachment("d.txt", []byte("d")),
		BytesAttachment("e", []byte("e")),
	}

	p := v.Filter(files)

	names := func(as []Attachment) []string {
		out := make([]string, len(as))
		for i, a := range as {
			out[i] = a.Name
		}
		return out
	}
	if got := fmt.Sprint(names(p.Allowed)); got != "[a.txt d.txt]" {
		t.Errorf("Allowed = %s", got)
	}
	if got := fmt.Sprint(names(p.Rejected)); got != "[b.exe e]" {
		t.Errorf("Rejected = %s", got)
	}
	if got := fmt.Sprint(names(p.Oversized)); got != "[c.txt]" {
		t.Errorf("Oversized = %s", got)
	}
}

func TestAcceptAttr(t *testing.T) {
	if got := (Validator{AcceptedTypes: []string{"JPG", ".png"}}).AcceptAttr(); got != ".jpg,.png" {
		t.Errorf("AcceptAttr = %q", got)
	}
	if got := (Validator{}).AcceptAttr(); got != "" {
		t.Errorf("AcceptAttr = %q, want empty", got)
	}
}

func TestOutcomeString(t *testing.T) {
	if Allowed.String() != "allowed" || RejectedType.String() != "rejected_type" || RejectedSize.String() != "rejected_size" {
		t.Error("unexpected Outcome strings")
	}
}
