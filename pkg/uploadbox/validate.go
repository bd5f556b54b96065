package uploadbox

import (
	"strings"
)

// Outcome is the validation result for one candidate file.
type Outcome int

const (
	Allowed Outcome = iota
	RejectedType
	RejectedSize
)

func (o Outcome) String() string {
	switch o {
	case Allowed:
		return "allowed"
	case RejectedType:
		return "rejected_type"
	case RejectedSize:
		return "rejected_size"
	default:
		return "unknown"
	}
}

const bytesPerMB = 1024 * 1024

// Validator classifies candidate files by extension and size.
//
// An empty AcceptedTypes list allows every type. MaxSizeMB <= 0 disables
// the size check.
type Validator struct {
	AcceptedTypes []string
	MaxSizeMB     float64
}

// Extension returns the lowercased text after the last '.' in name, or
// "" when name has no '.'.
func Extension(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}

// TypeAllowed reports whether name passes the extension allow-list.
func (v Validator) TypeAllowed(name string) bool {
	if len(v.AcceptedTypes) == 0 {
		return true
	}
	ext := Extension(name)
	if ext == "" {
		return false
	}
	for _, t := range v.AcceptedTypes {
		if strings.EqualFold(strings.TrimPrefix(t, "."), ext) {
			return true
		}
	}
	return false
}

// SizeAllowed reports whether size (bytes) is within the limit. The
// boundary is inclusive.
func (v Validator) SizeAllowed(size int64) bool {
	if v.MaxSizeMB <= 0 {
		return true
	}
	return float64(size) <= v.MaxSizeMB*bytesPerMB
}

// Classify returns the outcome for one file. The type check runs first.
func (v Validator) Classify(name string, size int64) Outcome {
	if !v.TypeAllowed(name) {
		return RejectedType
	}
	if !v.SizeAllowed(size) {
		return RejectedSize
	}
	return Allowed
}

// Partition is the result of validating a batch.
type Partition struct {
	Allowed   []Attachment
	Rejected  []Attachment
	Oversized []Attachment
}

// Filter splits files into allowed, rejected (type) and oversized
// buckets, keeping input order inside each bucket.
func (v Validator) Filter(files []Attachment) Partition {
	var p Partition
	for _, f := range files {
		switch v.Classify(f.Name, f.Size) {
		case RejectedType:
			p.Rejected = append(p.Rejected, f)
		case RejectedSize:
			p.Oversized = append(p.Oversized, f)
		default:
			p.Allowed = append(p.Allowed, f)
		}
	}
	return p
}

// AcceptAttr returns the value for a file input's accept attribute,
// e.g. ".jpg,.png". It is empty when every type is allowed.
func (v Validator) AcceptAttr() string {
	if len(v.AcceptedTypes) == 0 {
		return ""
	}
	parts := make([]string, len(v.AcceptedTypes))
	for i, t := range v.AcceptedTypes {
		parts[i] = "." + strings.ToLower(strings.TrimPrefix(t, "."))
	}
	return strings.Join(parts, ",")
}
