package uploadbox

import "fmt"

// fileState holds the three lists a box reconciles. It is not safe for
// concurrent use; Box serializes access.
type fileState struct {
	serverFiles []UploadedFile
	pending     []UploadedFile
	attachments []Attachment
}

// setServerFiles replaces the mirrored server list. Deletion marks
// follow file ids: files still present keep their mark, marks on files
// that disappeared are dropped, and the pending set shrinks to match.
func (s *fileState) setServerFiles(files []UploadedFile) {
	marked := make(map[string]bool)
	for _, f := range s.serverFiles {
		if f.ToDelete {
			marked[f.Seq] = true
		}
	}
	for _, f := range s.pending {
		marked[f.Seq] = true
	}

	next := make([]UploadedFile, len(files))
	present := make(map[string]int, len(files))
	for i, f := range files {
		f.ToDelete = marked[f.Seq] && !f.Readonly
		next[i] = f
		present[f.Seq] = i
	}

	pending := s.pending[:0:0]
	for _, p := range s.pending {
		if i, ok := present[p.Seq]; ok && next[i].ToDelete {
			pending = append(pending, next[i])
		}
	}

	s.serverFiles = next
	s.pending = pending
}

// markForDeletion flags the server file with the given id and adds it to
// the pending set.
func (s *fileState) markForDeletion(seq string) error {
	for i := range s.serverFiles {
		f := &s.serverFiles[i]
		if f.Seq != seq {
			continue
		}
		if f.Readonly {
			return fmt.Errorf("uploadbox: remove %s: %w", seq, ErrReadonly)
		}
		if f.ToDelete {
			return nil
		}
		f.ToDelete = true
		s.pending = append(s.pending, *f)
		return nil
	}
	return fmt.Errorf("uploadbox: remove %s: %w", seq, ErrFileNotFound)
}

// clearPending drops the given files from the pending set. Their
// ToDelete marks stay until the host supplies a list without them.
func (s *fileState) clearPending(sent []UploadedFile) {
	done := make(map[string]bool, len(sent))
	for _, f := range sent {
		done[f.Seq] = true
	}
	kept := s.pending[:0:0]
	for _, f := range s.pending {
		if !done[f.Seq] {
			kept = append(kept, f)
		}
	}
	s.pending = kept
}

// clearAttachments drops the given attachments by key. Files attached
// after sent was taken are kept.
func (s *fileState) clearAttachments(sent []Attachment) {
	done := make(map[string]bool, len(sent))
	for _, a := range sent {
		done[a.Key] = true
	}
	kept := s.attachments[:0:0]
	for _, a := range s.attachments {
		if !done[a.Key] {
			kept = append(kept, a)
		}
	}
	s.attachments = kept
}

func (s *fileState) addAttachments(files []Attachment) {
	s.attachments = append(s.attachments, files...)
}

// removeAttachment deletes index i, preserving the order of the rest.
func (s *fileState) removeAttachment(i int) error {
	if i < 0 || i >= len(s.attachments) {
		return fmt.Errorf("uploadbox: remove attachment %d of %d: %w", i, len(s.attachments), ErrIndexOutOfRange)
	}
	next := make([]Attachment, 0, len(s.attachments)-1)
	next = append(next, s.attachments[:i]...)
	next = append(next, s.attachments[i+1:]...)
	s.attachments = next
	return nil
}

func (s *fileState) attachmentIndex(key string) int {
	for i, a := range s.attachments {
		if a.Key == key {
			return i
		}
	}
	return -1
}

func (s *fileState) snapshot() Snapshot {
	return Snapshot{
		ServerFiles: append([]UploadedFile(nil), s.serverFiles...),
		Pending:     append([]UploadedFile(nil), s.pending...),
		Attachments: append([]Attachment(nil), s.attachments...),
	}
}
