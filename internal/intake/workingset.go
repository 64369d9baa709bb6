// Package intake maintains the deduplicated working set of documents staged
// for submission.
package intake

import (
	"log/slog"

	"github.com/creditdesk/eligibility-intake/internal/domain"
)

// Set is the ordered, name-keyed working set. Operations are pure: they
// return a new Set and never mutate their input, so callers can hold on to
// prior snapshots safely.
type Set struct {
	docs []domain.Document
}

// NewSet returns an empty working set.
func NewSet() Set { return Set{} }

// Add filters incoming documents through the extension allow-list and merges
// the survivors into s. A survivor whose name is already present replaces the
// existing entry in place (last write wins, position preserved); new names are
// appended in input order. Files with disallowed extensions are dropped
// silently, matching the original intake behavior; they are logged at debug
// level only.
func Add(s Set, incoming []domain.Document) Set {
	docs := make([]domain.Document, len(s.docs), len(s.docs)+len(incoming))
	copy(docs, s.docs)

	index := make(map[string]int, len(docs))
	for i, d := range docs {
		index[d.Name] = i
	}

	for _, in := range incoming {
		if !domain.ExtensionAllowed(in.Ext) {
			slog.Debug("dropping document with disallowed extension",
				slog.String("name", in.Name), slog.String("ext", in.Ext))
			continue
		}
		if i, ok := index[in.Name]; ok {
			docs[i] = in
			continue
		}
		index[in.Name] = len(docs)
		docs = append(docs, in)
	}
	return Set{docs: docs}
}

// Remove drops the document with the given name. No-op if absent.
func Remove(s Set, name string) Set {
	docs := make([]domain.Document, 0, len(s.docs))
	for _, d := range s.docs {
		if d.Name != name {
			docs = append(docs, d)
		}
	}
	return Set{docs: docs}
}

// Len returns the number of staged documents.
func (s Set) Len() int { return len(s.docs) }

// Documents returns a copy of the staged documents in insertion order.
func (s Set) Documents() []domain.Document {
	out := make([]domain.Document, len(s.docs))
	copy(out, s.docs)
	return out
}

// Names returns the staged document names in insertion order.
func (s Set) Names() []string {
	out := make([]string, len(s.docs))
	for i, d := range s.docs {
		out[i] = d.Name
	}
	return out
}

// HasPDF reports whether any staged document will need server-side OCR.
func (s Set) HasPDF() bool {
	for _, d := range s.docs {
		if d.IsPDF() {
			return true
		}
	}
	return false
}
