package intake

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/creditdesk/eligibility-intake/internal/domain"
)

// LoadPath reads a file from disk into a Document. The extension is inferred
// from the filename; the MIME type is sniffed from content. Oversized and
// unreadable files fail with ErrValidation so the session surfaces them as
// local errors without issuing a network call.
func LoadPath(path string) (domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Document{}, fmt.Errorf("%w: read %s: %v", domain.ErrValidation, path, err)
	}
	if len(data) > domain.MaxDocumentBytes {
		return domain.Document{}, fmt.Errorf("%w: %s exceeds the 10 MB size limit", domain.ErrValidation, filepath.Base(path))
	}
	name := filepath.Base(path)
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	return domain.Document{
		Name: name,
		Data: data,
		Ext:  ext,
		MIME: mimetype.Detect(data).String(),
	}, nil
}

// LoadPaths loads every path; the first failure aborts the batch.
func LoadPaths(paths []string) ([]domain.Document, error) {
	docs := make([]domain.Document, 0, len(paths))
	for _, p := range paths {
		d, err := LoadPath(p)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, nil
}
