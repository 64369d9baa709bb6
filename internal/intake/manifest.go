package intake

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/creditdesk/eligibility-intake/internal/domain"
)

// Manifest describes a batch submission in a YAML file: the document paths
// plus the optional pass-through metadata fields. Relative paths are resolved
// against the manifest's own directory.
type Manifest struct {
	UserID   string   `yaml:"user_id"`
	Category string   `yaml:"category"`
	Files    []string `yaml:"files"`
}

// LoadManifest parses a manifest file. An empty files list is rejected here
// so the session's empty-set check is not the first place the mistake shows.
func LoadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("%w: read manifest %s: %v", domain.ErrValidation, path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("%w: parse manifest %s: %v", domain.ErrValidation, path, err)
	}
	if len(m.Files) == 0 {
		return Manifest{}, fmt.Errorf("%w: manifest %s lists no files", domain.ErrValidation, path)
	}
	dir := filepath.Dir(path)
	for i, f := range m.Files {
		if !filepath.IsAbs(f) {
			m.Files[i] = filepath.Join(dir, f)
		}
	}
	return m, nil
}

// Metadata returns the manifest's pass-through submission fields.
func (m Manifest) Metadata() domain.Metadata {
	return domain.Metadata{UserID: m.UserID, Category: m.Category}
}
