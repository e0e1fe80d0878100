package build

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ManifestName is the manifest file written into the output directory.
const ManifestName = "manifest.json"

// Manifest records one build run. Artifact order is deterministic (language,
// then entry), so manifests of identical inputs differ only in ID and
// CreatedAt.
type Manifest struct {
	ID             string     `json:"id"`
	CreatedAt      time.Time  `json:"created_at"`
	SourceLanguage string     `json:"source_language"`
	Languages      []string   `json:"languages"`
	Artifacts      []Artifact `json:"artifacts"`
	TotalSize      int64      `json:"total_size"`
	TotalMissing   int        `json:"total_missing"`
}

// Artifact is one rendered output file.
type Artifact struct {
	// Entry is the input file as matched by the entry glob.
	Entry string `json:"entry"`
	// Language the artifact was rendered for.
	Language string `json:"language"`
	// Path is relative to the output directory.
	Path   string `json:"path"`
	Size   int64  `json:"size"`
	SHA256 string `json:"sha256"`
	// Missing counts distinct untranslated keys in this artifact.
	Missing int `json:"missing"`
}

// LoadManifest reads the manifest of a build directory.
func LoadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if err != nil {
		return nil, errors.Join(ErrNoManifest, err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Join(ErrNoManifest, err)
	}
	return &m, nil
}

func (m *Manifest) write(dir string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	return writeFileAtomic(filepath.Join(dir, ManifestName), append(data, '\n'))
}
