// Package annotations persists and manages user-authored annotations.
// Geometry is stored in document space and is never rewritten by zoom or
// resize; only explicit edits mutate it.
package annotations

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pdfgrip/internal/domain"
)

// Store is the persistence collaborator: one record set per
// (userID, documentID) pair
type Store interface {
	Load(userID, docID string) ([]domain.Annotation, error)
	Save(userID, docID string, anns []domain.Annotation) error
}

// fileStore keeps one JSON file per user+document under a data directory
type fileStore struct {
	dir string
}

// NewFileStore creates a store rooted at dir. An empty dir selects the
// default location under the user config directory.
func NewFileStore(dir string) Store {
	if dir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			configDir, err = os.UserHomeDir()
			if err != nil {
				configDir = "."
			}
			configDir = filepath.Join(configDir, ".config")
		}
		dir = filepath.Join(configDir, "pdfgrip", "annotations")
	}
	os.MkdirAll(dir, 0755)
	return &fileStore{dir: dir}
}

// Load reads the annotations for a user+document; a missing file means
// no annotations yet
func (s *fileStore) Load(userID, docID string) ([]domain.Annotation, error) {
	path := s.path(userID, docID)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read annotations: %w", err)
	}
	var anns []domain.Annotation
	if err := json.Unmarshal(data, &anns); err != nil {
		return nil, fmt.Errorf("failed to parse annotations: %w", err)
	}
	return anns, nil
}

// Save writes the full record set for a user+document
func (s *fileStore) Save(userID, docID string, anns []domain.Annotation) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create annotations directory: %w", err)
	}
	if anns == nil {
		anns = []domain.Annotation{}
	}
	data, err := json.MarshalIndent(anns, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize annotations: %w", err)
	}
	if err := os.WriteFile(s.path(userID, docID), data, 0644); err != nil {
		return fmt.Errorf("failed to write annotations: %w", err)
	}
	return nil
}

func (s *fileStore) path(userID, docID string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_%s.json", sanitize(userID), sanitize(docID)))
}

// sanitize keeps key components filename-safe
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		default:
			return '_'
		}
	}, s)
}
