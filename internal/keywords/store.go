package keywords

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	schemafiles "github.com/jonathan/resume-scorer/schemas"

	"github.com/jonathan/resume-scorer/internal/schemas"
	"github.com/jonathan/resume-scorer/internal/types"
)

// DefaultPath is the keyword file location used when none is configured.
const DefaultPath = "keywords.json"

// Store loads a persisted keyword set. EnsureDefault must be called by the
// owner before the first Load.
type Store interface {
	EnsureDefault() error
	Load() (types.KeywordSet, error)
}

// FileStore keeps the keyword set as a JSON document on disk.
type FileStore struct {
	path     string
	defaults types.KeywordSet
}

// NewFileStore creates a store backed by the JSON file at path.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultPath
	}
	return &FileStore{
		path:     path,
		defaults: types.DefaultKeywordSet(),
	}
}

// Path returns the backing file location.
func (s *FileStore) Path() string {
	return s.path
}

// EnsureDefault writes the built-in keyword set if the file is missing,
// unreadable, or fails validation. A valid existing file is left untouched.
func (s *FileStore) EnsureDefault() error {
	_, err := s.Load()
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		log.Printf("[keywords] Replacing unusable keyword file %s: %v", s.path, err)
	}

	if err := s.write(s.defaults); err != nil {
		return err
	}
	log.Printf("[keywords] Created default keyword file: %s", s.path)
	return nil
}

// Load reads and validates the keyword set.
func (s *FileStore) Load() (types.KeywordSet, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		return nil, &LoadError{
			Path:    s.path,
			Message: "failed to read file",
			Cause:   err,
		}
	}

	if err := schemas.Validate(schemafiles.KeywordSet, content); err != nil {
		return nil, &LoadError{
			Path:    s.path,
			Message: "keyword file does not match schema",
			Cause:   err,
		}
	}

	var ks types.KeywordSet
	if err := json.Unmarshal(content, &ks); err != nil {
		return nil, &LoadError{
			Path:    s.path,
			Message: "failed to unmarshal JSON",
			Cause:   err,
		}
	}

	if err := ks.Validate(); err != nil {
		return nil, &LoadError{
			Path:    s.path,
			Message: "invalid keyword set",
			Cause:   err,
		}
	}

	return ks, nil
}

func (s *FileStore) write(ks types.KeywordSet) error {
	content, err := json.MarshalIndent(ks, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal keyword set: %w", err)
	}

	dir := filepath.Dir(s.path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create keyword directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(s.path, content, 0644); err != nil {
		return fmt.Errorf("failed to write keyword file %s: %w", s.path, err)
	}
	return nil
}

// LoadOrInit ensures the store holds a keyword set and returns it.
func LoadOrInit(store Store) (types.KeywordSet, error) {
	if err := store.EnsureDefault(); err != nil {
		return nil, fmt.Errorf("failed to initialize keyword store: %w", err)
	}
	ks, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load keyword set: %w", err)
	}
	return ks, nil
}
