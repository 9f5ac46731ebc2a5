package file

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/markwise-labs/markwise-cli/internal/core/domain"
	"github.com/markwise-labs/markwise-cli/internal/core/ports/driven"
)

// Ensure ArtifactStore implements the interface.
var _ driven.ArtifactStore = (*ArtifactStore)(nil)

// ArtifactStore persists pipeline stage outputs as JSON files, one
// directory per stage, one file per key.
type ArtifactStore struct {
	root string
}

// NewArtifactStore creates a file-based artifact store rooted at the
// given directory. If root is empty, defaults to ~/.markwise/artifacts.
func NewArtifactStore(root string) (*ArtifactStore, error) {
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		root = filepath.Join(home, ".markwise", "artifacts")
	}

	if err := os.MkdirAll(root, 0700); err != nil {
		return nil, fmt.Errorf("create artifact directory: %w", err)
	}

	return &ArtifactStore{root: root}, nil
}

// Save writes one artifact, replacing any previous version.
func (s *ArtifactStore) Save(kind driven.ArtifactKind, key string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s artifact: %w", kind, err)
	}

	path := s.Path(kind, key)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create %s directory: %w", kind, err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write %s artifact: %w", kind, err)
	}
	return nil
}

// Load reads one artifact into value.
func (s *ArtifactStore) Load(kind driven.ArtifactKind, key string, value any) error {
	data, err := os.ReadFile(s.Path(kind, key))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s/%s", domain.ErrNotFound, kind, key)
		}
		return fmt.Errorf("read %s artifact: %w", kind, err)
	}

	if err := json.Unmarshal(data, value); err != nil {
		return fmt.Errorf("unmarshal %s artifact: %w", kind, err)
	}
	return nil
}

// Exists reports whether an artifact has been saved.
func (s *ArtifactStore) Exists(kind driven.ArtifactKind, key string) bool {
	_, err := os.Stat(s.Path(kind, key))
	return err == nil
}

// Path returns the artifact's storage location.
func (s *ArtifactStore) Path(kind driven.ArtifactKind, key string) string {
	return filepath.Join(s.root, string(kind), key+".json")
}
