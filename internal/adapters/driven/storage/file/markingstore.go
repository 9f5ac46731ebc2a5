package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/markwise-labs/markwise-cli/internal/core/domain"
	"github.com/markwise-labs/markwise-cli/internal/core/ports/driven"
)

// Ensure MarkingStore implements the interface.
var _ driven.MarkingStore = (*MarkingStore)(nil)

// MarkingStore persists marking sheets as JSON files, one per course
// offering, under {root}/{year}_{term}/{code}.json. Sheets are
// rewritten whole; writes go through a temp file and rename so a
// crash never leaves a truncated sheet.
type MarkingStore struct {
	mu   sync.Mutex
	root string
}

// NewMarkingStore creates a file-based marking store rooted at the
// given directory. If root is empty, defaults to
// ~/.markwise/marking_result.
func NewMarkingStore(root string) (*MarkingStore, error) {
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		root = filepath.Join(home, ".markwise", "marking_result")
	}

	if err := os.MkdirAll(root, 0700); err != nil {
		return nil, fmt.Errorf("create marking directory: %w", err)
	}

	return &MarkingStore{root: root}, nil
}

// LoadSheet reads the sheet for a course offering. A missing sheet
// returns an empty initialised sheet.
func (s *MarkingStore) LoadSheet(ctx context.Context, key domain.CourseKey) (*domain.MarkingSheet, error) {
	if key.IsZero() {
		return nil, fmt.Errorf("%w: empty course key", domain.ErrInvalidInput)
	}

	data, err := os.ReadFile(s.sheetPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return domain.NewMarkingSheet(key, ""), nil
		}
		return nil, fmt.Errorf("read sheet %s: %w", key.Code, err)
	}

	var sheet domain.MarkingSheet
	if err := json.Unmarshal(data, &sheet); err != nil {
		return nil, fmt.Errorf("unmarshal sheet %s: %w", key.Code, err)
	}
	return &sheet, nil
}

// SaveSheet writes the sheet atomically.
func (s *MarkingStore) SaveSheet(ctx context.Context, key domain.CourseKey, sheet *domain.MarkingSheet) error {
	if key.IsZero() || sheet == nil {
		return domain.ErrInvalidInput
	}

	data, err := json.MarshalIndent(sheet, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal sheet %s: %w", key.Code, err)
	}

	path := s.sheetPath(key)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create offering directory: %w", err)
	}

	// Write to a temp file in the same directory, then rename over
	// the target so readers never observe a partial sheet.
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+key.Code+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp sheet: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp sheet: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp sheet: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace sheet %s: %w", key.Code, err)
	}
	return nil
}

// UpdateSheet loads the sheet, applies the mutation and writes the
// sheet back, all under the store lock. A mutation error aborts the
// write and is returned unchanged.
func (s *MarkingStore) UpdateSheet(ctx context.Context, key domain.CourseKey, mutate func(*domain.MarkingSheet) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sheet, err := s.LoadSheet(ctx, key)
	if err != nil {
		return err
	}
	if err := mutate(sheet); err != nil {
		return err
	}
	return s.SaveSheet(ctx, key, sheet)
}

// UpsertRecord upserts one record by its identity.
func (s *MarkingStore) UpsertRecord(ctx context.Context, key domain.CourseKey, rec domain.MarkingRecord) error {
	return s.UpdateSheet(ctx, key, func(sheet *domain.MarkingSheet) error {
		sheet.Upsert(rec)
		return nil
	})
}

// ListSheets returns the course keys of all stored sheets.
func (s *MarkingStore) ListSheets(ctx context.Context) ([]domain.CourseKey, error) {
	offerings, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("read marking directory: %w", err)
	}

	var keys []domain.CourseKey
	for _, offering := range offerings {
		if !offering.IsDir() {
			continue
		}
		year, term, ok := splitFolder(offering.Name())
		if !ok {
			continue
		}

		sheets, err := os.ReadDir(filepath.Join(s.root, offering.Name()))
		if err != nil {
			return nil, fmt.Errorf("read offering %s: %w", offering.Name(), err)
		}
		for _, sheet := range sheets {
			name := sheet.Name()
			if sheet.IsDir() || !strings.HasSuffix(name, ".json") {
				continue
			}
			keys = append(keys, domain.CourseKey{
				Code: strings.TrimSuffix(name, ".json"),
				Year: year,
				Term: term,
			})
		}
	}

	return keys, nil
}

// sheetPath returns the sheet location for a course offering.
func (s *MarkingStore) sheetPath(key domain.CourseKey) string {
	return filepath.Join(s.root, key.SheetPath())
}

// splitFolder parses an offering directory name like "2025_Term3".
func splitFolder(name string) (year, term string, ok bool) {
	parts := strings.SplitN(name, "_", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
