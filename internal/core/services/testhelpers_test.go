package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/markwise-labs/markwise-cli/internal/core/domain"
	"github.com/markwise-labs/markwise-cli/internal/core/ports/driven"
)

// memoryMarkingStore is an in-memory MarkingStore for service tests.
type memoryMarkingStore struct {
	mu     sync.Mutex
	sheets map[string]*domain.MarkingSheet
}

func newMemoryMarkingStore() *memoryMarkingStore {
	return &memoryMarkingStore{sheets: make(map[string]*domain.MarkingSheet)}
}

func (m *memoryMarkingStore) LoadSheet(_ context.Context, key domain.CourseKey) (*domain.MarkingSheet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sheet, ok := m.sheets[key.SheetPath()]; ok {
		cp := *sheet
		cp.Results = append([]domain.MarkingRecord(nil), sheet.Results...)
		return &cp, nil
	}
	return domain.NewMarkingSheet(key, ""), nil
}

func (m *memoryMarkingStore) SaveSheet(_ context.Context, key domain.CourseKey, sheet *domain.MarkingSheet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *sheet
	cp.Results = append([]domain.MarkingRecord(nil), sheet.Results...)
	m.sheets[key.SheetPath()] = &cp
	return nil
}

func (m *memoryMarkingStore) UpdateSheet(_ context.Context, key domain.CourseKey, mutate func(*domain.MarkingSheet) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sheet, ok := m.sheets[key.SheetPath()]
	if !ok {
		sheet = domain.NewMarkingSheet(key, "")
		m.sheets[key.SheetPath()] = sheet
	}
	return mutate(sheet)
}

func (m *memoryMarkingStore) UpsertRecord(ctx context.Context, key domain.CourseKey, rec domain.MarkingRecord) error {
	return m.UpdateSheet(ctx, key, func(sheet *domain.MarkingSheet) error {
		sheet.Upsert(rec)
		return nil
	})
}

func (m *memoryMarkingStore) ListSheets(_ context.Context) ([]domain.CourseKey, error) {
	return nil, nil
}

// memoryArtifactStore is an in-memory ArtifactStore for service tests.
type memoryArtifactStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryArtifactStore() *memoryArtifactStore {
	return &memoryArtifactStore{data: make(map[string][]byte)}
}

func artifactKey(kind driven.ArtifactKind, key string) string {
	return string(kind) + "/" + key
}

func (m *memoryArtifactStore) Save(kind driven.ArtifactKind, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[artifactKey(kind, key)] = raw
	return nil
}

func (m *memoryArtifactStore) Load(kind driven.ArtifactKind, key string, value any) error {
	m.mu.Lock()
	raw, ok := m.data[artifactKey(kind, key)]
	m.mu.Unlock()
	if !ok {
		return domain.ErrNotFound
	}
	return json.Unmarshal(raw, value)
}

func (m *memoryArtifactStore) Exists(kind driven.ArtifactKind, key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[artifactKey(kind, key)]
	return ok
}

func (m *memoryArtifactStore) Path(kind driven.ArtifactKind, key string) string {
	return artifactKey(kind, key)
}
