package store

import (
	"context"
	"sync"

	"github.com/AngelCh415/lpd-dashboard/internal/models"
)

type MemoryStore struct {
	mu     sync.RWMutex
	sheets map[models.Sheet]*models.Table
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sheets: make(map[models.Sheet]*models.Table)}
}

func (s *MemoryStore) Read(_ context.Context, sheet models.Sheet) (models.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.sheets[sheet]
	if !ok {
		return models.Table{}, nil
	}
	return cloneTable(*t), nil
}

func (s *MemoryStore) Append(_ context.Context, sheet models.Sheet, rows models.Table) (int, error) {
	in := cloneTable(rows)
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.sheets[sheet]
	if !ok {
		t = &models.Table{}
		s.sheets[sheet] = t
	}
	t.Columns = mergeColumns(t.Columns, in.Columns)
	t.Rows = append(t.Rows, in.Rows...)
	return len(in.Rows), nil
}

// Seed reemplaza una hoja completa (tests y datos de demostración).
func (s *MemoryStore) Seed(sheet models.Sheet, t models.Table) {
	cp := cloneTable(t)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sheets[sheet] = &cp
}
