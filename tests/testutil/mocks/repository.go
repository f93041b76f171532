// Package mocks provides mock implementations of ports for testing.
package mocks

import (
	"context"
	"sync"

	"github.com/0xsj/overwatch-follows/internal/domain/model"
)

// --- LookupRepository Mock ---

// LookupRepository is a mock implementation of repository.LookupRepository.
type LookupRepository struct {
	mu sync.RWMutex

	// Storage, in insertion order
	lookups []*model.Lookup

	// Call tracking
	Calls struct {
		Create     int
		ListRecent int
	}

	// Error injection
	Errors struct {
		Create     error
		ListRecent error
	}
}

// NewLookupRepository creates a new mock LookupRepository.
func NewLookupRepository() *LookupRepository {
	return &LookupRepository{}
}

func (m *LookupRepository) Create(ctx context.Context, lookup *model.Lookup) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls.Create++

	if m.Errors.Create != nil {
		return m.Errors.Create
	}

	m.lookups = append(m.lookups, lookup)
	return nil
}

func (m *LookupRepository) ListRecent(ctx context.Context, limit int) ([]*model.Lookup, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	m.Calls.ListRecent++

	if m.Errors.ListRecent != nil {
		return nil, m.Errors.ListRecent
	}

	result := make([]*model.Lookup, 0, len(m.lookups))
	for i := len(m.lookups) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, m.lookups[i])
	}
	return result, nil
}

// --- Test Helpers ---

// AddLookup adds a lookup directly to storage (bypasses Create tracking).
func (m *LookupRepository) AddLookup(lookup *model.Lookup) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups = append(m.lookups, lookup)
}

// Lookups returns all stored lookups in insertion order.
func (m *LookupRepository) Lookups() []*model.Lookup {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*model.Lookup, len(m.lookups))
	copy(result, m.lookups)
	return result
}

// Reset clears all data and call counts.
func (m *LookupRepository) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups = nil
	m.Calls = struct {
		Create     int
		ListRecent int
	}{}
	m.Errors = struct {
		Create     error
		ListRecent error
	}{}
}
