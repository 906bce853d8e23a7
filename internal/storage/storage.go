package storage

import (
	"sync"

	"github.com/eugenenazirov/production-optimizer/internal/params"
)

// Storage provides access to the product and machine layout used for validation.
type Storage interface {
	GetLayout() (params.Layout, error)
	SetLayout(layout params.Layout) error
}

// MemoryStorage keeps the layout in-memory and guards access with a RWMutex.
type MemoryStorage struct {
	mu     sync.RWMutex
	layout params.Layout
}

// NewMemoryStorage initialises storage with the default two-product, two-machine layout.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		layout: params.DefaultLayout(),
	}
}

// GetLayout returns a defensive copy of the current layout.
func (s *MemoryStorage) GetLayout() (params.Layout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.layout.Clone(), nil
}

// SetLayout validates and stores a copy of the provided layout.
func (s *MemoryStorage) SetLayout(layout params.Layout) error {
	if err := layout.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	s.layout = layout.Clone()
	s.mu.Unlock()

	return nil
}
