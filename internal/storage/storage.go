package storage

import (
	"errors"
	"fmt"
	"sync"

	"github.com/eugenenazirov/sizepack/internal/optimizer"
)

var (
	// ErrInvalidPriceSchedule indicates the provided schedule violates validation rules.
	ErrInvalidPriceSchedule = errors.New("invalid price schedule")
)

// Storage provides access to the price schedule used by the optimizer.
type Storage interface {
	GetPriceSchedule() (optimizer.PriceSchedule, error)
	SetPriceSchedule(prices optimizer.PriceSchedule) error
}

// MemoryStorage keeps the price schedule in-memory and guards access with a RWMutex.
type MemoryStorage struct {
	mu     sync.RWMutex
	prices optimizer.PriceSchedule
}

// NewMemoryStorage initialises storage with the default price schedule.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		prices: optimizer.DefaultPriceSchedule(),
	}
}

// GetPriceSchedule returns a copy of the active price schedule.
func (s *MemoryStorage) GetPriceSchedule() (optimizer.PriceSchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.prices, nil
}

// SetPriceSchedule validates and stores the provided schedule.
func (s *MemoryStorage) SetPriceSchedule(prices optimizer.PriceSchedule) error {
	if err := prices.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPriceSchedule, err)
	}

	s.mu.Lock()
	s.prices = prices
	s.mu.Unlock()

	return nil
}
