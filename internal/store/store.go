// Package store keeps the local image of both register banks of the device.
package store

import (
	"fmt"
	"sync"

	"github.com/nexus-edge/hvac-console/internal/domain"
)

// Store holds the last known value of every register.
// It is safe for concurrent use by the command loop and the monitor.
type Store struct {
	mu      sync.RWMutex
	holding []uint16
	input   []uint16
}

// New creates a store with all registers zeroed.
func New() *Store {
	return &Store{
		holding: make([]uint16, domain.HoldingCount),
		input:   make([]uint16, domain.InputCount),
	}
}

func (s *Store) bank(bank domain.Bank) ([]uint16, error) {
	switch bank {
	case domain.BankHolding:
		return s.holding, nil
	case domain.BankInput:
		return s.input, nil
	default:
		return nil, domain.ErrInvalidRegisterBank
	}
}

// Get returns the value of one register.
func (s *Store) Get(bank domain.Bank, id uint16) (uint16, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	regs, err := s.bank(bank)
	if err != nil {
		return 0, err
	}
	if int(id) >= len(regs) {
		return 0, fmt.Errorf("%w: %s[%d]", domain.ErrInvalidAddress, bank, id)
	}
	return regs[id], nil
}

// Set stores the value of one register.
func (s *Store) Set(bank domain.Bank, id uint16, value uint16) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	regs, err := s.bank(bank)
	if err != nil {
		return err
	}
	if int(id) >= len(regs) {
		return fmt.Errorf("%w: %s[%d]", domain.ErrInvalidAddress, bank, id)
	}
	regs[id] = value
	return nil
}

// Slice returns a copy of count registers starting at from.
func (s *Store) Slice(bank domain.Bank, from, count uint16) ([]uint16, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	regs, err := s.bank(bank)
	if err != nil {
		return nil, err
	}
	if int(from)+int(count) > len(regs) {
		return nil, fmt.Errorf("%w: %s[%d..%d]", domain.ErrInvalidAddress, bank, from, int(from)+int(count)-1)
	}
	out := make([]uint16, count)
	copy(out, regs[from:int(from)+int(count)])
	return out, nil
}

// Snapshot returns a copy of a whole bank.
func (s *Store) Snapshot(bank domain.Bank) []uint16 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	regs, err := s.bank(bank)
	if err != nil {
		return nil
	}
	out := make([]uint16, len(regs))
	copy(out, regs)
	return out
}

// Apply stores values starting at from. Either all values are stored or,
// when the range does not fit the bank, none are.
func (s *Store) Apply(bank domain.Bank, from uint16, values []uint16) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	regs, err := s.bank(bank)
	if err != nil {
		return err
	}
	if int(from)+len(values) > len(regs) {
		return fmt.Errorf("%w: %s[%d..%d]", domain.ErrInvalidAddress, bank, from, int(from)+len(values)-1)
	}
	copy(regs[from:], values)
	return nil
}
