package db

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/javiermolinar/turno/internal/appointment"
	"github.com/javiermolinar/turno/internal/slot"
)

// Memory implements appointment.Repository with an in-process slice.
// Contents are lost when the process exits.
type Memory struct {
	mu           sync.RWMutex
	reservations []*appointment.Reservation
}

// NewMemory creates an empty in-memory repository.
func NewMemory() *Memory {
	return &Memory{}
}

// Add appends a reservation.
func (m *Memory) Add(_ context.Context, r *appointment.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.indexOf(r.ID) >= 0 {
		return fmt.Errorf("reservation %s already stored", r.ID)
	}
	m.reservations = append(m.reservations, r.Clone())
	return nil
}

// Get retrieves a reservation by ID.
func (m *Memory) Get(_ context.Context, id string) (*appointment.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", appointment.ErrNotFound, id)
	}
	return m.reservations[i].Clone(), nil
}

// List returns all reservations in insertion order.
func (m *Memory) List(_ context.Context) ([]*appointment.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*appointment.Reservation, len(m.reservations))
	for i, r := range m.reservations {
		out[i] = r.Clone()
	}
	return out, nil
}

// Remove deletes a reservation by ID.
func (m *Memory) Remove(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", appointment.ErrNotFound, id)
	}
	m.reservations = slices.Delete(m.reservations, i, i+1)
	return nil
}

// UpdateSlot replaces a reservation's slot in place.
func (m *Memory) UpdateSlot(_ context.Context, id string, s slot.Slot, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", appointment.ErrNotFound, id)
	}
	m.reservations[i].Slot = s
	m.reservations[i].UpdatedAt = updatedAt
	return nil
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}

// indexOf must be called with m.mu held.
func (m *Memory) indexOf(id string) int {
	return slices.IndexFunc(m.reservations, func(r *appointment.Reservation) bool {
		return r.ID == id
	})
}
