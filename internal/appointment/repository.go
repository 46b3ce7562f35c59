package appointment

import (
	"context"
	"time"

	"github.com/javiermolinar/turno/internal/slot"
)

// Repository defines the storage interface for reservations.
// Implementations keep insertion order and hand out copies.
type Repository interface {
	// Add appends a reservation to the store.
	Add(ctx context.Context, r *Reservation) error

	// Get retrieves a reservation by ID.
	// Returns ErrNotFound if there is none.
	Get(ctx context.Context, id string) (*Reservation, error)

	// List returns every reservation in insertion order.
	List(ctx context.Context) ([]*Reservation, error)

	// Remove deletes a reservation by ID.
	// Returns ErrNotFound if there is none.
	Remove(ctx context.Context, id string) error

	// UpdateSlot replaces a reservation's slot in place, keeping its position.
	// Returns ErrNotFound if there is none.
	UpdateSlot(ctx context.Context, id string, s slot.Slot, updatedAt time.Time) error

	// Close releases any resources held by the repository.
	Close() error
}
