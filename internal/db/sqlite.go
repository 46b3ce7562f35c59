// Package db provides reservation storage: an in-memory store and SQLite.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/turno/internal/appointment"
	"github.com/javiermolinar/turno/internal/slot"
)

// SQLite implements appointment.Repository using SQLite.
type SQLite struct {
	db *sql.DB
}

// New creates a new SQLite repository and runs migrations.
// The parent directory of path is created if needed.
func New(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

const selectColumns = `
	SELECT id, patient_first_name, patient_last_name, patient_email, doctor_name,
	       start_minute, end_minute, created_at, updated_at
	FROM reservations
`

// Add appends a reservation.
func (s *SQLite) Add(ctx context.Context, r *appointment.Reservation) error {
	query := `
		INSERT INTO reservations (
			id, patient_first_name, patient_last_name, patient_email, doctor_name,
			start_minute, end_minute, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		r.ID,
		r.Patient.FirstName,
		r.Patient.LastName,
		r.Patient.Email,
		r.Doctor,
		int(r.Slot.Start),
		int(r.Slot.End),
		r.CreatedAt.Format(time.RFC3339Nano),
		r.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting reservation: %w", err)
	}

	return nil
}

// Get retrieves a reservation by ID.
func (s *SQLite) Get(ctx context.Context, id string) (*appointment.Reservation, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)

	r, err := scanReservation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", appointment.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying reservation: %w", err)
	}

	return r, nil
}

// List returns all reservations in insertion order.
func (s *SQLite) List(ctx context.Context) ([]*appointment.Reservation, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("querying reservations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	reservations := []*appointment.Reservation{}
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning reservation: %w", err)
		}
		reservations = append(reservations, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reservations: %w", err)
	}

	return reservations, nil
}

// Remove deletes a reservation by ID.
func (s *SQLite) Remove(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting reservation: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: %s", appointment.ErrNotFound, id)
	}

	return nil
}

// UpdateSlot replaces a reservation's slot in place.
func (s *SQLite) UpdateSlot(ctx context.Context, id string, sl slot.Slot, updatedAt time.Time) error {
	query := `UPDATE reservations SET start_minute = ?, end_minute = ?, updated_at = ? WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query,
		int(sl.Start), int(sl.End), updatedAt.Format(time.RFC3339Nano), id)
	if err != nil {
		return fmt.Errorf("updating reservation slot: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: %s", appointment.ErrNotFound, id)
	}

	return nil
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReservation(sc scanner) (*appointment.Reservation, error) {
	var (
		r         appointment.Reservation
		start     int
		end       int
		createdAt string
		updatedAt string
	)

	err := sc.Scan(
		&r.ID,
		&r.Patient.FirstName,
		&r.Patient.LastName,
		&r.Patient.Email,
		&r.Doctor,
		&start,
		&end,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.Slot = slot.New(slot.TimeOfDay(start), slot.TimeOfDay(end))

	r.CreatedAt, err = parseTimestamp(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}
	r.UpdatedAt, err = parseTimestamp(updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing updated at: %w", err)
	}

	return &r, nil
}

// parseTimestamp parses the timestamp formats SQLite might return.
func parseTimestamp(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05Z",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format: %s", s)
}
