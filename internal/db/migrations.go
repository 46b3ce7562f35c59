package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS reservations (
			seq                INTEGER PRIMARY KEY AUTOINCREMENT,
			id                 TEXT NOT NULL UNIQUE,
			patient_first_name TEXT NOT NULL DEFAULT '',
			patient_last_name  TEXT NOT NULL DEFAULT '',
			patient_email      TEXT NOT NULL,
			doctor_name        TEXT NOT NULL,
			start_minute       INTEGER NOT NULL CHECK(start_minute BETWEEN 0 AND 1439),
			end_minute         INTEGER NOT NULL CHECK(end_minute BETWEEN 0 AND 1439),
			created_at         TEXT NOT NULL,
			updated_at         TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_reservations_patient ON reservations(patient_email);
		CREATE INDEX IF NOT EXISTS idx_reservations_doctor ON reservations(doctor_name);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating reservations table: %w", err)
	}

	return nil
}
