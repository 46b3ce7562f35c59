package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/turno/internal/appointment"
)

func (a *App) bookCmd() *cobra.Command {
	var (
		firstName string
		lastName  string
		email     string
		doctor    string
		timeSlot  string
	)

	cmd := &cobra.Command{
		Use:   "book",
		Short: "Book an appointment",
		Long: `Book an appointment with a doctor for a time slot.

The slot is written on a 12-hour clock as "H:MM AM - H:MM PM".`,
		Example: `  turno book --first John --last Doe --email john@example.com \
    --doctor "Dr. Smith" --slot "10:00 AM - 11:00 AM"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service(nil, true)
			if err != nil {
				return err
			}

			r, err := svc.Book(cmd.Context(), appointment.BookRequest{
				Patient:  appointment.Patient{FirstName: firstName, LastName: lastName, Email: email},
				Doctor:   doctor,
				TimeSlot: timeSlot,
			})
			if err != nil {
				return fmt.Errorf("booking appointment: %w", err)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, formatSuccess("Appointment booked."))
			fmt.Fprintln(w, FormatReservationRow(r, RowOpts{ShowDoctor: true, ShowPatient: true, ShowID: true}))
			return nil
		},
	}

	cmd.Flags().StringVar(&firstName, "first", "", "Patient first name")
	cmd.Flags().StringVar(&lastName, "last", "", "Patient last name")
	cmd.Flags().StringVar(&email, "email", "", "Patient email (required)")
	cmd.Flags().StringVar(&doctor, "doctor", "", "Doctor name (required)")
	cmd.Flags().StringVar(&timeSlot, "slot", "", `Time slot, e.g. "10:00 AM - 11:00 AM" (required)`)
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("doctor")
	_ = cmd.MarkFlagRequired("slot")

	return cmd
}
