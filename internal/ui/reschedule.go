package ui

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) rescheduleCmd() *cobra.Command {
	var (
		email string
		from  string
		to    string
	)

	cmd := &cobra.Command{
		Use:     "reschedule",
		Aliases: []string{"update"},
		Short:   "Move an appointment to another time slot",
		Long: `Move the patient's appointment at --from to --to.

The appointment keeps its doctor and ID. The move is refused when the
doctor already has an appointment at the new slot.`,
		Example: `  turno reschedule --email john@example.com \
    --from "10:00 AM - 11:00 AM" --to "11:00 AM - 12:00 PM"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service(nil, true)
			if err != nil {
				return err
			}

			r, err := svc.Reschedule(cmd.Context(), email, from, to)
			if err != nil {
				return fmt.Errorf("rescheduling appointment: %w", err)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, formatSuccess("Appointment updated."))
			fmt.Fprintln(w, FormatReservationRow(r, RowOpts{ShowDoctor: true, ShowPatient: true}))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Patient email (required)")
	cmd.Flags().StringVar(&from, "from", "", "Current time slot (required)")
	cmd.Flags().StringVar(&to, "to", "", "New time slot (required)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}
