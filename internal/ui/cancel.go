package ui

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) cancelCmd() *cobra.Command {
	var (
		email    string
		timeSlot string
	)

	cmd := &cobra.Command{
		Use:   "cancel",
		Short: "Cancel an appointment",
		Long: `Cancel the patient's appointment for exactly the given time slot.

Example:
  turno cancel --email john@example.com --slot "10:00 AM - 11:00 AM"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service(nil, true)
			if err != nil {
				return err
			}

			r, err := svc.Cancel(cmd.Context(), email, timeSlot)
			if err != nil {
				return fmt.Errorf("canceling appointment: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s with %s\n",
				formatSuccess("Appointment canceled:"), formatSlot(r.Slot.String()), formatDoctor(r.Doctor))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Patient email (required)")
	cmd.Flags().StringVar(&timeSlot, "slot", "", "Time slot to cancel (required)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("slot")

	return cmd
}
