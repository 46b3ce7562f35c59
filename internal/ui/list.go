package ui

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/turno/internal/appointment"
)

func (a *App) listCmd() *cobra.Command {
	var (
		patient string
		doctor  string
		copyOut bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a patient's or a doctor's appointments",
		Long: `List appointments in booking order.

Exactly one of --patient or --doctor must be given. With --copy the
list is also copied to the clipboard as tab-separated lines.`,
		Example: `  turno list --patient john@example.com
  turno list --doctor "Dr. Smith" --copy`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service(nil, true)
			if err != nil {
				return err
			}

			var (
				list  []*appointment.Reservation
				title string
				opts  RowOpts
			)
			switch {
			case patient != "":
				list, err = svc.ListByPatient(cmd.Context(), patient)
				title = "Appointments for " + patient
				opts = RowOpts{ShowDoctor: true}
			default:
				list, err = svc.ListByDoctor(cmd.Context(), doctor)
				title = "Appointments with " + doctor
				opts = RowOpts{ShowPatient: true}
			}
			if err != nil {
				return fmt.Errorf("listing appointments: %w", err)
			}

			w := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(w, "No appointments found.")
				return nil
			}
			PrintReservations(w, title, list, opts)

			if copyOut {
				lines := make([]string, len(list))
				for i, r := range list {
					lines[i] = PlainReservationRow(r)
				}
				if err := a.copy(strings.Join(lines, "\n")); err != nil {
					return fmt.Errorf("copying to clipboard: %w", err)
				}
				fmt.Fprintln(w, formatMuted(fmt.Sprintf("Copied %d appointments to clipboard.", len(list))))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&patient, "patient", "", "Patient email")
	cmd.Flags().StringVar(&doctor, "doctor", "", "Doctor name")
	cmd.Flags().BoolVar(&copyOut, "copy", false, "Copy the list to the clipboard")
	cmd.MarkFlagsMutuallyExclusive("patient", "doctor")
	cmd.MarkFlagsOneRequired("patient", "doctor")

	return cmd
}

func (a *App) doctorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctors",
		Short: "List the doctor roster",
		Long: `List the doctors appointments can be booked with.

When the local database is configured, each doctor's number of
appointments is shown as well.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, formatHeader("Doctors"))

			if !a.config.IsPersistent() {
				for _, d := range a.config.Booking.Doctors {
					fmt.Fprintf(w, "  %s\n", formatDoctor(d))
				}
				return nil
			}

			svc, err := a.service(nil, true)
			if err != nil {
				return err
			}
			for _, d := range svc.Doctors() {
				list, err := svc.ListByDoctor(cmd.Context(), d)
				if err != nil {
					return fmt.Errorf("listing appointments: %w", err)
				}
				fmt.Fprintf(w, "  %s  %s\n", formatDoctor(d), formatMuted(fmt.Sprintf("%d booked", len(list))))
			}
			return nil
		},
	}
}
