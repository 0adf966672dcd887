package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/aryan0dhankhar/medops/internal/domain"
)

var (
	apptPatientID string
	apptDoctor    string
	apptDate      string
	apptDuration  int
	apptType      string
	apptNotes     string
	calendarDay   string
)

func init() {
	rootCmd.AddCommand(appointmentsCmd, telemedicineCmd)
	appointmentsCmd.AddCommand(appointmentsListCmd, appointmentsAddCmd, appointmentsCancelCmd, appointmentsDeleteCmd, appointmentsCalendarCmd)

	f := appointmentsAddCmd.Flags()
	f.StringVar(&apptPatientID, "patient-id", "", "Patient id (required)")
	f.StringVar(&apptDoctor, "doctor", "", "Doctor name (required)")
	f.StringVar(&apptDate, "date", "", "Start, \"YYYY-MM-DD HH:MM\" local time (required)")
	f.IntVar(&apptDuration, "duration", 30, "Length in minutes")
	f.StringVar(&apptType, "type", domain.TypeConsultation, "Consultation, Telemedicine, Follow-up, Emergency")
	f.StringVar(&apptNotes, "notes", "", "Free-form notes")
	_ = appointmentsAddCmd.MarkFlagRequired("patient-id")
	_ = appointmentsAddCmd.MarkFlagRequired("doctor")
	_ = appointmentsAddCmd.MarkFlagRequired("date")

	appointmentsCalendarCmd.Flags().StringVar(&calendarDay, "day", "", "Day to show (YYYY-MM-DD, default today)")
}

var appointmentsCmd = &cobra.Command{
	Use:   "appointments",
	Short: "Manage the appointment schedule",
	Long: `Manage the appointment schedule.

Examples:
  medops appointments list
  medops appointments add --patient-id 1 --doctor "Dr. Sarah Johnson" --date "2025-01-20 09:30" --type Follow-up
  medops appointments calendar --day 2025-01-15
  medops appointments cancel 2`,
}

var appointmentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List appointments in date order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listAppointments(cmd, "/api/appointments")
	},
}

var telemedicineCmd = &cobra.Command{
	Use:   "telemedicine",
	Short: "List remote appointments",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listAppointments(cmd, "/api/telemedicine")
	},
}

var appointmentsCalendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Show one day's appointments",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "/api/appointments/calendar"
		if calendarDay != "" {
			if _, err := parseDay(calendarDay); err != nil {
				return err
			}
			path += "?day=" + url.QueryEscape(calendarDay)
		}
		var resp struct {
			Day          string               `json:"day"`
			Appointments []domain.Appointment `json:"appointments"`
		}
		if err := newClient().do(http.MethodGet, path, nil, &resp); err != nil {
			return err
		}
		if outputJSON {
			return printJSON(cmd.OutOrStdout(), resp)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d appointment(s)\n", resp.Day, len(resp.Appointments))
		return printAppointments(cmd.OutOrStdout(), resp.Appointments)
	},
}

var appointmentsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Book an appointment",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDayTime(apptDate)
		if err != nil {
			return err
		}
		in := domain.AppointmentInput{
			PatientID:  apptPatientID,
			DoctorName: apptDoctor,
			Date:       date,
			Duration:   apptDuration,
			Type:       apptType,
			Notes:      apptNotes,
		}
		var created domain.Appointment
		if err := newClient().do(http.MethodPost, "/api/appointments", in, &created); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Appointment %s booked for %s at %s\n", created.ID, created.PatientName, formatDayTime(created.Date))
		return nil
	},
}

var appointmentsCancelCmd = &cobra.Command{
	Use:   "cancel <id>",
	Short: "Mark an appointment cancelled",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		status := domain.AppointmentCancelled
		patch := domain.AppointmentPatch{Status: &status}
		if err := newClient().do(http.MethodPatch, "/api/appointments/"+url.PathEscape(args[0]), patch, nil); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Appointment %s cancelled\n", args[0])
		return nil
	},
}

var appointmentsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an appointment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newClient().do(http.MethodDelete, "/api/appointments/"+url.PathEscape(args[0]), nil, nil); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Appointment %s deleted\n", args[0])
		return nil
	},
}

func listAppointments(cmd *cobra.Command, path string) error {
	var appts []domain.Appointment
	if err := newClient().do(http.MethodGet, path, nil, &appts); err != nil {
		return err
	}
	if outputJSON {
		return printJSON(cmd.OutOrStdout(), appts)
	}
	return printAppointments(cmd.OutOrStdout(), appts)
}

func printAppointments(out io.Writer, appts []domain.Appointment) error {
	w := newTable(out, "ID\tWHEN\tMIN\tPATIENT\tDOCTOR\tTYPE\tSTATUS")
	for _, a := range appts {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\t%s\n", a.ID, formatDayTime(a.Date), a.Duration, a.PatientName, a.DoctorName, a.Type, a.Status)
	}
	return w.Flush()
}
