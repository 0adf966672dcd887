package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/aryan0dhankhar/medops/internal/projection"
)

func init() {
	rootCmd.AddCommand(dashboardCmd, healthCmd, reloadCmd)
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the dashboard summary",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var d projection.Dashboard
		if err := newClient().do(http.MethodGet, "/api/dashboard", nil, &d); err != nil {
			return err
		}
		if outputJSON {
			return printJSON(cmd.OutOrStdout(), d)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Tasks:        %d total, %d pending, %d active, %d complete\n",
			d.Tasks.Total, d.Tasks.Pending, d.Tasks.Active, d.Tasks.Complete)
		fmt.Fprintf(out, "Appointments: %d today, %d upcoming, %d completed\n",
			d.Appointments.Today, d.Appointments.Upcoming, d.Appointments.Completed)
		fmt.Fprintf(out, "Patients:     %d\n", d.Patients)
		if len(d.Upcoming) > 0 {
			fmt.Fprintln(out, "\nUpcoming appointments")
			if err := printAppointments(out, d.Upcoming); err != nil {
				return err
			}
		}
		if len(d.OpenTasks) > 0 {
			fmt.Fprintln(out, "\nOpen tasks")
			printTasks(cmd, d.OpenTasks)
		}
		return nil
	},
}

// HealthResponse matches the server's /healthz body.
type HealthResponse struct {
	Status string `json:"status"`
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check server liveness and readiness",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient()
		var h HealthResponse
		if err := c.do(http.MethodGet, "/healthz", nil, &h); err != nil {
			return err
		}
		var ready struct {
			Status string            `json:"status"`
			Checks map[string]string `json:"checks"`
		}
		readyErr := c.do(http.MethodGet, "/readyz", nil, &ready)
		if readyErr != nil && !isStatus(readyErr, http.StatusServiceUnavailable) {
			return readyErr
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Server: %s\n", h.Status)
		if readyErr != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Ready:  no (%v)\n", readyErr)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Ready:  %s\n", ready.Status)
		for name, status := range ready.Checks {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s\n", name, status)
		}
		return nil
	},
}

var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Re-read every collection from durable storage (administrators)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newClient().do(http.MethodPost, "/api/reload", nil, nil); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Collections reloaded")
		return nil
	},
}
