// Package main implements the medops CLI, a thin client over the MedOps HTTP API.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	// serverURL is the base URL for the MedOps server
	serverURL  string
	outputJSON bool
	version    = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "medops",
	Short: "CLI for the MedOps hospital operations API",
	Long: `medops talks to a running MedOps server: sign in, then manage the task
board, the patient registry and the appointment schedule.

Environment Variables:
  MEDOPS_API    server URL (default: http://localhost:8080)`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	defaultURL := "http://localhost:8080"
	if v := os.Getenv("MEDOPS_API"); v != "" {
		defaultURL = v
	}
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultURL, "MedOps server URL")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output results as JSON")
}
