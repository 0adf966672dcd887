package main

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aryan0dhankhar/medops/internal/domain"
)

var (
	patientSearch    string
	patientName      string
	patientEmail     string
	patientPhone     string
	patientDOB       string
	patientAddress   string
	patientBloodType string
	patientAllergies []string
	contactName      string
	contactPhone     string
	contactRelation  string
)

func init() {
	rootCmd.AddCommand(patientsCmd)
	patientsCmd.AddCommand(patientsListCmd, patientsShowCmd, patientsAddCmd, patientsDeleteCmd)

	patientsListCmd.Flags().StringVar(&patientSearch, "search", "", "Match name or email")

	f := patientsAddCmd.Flags()
	f.StringVar(&patientName, "name", "", "Full name (required)")
	f.StringVar(&patientEmail, "email", "", "Email (required)")
	f.StringVar(&patientPhone, "phone", "", "Phone number")
	f.StringVar(&patientDOB, "dob", "", "Date of birth (YYYY-MM-DD)")
	f.StringVar(&patientAddress, "address", "", "Postal address")
	f.StringVar(&patientBloodType, "blood-type", "", "Blood type, e.g. A+")
	f.StringSliceVar(&patientAllergies, "allergy", nil, "Allergy (repeatable)")
	f.StringVar(&contactName, "contact-name", "", "Emergency contact name")
	f.StringVar(&contactPhone, "contact-phone", "", "Emergency contact phone")
	f.StringVar(&contactRelation, "contact-relationship", "", "Emergency contact relationship")
	_ = patientsAddCmd.MarkFlagRequired("name")
	_ = patientsAddCmd.MarkFlagRequired("email")
}

var patientsCmd = &cobra.Command{
	Use:   "patients",
	Short: "Manage the patient registry",
	Long: `Manage the patient registry.

Examples:
  medops patients list --search garcia
  medops patients add --name "Ann Lee" --email ann@example.com --dob 1990-02-01 --allergy Latex
  medops patients show 2`,
}

var patientsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List patients",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "/api/patients"
		if patientSearch != "" {
			path += "?q=" + url.QueryEscape(patientSearch)
		}
		var patients []domain.Patient
		if err := newClient().do(http.MethodGet, path, nil, &patients); err != nil {
			return err
		}
		if outputJSON {
			return printJSON(cmd.OutOrStdout(), patients)
		}
		w := newTable(cmd.OutOrStdout(), "ID\tNAME\tEMAIL\tPHONE\tBORN\tBLOOD")
		for _, p := range patients {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Email, p.Phone, formatDay(p.DateOfBirth), p.BloodType)
		}
		return w.Flush()
	},
}

var patientsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one patient with history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var p domain.Patient
		if err := newClient().do(http.MethodGet, "/api/patients/"+url.PathEscape(args[0]), nil, &p); err != nil {
			return err
		}
		if outputJSON {
			return printJSON(cmd.OutOrStdout(), p)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s (%s)\n", p.Name, p.ID)
		fmt.Fprintf(out, "  Email:     %s\n  Phone:     %s\n  Born:      %s\n  Address:   %s\n  Blood:     %s\n",
			p.Email, p.Phone, formatDay(p.DateOfBirth), p.Address, p.BloodType)
		fmt.Fprintf(out, "  Allergies: %s\n", strings.Join(p.Allergies, ", "))
		fmt.Fprintf(out, "  Emergency: %s (%s) %s\n", p.EmergencyContact.Name, p.EmergencyContact.Relationship, p.EmergencyContact.Phone)
		for _, r := range p.MedicalHistory {
			fmt.Fprintf(out, "  - %s, diagnosed %s, %s\n", r.Condition, formatDay(r.DiagnosedDate), r.Status)
		}
		return nil
	},
}

var patientsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a patient",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		in := domain.PatientInput{
			Name:      patientName,
			Email:     patientEmail,
			Phone:     patientPhone,
			Address:   patientAddress,
			BloodType: patientBloodType,
			Allergies: patientAllergies,
			EmergencyContact: domain.EmergencyContact{
				Name:         contactName,
				Phone:        contactPhone,
				Relationship: contactRelation,
			},
		}
		if patientDOB != "" {
			dob, err := parseDay(patientDOB)
			if err != nil {
				return err
			}
			in.DateOfBirth = dob
		}
		var created domain.Patient
		if err := newClient().do(http.MethodPost, "/api/patients", in, &created); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Patient registered: %s\n", created.ID)
		return nil
	},
}

var patientsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a patient (appointments are kept)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newClient().do(http.MethodDelete, "/api/patients/"+url.PathEscape(args[0]), nil, nil); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Patient %s deleted\n", args[0])
		return nil
	},
}
