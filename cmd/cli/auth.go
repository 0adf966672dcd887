package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/aryan0dhankhar/medops/internal/domain"
	"github.com/aryan0dhankhar/medops/internal/session"
)

var (
	loginEmail    string
	loginPassword string
)

func init() {
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, sessionCmd, hashPasswordCmd)

	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email (required)")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Password (or MEDOPS_PASSWORD)")
	_ = loginCmd.MarkFlagRequired("email")
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and save the API token",
	Long: `Sign in with an account email and save the API token under ~/.medops.

Examples:
  medops login --email doctor@medops.com --password demo`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the session and forget the saved token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient()
		if c.token != "" {
			if err := c.do(http.MethodPost, "/api/logout", nil, nil); err != nil && !isStatus(err, http.StatusUnauthorized) {
				return err
			}
		}
		if err := clearToken(); err != nil {
			return fmt.Errorf("failed to remove token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Logged out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient()
		if c.token == "" {
			return errors.New("not logged in")
		}
		var id domain.Identity
		if err := c.do(http.MethodGet, "/api/me", nil, &id); err != nil {
			return err
		}
		if outputJSON {
			return printJSON(cmd.OutOrStdout(), id)
		}
		printIdentity(cmd, id)
		return nil
	},
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Show the server's console session state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp struct {
			State   string           `json:"state"`
			Pending bool             `json:"pending"`
			User    *domain.Identity `json:"user"`
		}
		if err := newClient().do(http.MethodGet, "/api/session", nil, &resp); err != nil {
			return err
		}
		if outputJSON {
			return printJSON(cmd.OutOrStdout(), resp)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "State:   %s\nPending: %t\n", resp.State, resp.Pending)
		if resp.User != nil {
			printIdentity(cmd, *resp.User)
		}
		return nil
	},
}

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password <email> <password>",
	Short: "Print an auth.password_hashes entry for bcrypt mode",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := session.HashPassword(args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s:%s\n", args[0], hash)
		return nil
	},
}

func runLogin(cmd *cobra.Command, args []string) error {
	password := loginPassword
	if password == "" {
		password = os.Getenv("MEDOPS_PASSWORD")
	}
	if password == "" {
		return errors.New("password required (--password or MEDOPS_PASSWORD)")
	}

	var resp struct {
		Token string          `json:"token"`
		User  domain.Identity `json:"user"`
	}
	c := newClient()
	c.token = ""
	if err := c.do(http.MethodPost, "/api/login", map[string]string{"email": loginEmail, "password": password}, &resp); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if err := saveToken(resp.Token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Logged in as %s (%s)\n", resp.User.Name, resp.User.Role)
	return nil
}

func printIdentity(cmd *cobra.Command, id domain.Identity) {
	dept := "-"
	if id.Department != nil {
		dept = *id.Department
	}
	fmt.Fprintf(cmd.OutOrStdout(), "ID:         %s\nName:       %s\nEmail:      %s\nRole:       %s\nDepartment: %s\n",
		id.ID, id.Name, id.Email, id.Role, dept)
}
