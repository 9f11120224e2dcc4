package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/md-rashed-zaman/clinicadmin/libs/runtime"
	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/model"
	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/screens"
	"github.com/spf13/cobra"
)

func loginCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in as a clinic admin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			scr, _ := e.app.Navigate(screens.PathLogin)
			login, ok := scr.(*screens.Login)
			if !ok {
				admin, _ := e.session.Admin()
				fmt.Fprintf(e.out, "Already signed in as %s\n", admin.Email)
				return nil
			}

			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			if password == "" {
				password = os.Getenv("CLINIC_ADMIN_PASSWORD")
			}
			var err error
			if email == "" {
				if email, err = e.prompt("Email"); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = e.prompt("Password"); err != nil {
					return err
				}
			}

			err = login.Submit(model.LoginRequest{Email: email, Password: password})
			if err := e.outcome(login.Notices(), err); err != nil {
				return err
			}
			admin, _ := e.session.Admin()
			e.printf("Welcome, %s\n", admin.FullName())
			return nil
		},
	}
	cmd.Flags().String("email", "", "Admin email")
	cmd.Flags().String("password", "", "Admin password (or CLINIC_ADMIN_PASSWORD)")
	return cmd
}

func logoutCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if err := e.app.Logout(); err != nil {
				return err
			}
			e.printf("Signed out\n")
			return nil
		},
	}
}

func whoamiCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in admin",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			admin, err := e.session.Admin()
			if err != nil {
				return errNotSignedIn
			}
			return e.render(admin,
				[]string{"ID", "NAME", "EMAIL", "PHONE"},
				[][]string{{itoa(admin.ID), admin.FullName(), admin.Email, admin.PhoneNumber}})
		},
	}
}

func statusCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the API and the configured backing services",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			results := runtime.RunChecks(cmd.Context(), e.readyChecks()...)
			type row struct {
				Name  string `json:"name"`
				OK    bool   `json:"ok"`
				Error string `json:"error,omitempty"`
			}
			var (
				out    []row
				rows   [][]string
				failed bool
			)
			for _, r := range results {
				status, msg := "ok", ""
				if r.Err != nil {
					status, msg, failed = "down", r.Err.Error(), true
				}
				out = append(out, row{Name: r.Name, OK: r.Err == nil, Error: msg})
				rows = append(rows, []string{r.Name, status, msg})
			}
			if err := e.render(out, []string{"CHECK", "STATUS", "ERROR"}, rows); err != nil {
				return err
			}
			if failed {
				return errors.New("one or more checks failed")
			}
			return nil
		},
	}
}
