package main

import (
	"fmt"
	"strconv"

	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/model"
	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/screens"
	"github.com/spf13/cobra"
)

func credentialsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "credentials",
		Aliases: []string{"creds"},
		Short:   "Manage doctor logins",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List doctor logins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := open[*screens.Credentials](e, screens.PathCredentials)
			if err != nil {
				return err
			}
			search, _ := cmd.Flags().GetString("search")
			c.Search(search)
			visible := c.Visible()
			rows := make([][]string, 0, len(visible))
			for _, cred := range visible {
				updated := ""
				if cred.UpdatedAt != nil {
					updated = cred.UpdatedAt.Format("2006-01-02")
				}
				rows = append(rows, []string{
					itoa(cred.ID), itoa(cred.DoctorID), cred.DoctorName, cred.Username,
					strconv.FormatBool(cred.HasPassword), updated,
				})
			}
			return e.render(visible, []string{"ID", "DOCTOR ID", "DOCTOR", "USERNAME", "PASSWORD SET", "UPDATED"}, rows)
		},
	}
	list.Flags().String("search", "", "Filter by doctor name or username")

	reset := &cobra.Command{
		Use:   "reset <id>",
		Short: "Change a login's username or password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var req model.UpdateCredentialRequest
			if cmd.Flags().Changed("username") {
				v, _ := cmd.Flags().GetString("username")
				req.Username = &v
			}
			if cmd.Flags().Changed("password") {
				v, _ := cmd.Flags().GetString("password")
				req.Password = &v
			}
			c, err := open[*screens.Credentials](e, screens.PathCredentials)
			if err != nil {
				return err
			}
			return e.outcome(c.Notices(), c.Reset(id, req))
		},
	}
	reset.Flags().String("username", "", "New username")
	reset.Flags().String("password", "", "New password")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a doctor login",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := open[*screens.Credentials](e, screens.PathCredentials)
			if err != nil {
				return err
			}
			yes, err := e.confirm(fmt.Sprintf("Delete login %d?", id))
			if err != nil || !yes {
				return err
			}
			return e.outcome(c.Notices(), c.Delete(id))
		},
	}

	cmd.AddCommand(list, reset, del)
	return cmd
}
