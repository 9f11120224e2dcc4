package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/model"
	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/screens"
	"github.com/spf13/cobra"
)

func dashboardCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show feedback statistics and the feedback inbox",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := open[*screens.Dashboard](e, screens.PathDashboard)
			if err != nil {
				return err
			}
			search, _ := cmd.Flags().GetString("search")
			page, _ := cmd.Flags().GetInt("page")
			d.Search(search)
			d.GoToPage(page)

			visible := d.Visible()
			if e.format == "json" {
				return e.render(struct {
					Stats    screens.Stats    `json:"stats"`
					Feedback []model.Feedback `json:"feedback"`
				}{d.Stats(), visible}, nil, nil)
			}

			admin, stats := d.Admin(), d.Stats()
			fmt.Fprintf(e.out, "Signed in as %s <%s>\n", admin.FullName(), admin.Email)
			fmt.Fprintf(e.out, "Feedback: %d total, %d in the last 7 days\n\n", stats.Total, stats.Recent)

			now := time.Now()
			rows := make([][]string, 0, len(visible))
			for _, f := range visible {
				rows = append(rows, []string{
					itoa(f.ID), screens.Initials(f.Name), f.Name, f.Email,
					screens.TimeAgo(f.CreatedAt, now), truncate(f.Message, 48),
				})
			}
			if err := e.render(nil, []string{"ID", "", "NAME", "EMAIL", "RECEIVED", "MESSAGE"}, rows); err != nil {
				return err
			}
			current, total, links := d.Page()
			if total > 1 {
				labels := make([]string, len(links))
				for i, p := range links {
					labels[i] = strconv.Itoa(p)
					if p == current {
						labels[i] = "[" + labels[i] + "]"
					}
				}
				fmt.Fprintf(e.out, "\nPage %d of %d  %s\n", current, total, strings.Join(labels, " "))
			}
			return nil
		},
	}
	cmd.Flags().String("search", "", "Filter by name, email or message")
	cmd.Flags().Int("page", 1, "Page to show")
	return cmd
}

func feedbackCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Inspect or delete visitor feedback",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show one feedback message",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			d, err := open[*screens.Dashboard](e, screens.PathDashboard)
			if err != nil {
				return err
			}
			if !d.OpenDetail(id) {
				return fmt.Errorf("feedback %d not found", id)
			}
			f, _ := d.Selected()
			if e.format == "json" {
				return e.render(f, nil, nil)
			}
			fmt.Fprintf(e.out, "From:     %s <%s>\n", f.Name, f.Email)
			fmt.Fprintf(e.out, "Received: %s\n\n%s\n", screens.TimeAgo(f.CreatedAt, time.Now()), f.Message)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a feedback message",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				id = 0
			}
			d, err := open[*screens.Dashboard](e, screens.PathDashboard)
			if err != nil {
				return err
			}
			ok, err := e.confirm("Are you sure you want to delete this feedback?")
			if err != nil || !ok {
				return err
			}
			return e.outcome(d.Notices(), d.Delete(id))
		},
	})
	return cmd
}
