package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/model"
	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/screens"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func departmentsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "departments",
		Aliases: []string{"department", "dept"},
		Short:   "Manage clinic departments",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List departments with their specialist counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := open[*screens.Departments](e, screens.PathDepartment)
			if err != nil {
				return err
			}
			search, _ := cmd.Flags().GetString("search")
			d.Search(search)
			visible := d.Visible()
			rows := make([][]string, 0, len(visible))
			for _, dep := range visible {
				rows = append(rows, []string{
					itoa(dep.ID), dep.Icon, dep.Name, strconv.Itoa(dep.Specialists),
					strings.Join(dep.Services, ", "), truncate(dep.Description, 40),
				})
			}
			return e.render(visible, []string{"ID", "ICON", "NAME", "SPECIALISTS", "SERVICES", "DESCRIPTION"}, rows)
		},
	}
	list.Flags().String("search", "", "Filter by name or description")

	add := &cobra.Command{
		Use:   "add",
		Short: "Add a department",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := open[*screens.Departments](e, screens.PathDepartment)
			if err != nil {
				return err
			}
			d.OpenAdd()
			applyDepartmentFlags(d, cmd.Flags())
			return e.outcome(d.Notices(), d.Save())
		},
	}

	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Update a department; only the given flags change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			d, err := open[*screens.Departments](e, screens.PathDepartment)
			if err != nil {
				return err
			}
			if !d.OpenEdit(id) {
				return fmt.Errorf("department %d not found", id)
			}
			applyDepartmentFlags(d, cmd.Flags())
			return e.outcome(d.Notices(), d.Save())
		},
	}

	for _, c := range []*cobra.Command{add, edit} {
		c.Flags().String("name", "", "Department name")
		c.Flags().String("description", "", "Short description")
		c.Flags().String("icon", "", "Icon shown next to the name")
		c.Flags().StringSlice("service", nil, "Service offered (repeatable; replaces the list)")
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a department",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			d, err := open[*screens.Departments](e, screens.PathDepartment)
			if err != nil {
				return err
			}
			dep, ok := d.Find(id)
			if !ok {
				return fmt.Errorf("department %d not found", id)
			}
			yes, err := e.confirm(fmt.Sprintf("Delete department %q?", dep.Name))
			if err != nil || !yes {
				return err
			}
			return e.outcome(d.Notices(), d.Delete(id))
		},
	}

	cmd.AddCommand(list, add, edit, del)
	return cmd
}

func applyDepartmentFlags(d *screens.Departments, flags *pflag.FlagSet) {
	d.Edit(func(dep *model.Department) {
		if flags.Changed("name") {
			dep.Name, _ = flags.GetString("name")
		}
		if flags.Changed("description") {
			dep.Description, _ = flags.GetString("description")
		}
		if flags.Changed("icon") {
			dep.Icon, _ = flags.GetString("icon")
		}
		if flags.Changed("service") {
			dep.Services = nil
		}
	})
	services, _ := flags.GetStringSlice("service")
	for _, s := range services {
		d.AddService(s)
	}
}
