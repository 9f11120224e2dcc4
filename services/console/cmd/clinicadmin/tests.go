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

func testsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tests",
		Aliases: []string{"test"},
		Short:   "Manage health tests",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List health tests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := open[*screens.Tests](e, screens.PathTests)
			if err != nil {
				return err
			}
			search, _ := cmd.Flags().GetString("search")
			t.Search(search)
			visible := t.Visible()
			rows := make([][]string, 0, len(visible))
			for _, ht := range visible {
				rows = append(rows, []string{
					itoa(ht.ID), ht.Name, ht.Department,
					strconv.FormatFloat(ht.Price, 'f', 2, 64),
					strings.Join(ht.AvailableTimeSlots, ", "),
				})
			}
			return e.render(visible, []string{"ID", "NAME", "DEPARTMENT", "PRICE", "TIME SLOTS"}, rows)
		},
	}
	list.Flags().String("search", "", "Filter by name or department")

	add := &cobra.Command{
		Use:   "add",
		Short: "Add a health test",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := open[*screens.Tests](e, screens.PathTests)
			if err != nil {
				return err
			}
			t.OpenAdd()
			applyTestFlags(t, cmd.Flags())
			return e.outcome(t.Notices(), t.Save())
		},
	}

	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Update a health test; only the given flags change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			t, err := open[*screens.Tests](e, screens.PathTests)
			if err != nil {
				return err
			}
			if !t.OpenEdit(id) {
				return fmt.Errorf("test %d not found", id)
			}
			applyTestFlags(t, cmd.Flags())
			return e.outcome(t.Notices(), t.Save())
		},
	}

	for _, c := range []*cobra.Command{add, edit} {
		c.Flags().String("name", "", "Test name")
		c.Flags().String("department", "", "Department name")
		c.Flags().Float64("price", 0, "Price")
		c.Flags().StringSlice("slot", nil, "Available time slot, e.g. \"09:00 AM\" (repeatable; replaces the list)")
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a health test",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			t, err := open[*screens.Tests](e, screens.PathTests)
			if err != nil {
				return err
			}
			ht, ok := t.Find(id)
			if !ok {
				return fmt.Errorf("test %d not found", id)
			}
			yes, err := e.confirm(fmt.Sprintf("Delete test %q?", ht.Name))
			if err != nil || !yes {
				return err
			}
			return e.outcome(t.Notices(), t.Delete(id))
		},
	}

	cmd.AddCommand(list, add, edit, del)
	return cmd
}

func applyTestFlags(t *screens.Tests, flags *pflag.FlagSet) {
	t.Edit(func(ht *model.HealthTest) {
		if flags.Changed("name") {
			ht.Name, _ = flags.GetString("name")
		}
		if flags.Changed("department") {
			ht.Department, _ = flags.GetString("department")
		}
		if flags.Changed("price") {
			ht.Price, _ = flags.GetFloat64("price")
		}
		if flags.Changed("slot") {
			ht.AvailableTimeSlots = nil
		}
	})
	slots, _ := flags.GetStringSlice("slot")
	for _, s := range slots {
		t.AddTimeSlot(s)
	}
}
