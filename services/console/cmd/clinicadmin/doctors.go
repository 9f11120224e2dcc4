package main

import (
	"fmt"
	"strings"

	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/media"
	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/model"
	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/screens"
	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/shell"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func doctorsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "doctors",
		Aliases: []string{"doctor"},
		Short:   "Manage doctors and their profiles",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List doctors with department and login username",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := open[*screens.Doctors](e, screens.PathDoctors)
			if err != nil {
				return err
			}
			search, _ := cmd.Flags().GetString("search")
			d.Search(search)
			visible := d.Visible()
			rows := make([][]string, 0, len(visible))
			for _, doc := range visible {
				rows = append(rows, []string{
					itoa(doc.ID), doc.Name, doc.Specialty,
					d.DepartmentName(doc.DepartmentID), d.Username(doc.ID), doc.ConsultationFee,
				})
			}
			return e.render(visible, []string{"ID", "NAME", "SPECIALTY", "DEPARTMENT", "USERNAME", "FEE"}, rows)
		},
	}
	list.Flags().String("search", "", "Filter by name or specialty")

	add := &cobra.Command{
		Use:   "add",
		Short: "Create a doctor and its login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := open[*screens.Doctors](e, screens.PathDoctors)
			if err != nil {
				return err
			}
			var form screens.AddDoctorForm
			form.Username, _ = cmd.Flags().GetString("username")
			form.Password, _ = cmd.Flags().GetString("password")
			form.DepartmentID, _ = cmd.Flags().GetInt64("department")
			d.OpenAdd()
			return e.outcome(d.Notices(), d.Add(form))
		},
	}
	add.Flags().String("username", "", "Login username, also used as the initial name")
	add.Flags().String("password", "", "Initial password")
	add.Flags().Int64("department", 0, "Department id")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a doctor profile and weekly availability",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			de, err := openDoctor(e, args[0])
			if err != nil {
				return err
			}
			doc, _ := de.Doctor()
			if e.format == "json" {
				return e.render(doc, nil, nil)
			}
			dept := screens.NotAssigned
			if doc.DepartmentID != nil {
				for _, dep := range de.Departments() {
					if dep.ID == *doc.DepartmentID {
						dept = dep.Name
					}
				}
			}
			fmt.Fprintf(e.out, "%s (#%d)\n", doc.Name, doc.ID)
			fmt.Fprintf(e.out, "Specialty:  %s\nDepartment: %s\nExperience: %s\nEducation:  %s\nFee:        %s\n",
				doc.Specialty, dept, doc.Experience, doc.Education, doc.ConsultationFee)
			fmt.Fprintf(e.out, "Image:      %s\n\n%s\n\n", truncate(doc.Image, 60), doc.ShortBio)

			rows := make([][]string, 0, len(model.Weekdays))
			for _, day := range model.Weekdays {
				status, slots := "unavailable", ""
				if de.IsDayAvailable(day) {
					status = "available"
					var labels []string
					for _, s := range de.TimeSlotsForDay(day) {
						labels = append(labels, slotLabel(s))
					}
					slots = strings.Join(labels, ", ")
				}
				rows = append(rows, []string{day, status, slots})
			}
			return e.render(nil, []string{"DAY", "STATUS", "SLOTS"}, rows)
		},
	}

	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Update a doctor profile; only the given flags change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			de, err := openDoctor(e, args[0])
			if err != nil {
				return err
			}
			applyDoctorFlags(de, cmd.Flags())
			return e.outcome(de.Notices(), de.Save())
		},
	}
	edit.Flags().String("name", "", "Full name")
	edit.Flags().String("specialty", "", "Specialty")
	edit.Flags().Int64("department", 0, "Department id (0 clears it)")
	edit.Flags().String("experience", "", "Experience")
	edit.Flags().String("education", "", "Education")
	edit.Flags().String("bio", "", "Short bio")
	edit.Flags().String("fee", "", "Consultation fee, e.g. \"Rs. 1500\"")

	setImage := &cobra.Command{
		Use:   "set-image <id> [file]",
		Short: "Upload a profile photo, or reset it with --remove",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			remove, _ := cmd.Flags().GetBool("remove")
			if !remove && len(args) != 2 {
				return fmt.Errorf("an image file is required unless --remove is set")
			}
			de, err := openDoctor(e, args[0])
			if err != nil {
				return err
			}
			if remove {
				de.RemoveImage()
			} else {
				img, err := media.ReadFile(args[1])
				if err != nil {
					return err
				}
				if err := e.outcome(de.Notices(), de.SetImage(img)); err != nil {
					return err
				}
			}
			return e.outcome(de.Notices(), de.Save())
		},
	}
	setImage.Flags().Bool("remove", false, "Reset to the placeholder image")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a doctor",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			d, err := open[*screens.Doctors](e, screens.PathDoctors)
			if err != nil {
				return err
			}
			if !d.RequestDelete(id) {
				return fmt.Errorf("doctor %d not found", id)
			}
			doc, _ := d.PendingDelete()
			yes, err := e.confirm(fmt.Sprintf("Are you sure you want to delete %s? This action cannot be undone.", doc.Name))
			if err != nil || !yes {
				d.CancelDelete()
				return err
			}
			return e.outcome(d.Notices(), d.ConfirmDelete())
		},
	}

	cmd.AddCommand(list, add, show, edit, setImage, del)
	return cmd
}

func openDoctor(e *env, arg string) (*screens.DoctorEdit, error) {
	id, err := parseID(arg)
	if err != nil {
		return nil, err
	}
	return open[*screens.DoctorEdit](e, shell.DoctorEditPath(id))
}

func applyDoctorFlags(de *screens.DoctorEdit, flags *pflag.FlagSet) {
	de.Edit(func(f *screens.DoctorForm) {
		for flag, field := range map[string]*string{
			"name":       &f.Name,
			"specialty":  &f.Specialty,
			"experience": &f.Experience,
			"education":  &f.Education,
			"bio":        &f.ShortBio,
			"fee":        &f.ConsultationFee,
		} {
			if flags.Changed(flag) {
				*field, _ = flags.GetString(flag)
			}
		}
		if flags.Changed("department") {
			id, _ := flags.GetInt64("department")
			f.DepartmentID = nil
			if id > 0 {
				f.DepartmentID = &id
			}
		}
	})
}

func slotLabel(s model.TimeSlot) string {
	if s.Display != "" {
		return s.Display
	}
	return s.StartTime + " - " + s.EndTime
}
