package screens

import (
	"context"
	"slices"

	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/activity"
	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/media"
	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/model"
	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/notify"
)

// DoctorForm is the editable part of a doctor profile.
type DoctorForm struct {
	Name            string
	Specialty       string
	DepartmentID    *int64
	Experience      string
	Education       string
	Image           string
	ShortBio        string
	ConsultationFee string
}

type DoctorEdit struct {
	base

	id          int64
	doctor      *model.Doctor
	departments []model.Department
	form        DoctorForm
}

func NewDoctorEdit(parent context.Context, deps Deps, id int64) *DoctorEdit {
	e := &DoctorEdit{id: id}
	e.init(parent, "doctor-edit", deps, notify.DoctorTTL)
	e.reload = e.Load
	return e
}

func (e *DoctorEdit) ID() int64 { return e.id }

func (e *DoctorEdit) Load() error {
	ctx, err := e.beginLoad()
	if err != nil {
		return err
	}
	doc, err := e.deps.Doctors.Get(ctx, e.id)
	if err != nil {
		e.notices.Error("Failed to load doctor")
		return e.loadFailed("Failed to load doctor", err)
	}
	deps, err := e.deps.Departments.List(ctx)
	if err != nil {
		e.deps.Logger.Warn("department list unavailable", "err", err)
		deps = nil
	}
	return e.settle(func() {
		e.doctor = &doc
		e.departments = deps
		e.form = formFromDoctor(doc)
	})
}

func formFromDoctor(d model.Doctor) DoctorForm {
	return DoctorForm{
		Name:            d.Name,
		Specialty:       d.Specialty,
		DepartmentID:    d.DepartmentID,
		Experience:      d.Experience,
		Education:       d.Education,
		Image:           d.Image,
		ShortBio:        d.ShortBio,
		ConsultationFee: d.ConsultationFee,
	}
}

func (e *DoctorEdit) Doctor() (model.Doctor, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.doctor == nil || e.state != Loaded {
		return model.Doctor{}, false
	}
	return *e.doctor, true
}

func (e *DoctorEdit) Departments() []model.Department {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]model.Department(nil), e.departments...)
}

func (e *DoctorEdit) Form() DoctorForm {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.form
}

func (e *DoctorEdit) Edit(fn func(*DoctorForm)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(&e.form)
}

func (e *DoctorEdit) IsDayAvailable(day string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doctor != nil && slices.Contains(e.doctor.AvailableDays, day)
}

func (e *DoctorEdit) TimeSlotsForDay(day string) []model.TimeSlot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.doctor == nil {
		return nil
	}
	var out []model.TimeSlot
	for _, s := range e.doctor.TimeSlots {
		if s.Day == day {
			out = append(out, s)
		}
	}
	return out
}

// SetImage checks the file and stores the resulting URL in the form.
func (e *DoctorEdit) SetImage(img media.Image) error {
	if err := img.Validate(); err != nil {
		return e.rejected(err)
	}
	if e.life.Closed() {
		return ErrClosed
	}
	e.setBusy(true)
	url, err := e.deps.Media.Upload(e.life.Context(), e.id, img)
	e.setBusy(false)
	if e.life.Closed() {
		return ErrClosed
	}
	if err != nil {
		e.deps.Logger.Warn("image upload failed", "doctor_id", e.id, "err", err)
		e.notices.Error("Failed to read image file")
		return err
	}
	e.Edit(func(f *DoctorForm) { f.Image = url })
	e.notices.Success("Image uploaded successfully!")
	return nil
}

func (e *DoctorEdit) RemoveImage() {
	e.Edit(func(f *DoctorForm) { f.Image = model.ImagePlaceholder })
}

// Save merges the form into the loaded doctor and sends the update. On
// success the screen asks to return to the doctor list.
func (e *DoctorEdit) Save() error {
	form := e.Form()
	e.mu.RLock()
	var updated model.Doctor
	if e.doctor != nil {
		updated = *e.doctor
	}
	e.mu.RUnlock()
	updated.ID = e.id
	updated.Name = form.Name
	updated.Specialty = form.Specialty
	updated.DepartmentID = form.DepartmentID
	updated.Experience = form.Experience
	updated.Education = form.Education
	updated.Image = form.Image
	updated.ShortBio = form.ShortBio
	updated.ConsultationFee = form.ConsultationFee

	if err := updated.ValidateEdit(); err != nil {
		return e.rejected(err)
	}
	err := e.mutate(mutation{
		resource: "doctors",
		action:   activity.Updated,
		success:  "Doctor updated successfully!",
		failure:  "Failed to update doctor",
		run: func(ctx context.Context) (int64, error) {
			_, err := e.deps.Doctors.Update(ctx, e.id, updated)
			return e.id, err
		},
	})
	if err == nil {
		e.setRedirect(PathDoctors)
	}
	return err
}
