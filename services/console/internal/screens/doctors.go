package screens

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/activity"
	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/listview"
	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/model"
	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/notify"
	"golang.org/x/sync/errgroup"
)

const (
	UsernameUnknown = "N/A"
	UsernamePending = "Loading..."
	NotAssigned     = "Not Assigned"

	credentialFetchLimit = 4
)

// AddDoctorForm is the short form used to register a doctor; the rest of the
// profile is filled in later on the edit screen.
type AddDoctorForm struct {
	Username     string
	Password     string
	DepartmentID int64
}

func doctorID(d model.Doctor) int64 { return d.ID }

type Doctors struct {
	base

	list        *listview.List[model.Doctor]
	departments []model.Department
	usernames   map[int64]string

	addOpen       bool
	pendingDelete *model.Doctor
}

func NewDoctors(parent context.Context, deps Deps) *Doctors {
	d := &Doctors{
		list: listview.New(0,
			func(d model.Doctor) []string { return []string{d.Name, d.Specialty} },
			doctorID),
		usernames: map[int64]string{},
	}
	d.init(parent, "doctors", deps, notify.DoctorTTL)
	d.reload = d.Load
	return d
}

func (d *Doctors) Load() error {
	ctx, err := d.beginLoad()
	if err != nil {
		return err
	}
	doctors, err := d.deps.Doctors.List(ctx)
	if err != nil {
		d.notices.Error("Failed to load doctors")
		return d.loadFailed("Failed to load doctors", err)
	}
	deps, err := d.deps.Departments.List(ctx)
	if err != nil {
		d.deps.Logger.Warn("department list unavailable", "err", err)
		deps = nil
	}
	if err := d.settle(func() {
		d.list.SetItems(doctors)
		d.departments = deps
		d.usernames = map[int64]string{}
	}); err != nil {
		return err
	}
	d.loadUsernames(ctx, doctors)
	return nil
}

// loadUsernames fetches each doctor's login. Failures show as N/A.
func (d *Doctors) loadUsernames(ctx context.Context, doctors []model.Doctor) {
	if d.deps.Credentials == nil {
		return
	}
	var g errgroup.Group
	g.SetLimit(credentialFetchLimit)
	for _, doc := range doctors {
		g.Go(func() error {
			name := UsernameUnknown
			cred, err := d.deps.Credentials.GetByDoctor(ctx, doc.ID)
			if err == nil && cred.Username != "" {
				name = cred.Username
			} else if err != nil {
				d.deps.Logger.Debug("credentials lookup failed", "doctor_id", doc.ID, "err", err)
			}
			d.mu.Lock()
			defer d.mu.Unlock()
			if !d.life.Closed() {
				d.usernames[doc.ID] = name
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (d *Doctors) Search(q string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.list.SetQuery(q)
}

func (d *Doctors) Visible() []model.Doctor {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.state != Loaded {
		return nil
	}
	return d.list.Visible()
}

func (d *Doctors) Departments() []model.Department {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]model.Department(nil), d.departments...)
}

// Username is the doctor's login, or a placeholder while unknown.
func (d *Doctors) Username(doctorID int64) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if name, ok := d.usernames[doctorID]; ok {
		return name
	}
	return UsernamePending
}

func (d *Doctors) DepartmentName(id *int64) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if id == nil {
		return NotAssigned
	}
	for _, dep := range d.departments {
		if dep.ID == *id {
			return dep.Name
		}
	}
	return NotAssigned
}

func (d *Doctors) OpenAdd() {
	d.notices.Clear()
	d.mu.Lock()
	d.addOpen = true
	d.mu.Unlock()
}

func (d *Doctors) CloseAdd() {
	d.notices.Clear()
	d.mu.Lock()
	d.addOpen = false
	d.mu.Unlock()
}

func (d *Doctors) AddOpen() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.addOpen
}

// Add creates a doctor with placeholder profile fields and then its login.
// When only the login fails the doctor stays and the list is reloaded.
func (d *Doctors) Add(form AddDoctorForm) error {
	if strings.TrimSpace(form.Username) == "" || form.Password == "" || form.DepartmentID == 0 {
		return d.rejected(&model.ValidationError{Message: "Please fill in all fields"})
	}
	var dept *model.Department
	for _, dep := range d.Departments() {
		if dep.ID == form.DepartmentID {
			dept = &dep
			break
		}
	}
	if dept == nil {
		return d.rejected(&model.ValidationError{Message: "Invalid department selected"})
	}

	deptID := dept.ID
	doctor := model.Doctor{
		ID:              d.deps.Now().UnixMilli(),
		Name:            form.Username,
		Specialty:       dept.Name,
		DepartmentID:    &deptID,
		Experience:      "Not specified",
		Education:       "Not specified",
		Image:           model.ImagePlaceholder,
		AvailableDays:   []string{},
		TimeSlots:       []model.TimeSlot{},
		ShortBio:        "No bio available yet.",
		ConsultationFee: "Rs. 0",
	}

	var created model.Doctor
	err := d.mutate(mutation{
		resource: "doctors",
		action:   activity.Created,
		success:  "Doctor added successfully!",
		failure:  "Failed to add doctor",
		run: func(ctx context.Context) (int64, error) {
			var err error
			created, err = d.deps.Doctors.Create(ctx, doctor)
			if err != nil {
				return 0, err
			}
			_, err = d.deps.Credentials.Create(ctx, model.CreateCredentialRequest{
				DoctorID: created.ID,
				Username: form.Username,
				Password: form.Password,
			})
			if err != nil {
				return created.ID, &partialCreate{err: err}
			}
			return created.ID, nil
		},
	})
	var pc *partialCreate
	if errors.As(err, &pc) {
		d.notices.Error("Doctor created but failed to create credentials")
		d.publish(d.life.Context(), "doctors", created.ID, activity.Created)
		_ = d.reload()
		return pc
	}
	if err == nil {
		d.mu.Lock()
		d.addOpen = false
		d.mu.Unlock()
	}
	return err
}

type partialCreate struct{ err error }

func (p *partialCreate) Error() string { return fmt.Sprintf("doctor created without credentials: %v", p.err) }

func (p *partialCreate) Unwrap() error { return p.err }

// RequestDelete opens the confirmation dialog for id.
func (d *Doctors) RequestDelete(id int64) bool {
	d.notices.Clear()
	d.mu.Lock()
	defer d.mu.Unlock()
	doc, ok := d.list.Find(id)
	if !ok {
		return false
	}
	d.pendingDelete = &doc
	return true
}

func (d *Doctors) PendingDelete() (model.Doctor, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.pendingDelete == nil {
		return model.Doctor{}, false
	}
	return *d.pendingDelete, true
}

func (d *Doctors) CancelDelete() {
	d.mu.Lock()
	d.pendingDelete = nil
	d.mu.Unlock()
}

// ConfirmDelete deletes the doctor chosen by RequestDelete.
func (d *Doctors) ConfirmDelete() error {
	doc, ok := d.PendingDelete()
	if !ok {
		return nil
	}
	err := d.mutate(mutation{
		resource: "doctors",
		action:   activity.Deleted,
		success:  "Doctor deleted successfully!",
		failure:  "Failed to delete doctor",
		run: func(ctx context.Context) (int64, error) {
			return doc.ID, d.deps.Doctors.Delete(ctx, doc.ID)
		},
	})
	if err == nil {
		d.CancelDelete()
	}
	return err
}
