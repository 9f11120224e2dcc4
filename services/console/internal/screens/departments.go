package screens

import (
	"context"

	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/activity"
	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/listview"
	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/model"
	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/notify"
)

// Modal is the add/edit dialog state shared by the list screens.
type Modal[T any] struct {
	Open    bool
	Editing int64 // zero when adding
	Draft   T
}

func departmentID(d model.Department) int64 { return d.ID }

type Departments struct {
	base

	list  *listview.List[model.Department]
	modal Modal[model.Department]
}

func NewDepartments(parent context.Context, deps Deps) *Departments {
	d := &Departments{
		list: listview.New(0,
			func(d model.Department) []string { return []string{d.Name, d.Description} },
			departmentID),
	}
	d.init(parent, "departments", deps, notify.DefaultTTL)
	d.reload = d.Load
	return d
}

func (d *Departments) Load() error {
	ctx, err := d.beginLoad()
	if err != nil {
		return err
	}
	deps, err := d.deps.Departments.List(ctx)
	if err != nil {
		return d.loadFailed("Failed to load departments", err)
	}
	doctors, err := d.deps.Doctors.List(ctx)
	if err != nil {
		d.deps.Logger.Warn("doctor list unavailable, specialists not counted", "err", err)
		doctors = nil
	}
	return d.settle(func() {
		d.list.SetItems(model.WithSpecialists(deps, doctors))
	})
}

func (d *Departments) Search(q string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.list.SetQuery(q)
}

func (d *Departments) Visible() []model.Department {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.state != Loaded {
		return nil
	}
	return d.list.Visible()
}

func (d *Departments) Find(id int64) (model.Department, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.list.Find(id)
}

func (d *Departments) Modal() Modal[model.Department] {
	d.mu.RLock()
	defer d.mu.RUnlock()
	m := d.modal
	m.Draft.Services = append([]string(nil), m.Draft.Services...)
	return m
}

func (d *Departments) OpenAdd() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.modal = Modal[model.Department]{Open: true, Draft: model.Department{Services: []string{}}}
}

// OpenEdit copies the department into the form.
func (d *Departments) OpenEdit(id int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	dep, ok := d.list.Find(id)
	if !ok {
		return false
	}
	dep.Services = append([]string{}, dep.Services...)
	d.modal = Modal[model.Department]{Open: true, Editing: id, Draft: dep}
	return true
}

func (d *Departments) CloseModal() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.modal = Modal[model.Department]{}
}

// Edit changes the draft in place.
func (d *Departments) Edit(fn func(*model.Department)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn(&d.modal.Draft)
}

func (d *Departments) AddService(s string) {
	d.Edit(func(dep *model.Department) { dep.Services = model.AppendEntry(dep.Services, s) })
}

func (d *Departments) RemoveService(i int) {
	d.Edit(func(dep *model.Department) { dep.Services = model.RemoveAt(dep.Services, i) })
}

// Save validates the draft, then creates or updates it.
func (d *Departments) Save() error {
	m := d.Modal()
	if err := m.Draft.Validate(); err != nil {
		return d.rejected(err)
	}
	action, success := activity.Updated, "Department updated successfully!"
	if m.Editing == 0 {
		action, success = activity.Created, "Department added successfully!"
	}
	err := d.mutate(mutation{
		resource: "departments",
		action:   action,
		success:  success,
		failure:  "Failed to save department",
		run: func(ctx context.Context) (int64, error) {
			draft := m.Draft
			if m.Editing != 0 {
				draft.ID = m.Editing
				saved, err := d.deps.Departments.Update(ctx, m.Editing, draft)
				return saved.ID, err
			}
			d.mu.RLock()
			draft.ID = listview.NextID(listview.IDs(d.list.Items(), departmentID))
			d.mu.RUnlock()
			saved, err := d.deps.Departments.Create(ctx, draft)
			return saved.ID, err
		},
	})
	if err == nil {
		d.CloseModal()
	}
	return err
}

func (d *Departments) Delete(id int64) error {
	return d.mutate(mutation{
		resource: "departments",
		action:   activity.Deleted,
		success:  "Department deleted successfully!",
		failure:  "Failed to delete department",
		run: func(ctx context.Context) (int64, error) {
			return id, d.deps.Departments.Delete(ctx, id)
		},
	})
}
