package screens

import (
	"context"

	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/activity"
	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/listview"
	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/model"
	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/notify"
)

func testID(t model.HealthTest) int64 { return t.ID }

// Tests manages the bookable health tests.
type Tests struct {
	base

	list        *listview.List[model.HealthTest]
	departments []model.Department
	modal       Modal[model.HealthTest]
}

func NewTests(parent context.Context, deps Deps) *Tests {
	t := &Tests{
		list: listview.New(0,
			func(t model.HealthTest) []string { return []string{t.Name, t.Department} },
			testID),
	}
	t.init(parent, "tests", deps, notify.DefaultTTL)
	t.reload = t.Load
	return t
}

func (t *Tests) Load() error {
	ctx, err := t.beginLoad()
	if err != nil {
		return err
	}
	tests, err := t.deps.Tests.List(ctx)
	if err != nil {
		return t.loadFailed("Failed to load tests", err)
	}
	deps, err := t.deps.Departments.List(ctx)
	if err != nil {
		t.deps.Logger.Warn("department list unavailable", "err", err)
		deps = nil
	}
	return t.settle(func() {
		t.list.SetItems(tests)
		t.departments = deps
	})
}

// Departments is the list offered by the form's department picker.
func (t *Tests) Departments() []model.Department {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]model.Department(nil), t.departments...)
}

func (t *Tests) Search(q string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.list.SetQuery(q)
}

func (t *Tests) Visible() []model.HealthTest {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.state != Loaded {
		return nil
	}
	return t.list.Visible()
}

func (t *Tests) Find(id int64) (model.HealthTest, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.list.Find(id)
}

func (t *Tests) Modal() Modal[model.HealthTest] {
	t.mu.RLock()
	defer t.mu.RUnlock()
	m := t.modal
	m.Draft.AvailableTimeSlots = append([]string(nil), m.Draft.AvailableTimeSlots...)
	return m
}

func (t *Tests) OpenAdd() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.modal = Modal[model.HealthTest]{Open: true, Draft: model.HealthTest{AvailableTimeSlots: []string{}}}
}

func (t *Tests) OpenEdit(id int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	test, ok := t.list.Find(id)
	if !ok {
		return false
	}
	test.AvailableTimeSlots = append([]string{}, test.AvailableTimeSlots...)
	t.modal = Modal[model.HealthTest]{Open: true, Editing: id, Draft: test}
	return true
}

func (t *Tests) CloseModal() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.modal = Modal[model.HealthTest]{}
}

func (t *Tests) Edit(fn func(*model.HealthTest)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(&t.modal.Draft)
}

func (t *Tests) AddTimeSlot(slot string) {
	t.Edit(func(h *model.HealthTest) { h.AvailableTimeSlots = model.AppendEntry(h.AvailableTimeSlots, slot) })
}

func (t *Tests) RemoveTimeSlot(i int) {
	t.Edit(func(h *model.HealthTest) { h.AvailableTimeSlots = model.RemoveAt(h.AvailableTimeSlots, i) })
}

// Save rejects an invalid draft, including a zero price, before any request.
func (t *Tests) Save() error {
	m := t.Modal()
	if err := m.Draft.Validate(); err != nil {
		return t.rejected(err)
	}
	action, success := activity.Updated, "Test updated successfully!"
	if m.Editing == 0 {
		action, success = activity.Created, "Test added successfully!"
	}
	err := t.mutate(mutation{
		resource: "health-tests",
		action:   action,
		success:  success,
		failure:  "Failed to save test",
		run: func(ctx context.Context) (int64, error) {
			draft := m.Draft
			if m.Editing != 0 {
				draft.ID = m.Editing
				saved, err := t.deps.Tests.Update(ctx, m.Editing, draft)
				return saved.ID, err
			}
			t.mu.RLock()
			draft.ID = listview.NextID(listview.IDs(t.list.Items(), testID))
			t.mu.RUnlock()
			saved, err := t.deps.Tests.Create(ctx, draft)
			return saved.ID, err
		},
	})
	if err == nil {
		t.CloseModal()
	}
	return err
}

func (t *Tests) Delete(id int64) error {
	return t.mutate(mutation{
		resource: "health-tests",
		action:   activity.Deleted,
		success:  "Test deleted successfully!",
		failure:  "Failed to delete test",
		run: func(ctx context.Context) (int64, error) {
			return id, t.deps.Tests.Delete(ctx, id)
		},
	})
}
