package screens

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/activity"
	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/api"
	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/model"
	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/session"
)

var errBackend = errors.New("backend down")

// fakeCRUD is an in-memory resource service that counts its calls.
type fakeCRUD[T any] struct {
	mu     sync.Mutex
	items  []T
	id     func(T) int64
	errs   map[string]error
	calls  map[string]int
	onList func()
}

func newFake[T any](id func(T) int64, items ...T) *fakeCRUD[T] {
	return &fakeCRUD[T]{items: items, id: id, errs: map[string]error{}, calls: map[string]int{}}
}

func (f *fakeCRUD[T]) fail(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[op] = err
}

func (f *fakeCRUD[T]) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeCRUD[T]) enter(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	return f.errs[op]
}

func (f *fakeCRUD[T]) List(ctx context.Context) ([]T, error) {
	if f.onList != nil {
		f.onList()
	}
	if err := f.enter("list"); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]T(nil), f.items...), nil
}

func (f *fakeCRUD[T]) Get(_ context.Context, id int64) (T, error) {
	var zero T
	if err := f.enter("get"); err != nil {
		return zero, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range f.items {
		if f.id(it) == id {
			return it, nil
		}
	}
	return zero, &api.Error{Op: "get", Status: http.StatusNotFound}
}

func (f *fakeCRUD[T]) Create(_ context.Context, item T) (T, error) {
	if err := f.enter("create"); err != nil {
		var zero T
		return zero, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, item)
	return item, nil
}

func (f *fakeCRUD[T]) Update(_ context.Context, id int64, item T) (T, error) {
	if err := f.enter("update"); err != nil {
		var zero T
		return zero, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, it := range f.items {
		if f.id(it) == id {
			f.items[i] = item
			return item, nil
		}
	}
	var zero T
	return zero, &api.Error{Op: "update", Status: http.StatusNotFound}
}

func (f *fakeCRUD[T]) Delete(_ context.Context, id int64) error {
	if err := f.enter("delete"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, it := range f.items {
		if f.id(it) == id {
			f.items = append(f.items[:i:i], f.items[i+1:]...)
			return nil
		}
	}
	return &api.Error{Op: "delete", Status: http.StatusNotFound, Message: "not found"}
}

type fakeCredentials struct {
	mu        sync.Mutex
	byDoctor  map[int64]model.DoctorCredential
	created   []model.CreateCredentialRequest
	createErr error
}

func (f *fakeCredentials) List(context.Context) ([]model.DoctorCredential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.DoctorCredential
	for _, c := range f.byDoctor {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCredentials) GetByDoctor(_ context.Context, doctorID int64) (model.DoctorCredential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byDoctor[doctorID]
	if !ok {
		return model.DoctorCredential{}, &api.Error{Op: "get", Status: http.StatusNotFound}
	}
	return c, nil
}

func (f *fakeCredentials) Create(_ context.Context, req model.CreateCredentialRequest) (model.DoctorCredential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return model.DoctorCredential{}, f.createErr
	}
	f.created = append(f.created, req)
	c := model.DoctorCredential{ID: int64(len(f.created)), DoctorID: req.DoctorID, Username: req.Username, HasPassword: true}
	f.byDoctor[req.DoctorID] = c
	return c, nil
}

func (f *fakeCredentials) Update(_ context.Context, id int64, req model.UpdateCredentialRequest) (model.DoctorCredential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, c := range f.byDoctor {
		if c.ID == id {
			if req.Username != nil {
				c.Username = *req.Username
			}
			f.byDoctor[k] = c
			return c, nil
		}
	}
	return model.DoctorCredential{}, &api.Error{Op: "update", Status: http.StatusNotFound}
}

func (f *fakeCredentials) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, c := range f.byDoctor {
		if c.ID == id {
			delete(f.byDoctor, k)
			return nil
		}
	}
	return &api.Error{Op: "delete", Status: http.StatusNotFound}
}

type fakeAdmins struct {
	result api.LoginResult
	err    error
	calls  int
}

func (f *fakeAdmins) Login(context.Context, model.LoginRequest) (api.LoginResult, error) {
	f.calls++
	return f.result, f.err
}

var testNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	deps        Deps
	departments *fakeCRUD[model.Department]
	doctors     *fakeCRUD[model.Doctor]
	tests       *fakeCRUD[model.HealthTest]
	feedback    *fakeCRUD[model.Feedback]
	credentials *fakeCredentials
	admins      *fakeAdmins
	activity    *activity.Recorder
	session     *session.Session
}

func newFixture() *fixture {
	f := &fixture{
		departments: newFake(departmentID, api.FallbackDepartments()[:3]...),
		doctors:     newFake(doctorID, api.FallbackDoctors()[:3]...),
		tests:       newFake(testID, api.FallbackTests()[:4]...),
		feedback:    newFake(func(f model.Feedback) int64 { return f.ID }),
		credentials: &fakeCredentials{byDoctor: map[int64]model.DoctorCredential{
			1: {ID: 1, DoctorID: 1, Username: "dr.johnson"},
		}},
		admins:   &fakeAdmins{},
		activity: &activity.Recorder{},
	}
	f.session = session.New(session.NewMemoryStore(), func() time.Time { return testNow })
	f.deps = Deps{
		Departments: f.departments,
		Doctors:     f.doctors,
		Tests:       f.tests,
		Feedback:    f.feedback,
		Credentials: f.credentials,
		Admins:      f.admins,
		Session:     f.session,
		Activity:    f.activity,
		Now:         func() time.Time { return testNow },
	}
	return f
}

func (f *fixture) login() {
	_ = f.session.Login(context.Background(), model.Admin{ID: 1, FirstName: "Amal", Email: "amal@clinic.local"}, "tok")
}
