package shell

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/api"
	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/model"
	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/screens"
	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/session"
)

func TestResolve(t *testing.T) {
	for _, tc := range []struct {
		path    string
		pattern string
		id      string
	}{
		{"", "/", ""},
		{"/", "/", ""},
		{"/admin/login", screens.PathLogin, ""},
		{"/admin/dashboard/", screens.PathDashboard, ""},
		{"/admin/tests?tab=all", screens.PathTests, ""},
		{"/admin/doctors/edit/42", screens.PathDoctorEdit, "42"},
	} {
		m, err := Resolve(tc.path)
		if err != nil {
			t.Fatalf("Resolve(%q) failed: %v", tc.path, err)
		}
		if m.Route.Pattern != tc.pattern || m.Params["id"] != tc.id {
			t.Fatalf("Resolve(%q) = %s %v", tc.path, m.Route.Pattern, m.Params)
		}
	}
	for _, bad := range []string{"/admin", "/admin/doctors/edit", "/admin/doctors/edit/1/extra", "/patients"} {
		if _, err := Resolve(bad); !errors.Is(err, ErrUnknownRoute) {
			t.Fatalf("Resolve(%q): expected ErrUnknownRoute, got %v", bad, err)
		}
	}
	if got := DoctorEditPath(7); got != "/admin/doctors/edit/7" {
		t.Fatalf("unexpected edit path %q", got)
	}
}

func newApp(t *testing.T) (*App, *session.Session) {
	t.Helper()
	store := session.NewMemoryStore()
	sess := session.New(store, nil)
	srv := api.NewClient(api.Options{BaseURL: "http://127.0.0.1:1", Timeout: 200 * time.Millisecond})
	deps := screens.Deps{
		Departments: api.NewDepartments(srv),
		Doctors:     api.NewDoctors(srv),
		Tests:       api.NewTests(srv),
		Feedback:    api.NewFeedback(srv),
		Credentials: api.NewCredentials(srv),
		Admins:      api.NewAdmins(srv),
		Session:     sess,
	}
	app := NewApp(context.Background(), deps)
	t.Cleanup(app.Close)
	return app, sess
}

func TestGuardRedirectsToLogin(t *testing.T) {
	app, _ := newApp(t)
	for _, path := range []string{"", screens.PathDashboard, screens.PathDepartment, "/admin/doctors/edit/1"} {
		scr, err := app.Navigate(path)
		if err != nil {
			t.Fatalf("Navigate(%q) failed: %v", path, err)
		}
		if _, ok := scr.(*screens.Login); !ok || app.Path() != screens.PathLogin {
			t.Fatalf("Navigate(%q) ended on %s", path, app.Path())
		}
	}
	if !app.IsLoginPage() || !app.IsActive("/admin/login/") {
		t.Fatal("login page flags wrong")
	}
	if _, err := app.Navigate("/nowhere"); !errors.Is(err, ErrUnknownRoute) {
		t.Fatalf("expected ErrUnknownRoute, got %v", err)
	}
}

func TestSignedInNavigation(t *testing.T) {
	app, sess := newApp(t)
	if err := sess.Login(context.Background(), model.Admin{ID: 1, Email: "a@clinic.local"}, "tok"); err != nil {
		t.Fatal(err)
	}

	// feedback has no local fallback, so the dashboard mounts in the errored state
	scr, err := app.Navigate(screens.PathLogin)
	if err == nil {
		t.Fatal("expected the feedback load error")
	}
	if dash, ok := scr.(*screens.Dashboard); !ok || dash.State() != screens.Errored {
		t.Fatalf("expected errored dashboard, got %T", scr)
	}
	if app.Path() != screens.PathDashboard {
		t.Fatalf("signed-in login must redirect to the dashboard, at %s", app.Path())
	}

	deps, err := Open[*screens.Departments](app, screens.PathDepartment)
	if err != nil {
		t.Fatalf("departments must load from fallback: %v", err)
	}
	if got := len(deps.Visible()); got != 7 {
		t.Fatalf("expected 7 fallback departments, got %d", got)
	}

	app.ToggleMenu()
	again, err := Open[*screens.Departments](app, screens.PathDepartment)
	if err != nil {
		t.Fatal(err)
	}
	if again == deps {
		t.Fatal("same-URL navigation must mount a fresh screen")
	}
	if app.MenuOpen() {
		t.Fatal("navigation must close the menu")
	}
	if err := deps.Load(); !errors.Is(err, screens.ErrClosed) {
		t.Fatalf("previous screen must be closed, got %v", err)
	}

	if _, err := app.Navigate("/admin/doctors/edit/abc"); !errors.Is(err, ErrUnknownRoute) {
		t.Fatalf("expected invalid id error, got %v", err)
	}

	app.ToggleMenu()
	if err := app.Logout(); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if sess.LoggedIn() || app.Path() != screens.PathLogin || app.MenuOpen() {
		t.Fatal("logout must clear the session and land on login")
	}
}
