package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/md-rashed-zaman/clinicadmin/libs/config"
	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/model"
)

type fakeBackend struct {
	mu      sync.Mutex
	deleted []string
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	reply := func(status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
	cardio := int64(1)
	switch {
	case r.URL.Path == "/api/admins/login":
		var req model.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "secret123" {
			reply(http.StatusUnauthorized, map[string]any{"success": false, "message": "Invalid credentials"})
			return
		}
		reply(http.StatusOK, map[string]any{
			"success": true,
			"token":   "opaque-token",
			"data":    model.Admin{ID: 1, FirstName: "Ada", LastName: "Lovelace", Email: req.Email},
		})
	case r.Method == http.MethodDelete:
		b.mu.Lock()
		b.deleted = append(b.deleted, r.URL.Path)
		b.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	case r.URL.Path == "/api/departments":
		reply(http.StatusOK, map[string]any{"success": true, "data": []model.Department{
			{ID: 1, Name: "Cardiology", Services: []string{"ECG"}},
			{ID: 2, Name: "Neurology"},
		}})
	case r.URL.Path == "/api/doctors":
		reply(http.StatusOK, map[string]any{"success": true, "data": []model.Doctor{
			{ID: 10, Name: "Dr. Rahman", Specialty: "Cardiology", DepartmentID: &cardio},
			{ID: 11, Name: "Dr. Akter", Specialty: "Cardiology", DepartmentID: &cardio},
		}})
	default:
		reply(http.StatusNotFound, map[string]any{"success": false, "message": "not found"})
	}
}

func (b *fakeBackend) deletes() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.deleted...)
}

type harness struct {
	url     string
	session string
	backend *fakeBackend
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	b := &fakeBackend{}
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)
	t.Setenv("OTEL_ENABLED", "false")
	t.Setenv("SESSION_STORE", "file")
	return &harness{url: srv.URL, session: filepath.Join(t.TempDir(), "session.json"), backend: b}
}

func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	e := &env{}
	cmd := newRootCmd(e)
	cmd.SetArgs(append(args, "--api-url", h.url, "--session-file", h.session))
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(""))
	err := cmd.ExecuteContext(context.Background())
	e.close()
	config.Reset()
	return out.String(), err
}

func TestCommandsRequireLogin(t *testing.T) {
	h := newHarness(t)
	if _, err := h.run(t, "whoami"); err != errNotSignedIn {
		t.Fatalf("expected errNotSignedIn, got %v", err)
	}
	if _, err := h.run(t, "departments", "list"); err != errNotSignedIn {
		t.Fatalf("expected errNotSignedIn for a guarded screen, got %v", err)
	}
}

func TestLoginPersistsSession(t *testing.T) {
	h := newHarness(t)
	out, err := h.run(t, "login", "--email", "ada@clinic.test", "--password", "secret123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if !strings.Contains(out, "Login successful! Redirecting...") || !strings.Contains(out, "Welcome, Ada Lovelace") {
		t.Fatalf("unexpected login output %q", out)
	}

	out, err = h.run(t, "whoami", "-o", "json")
	if err != nil {
		t.Fatalf("whoami failed: %v", err)
	}
	var admin model.Admin
	if err := json.Unmarshal([]byte(out), &admin); err != nil {
		t.Fatalf("decode whoami: %v (%q)", err, out)
	}
	if admin.Email != "ada@clinic.test" {
		t.Fatalf("unexpected admin %+v", admin)
	}

	out, err = h.run(t, "login")
	if err != nil || !strings.Contains(out, "Already signed in") {
		t.Fatalf("second login: out=%q err=%v", out, err)
	}

	if _, err := h.run(t, "logout"); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if _, err := h.run(t, "whoami"); err != errNotSignedIn {
		t.Fatalf("expected errNotSignedIn after logout, got %v", err)
	}
}

func TestLoginRejected(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "login", "--email", "ada@clinic.test", "--password", "wrong-pass")
	if err == nil {
		t.Fatal("expected login to fail")
	}
	if _, err := h.run(t, "whoami"); err != errNotSignedIn {
		t.Fatalf("failed login must not create a session, got %v", err)
	}
}

func TestDepartmentsListAndDelete(t *testing.T) {
	h := newHarness(t)
	if _, err := h.run(t, "login", "--email", "ada@clinic.test", "--password", "secret123"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	out, err := h.run(t, "departments", "list", "-o", "json")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	var deps []model.Department
	if err := json.Unmarshal([]byte(out), &deps); err != nil {
		t.Fatalf("decode list: %v (%q)", err, out)
	}
	if len(deps) != 2 || deps[0].Specialists != 2 || deps[1].Specialists != 0 {
		t.Fatalf("unexpected departments %+v", deps)
	}

	if _, err := h.run(t, "departments", "delete", "1"); err == nil {
		t.Fatal("delete without --yes and without input must not proceed")
	}
	if got := h.backend.deletes(); len(got) != 0 {
		t.Fatalf("unexpected deletes %v", got)
	}

	out, err = h.run(t, "departments", "delete", "1", "--yes")
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if !strings.Contains(out, "Department deleted successfully!") {
		t.Fatalf("unexpected output %q", out)
	}
	if got := h.backend.deletes(); len(got) != 1 || got[0] != "/api/departments/1" {
		t.Fatalf("unexpected deletes %v", got)
	}
}

func TestParseID(t *testing.T) {
	if id, err := parseID(" 42 "); err != nil || id != 42 {
		t.Fatalf("parseID(42) = %d, %v", id, err)
	}
	for _, bad := range []string{"", "0", "-3", "abc"} {
		if _, err := parseID(bad); err == nil {
			t.Fatalf("parseID(%q) should fail", bad)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("got %q", got)
	}
	if got := truncate("a  long\nmessage body", 8); got != "a long …" {
		t.Fatalf("got %q", got)
	}
}
