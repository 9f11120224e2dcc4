package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/model"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Options{BaseURL: srv.URL, Tokens: staticToken("tok-1")})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestListUnwrapsEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health-tests" || r.Method != http.MethodGet {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			t.Errorf("missing bearer token, got %q", r.Header.Get("Authorization"))
		}
		if r.Header.Get("X-Request-Id") == "" {
			t.Errorf("missing request id")
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    []model.HealthTest{{ID: 3, Name: "Lipid Profile", Price: 35}},
		})
	})

	tests, err := NewTests(c).List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(tests) != 1 || tests[0].Name != "Lipid Profile" {
		t.Fatalf("unexpected tests %+v", tests)
	}
}

func TestListFallsBackOnNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	c := NewClient(Options{BaseURL: url})

	deps, err := NewDepartments(c).List(context.Background())
	if err != nil {
		t.Fatalf("expected fallback, got error %v", err)
	}
	if !reflect.DeepEqual(deps, FallbackDepartments()) {
		t.Fatal("departments fallback must be returned unchanged")
	}
	docs, err := NewDoctors(c).List(context.Background())
	if err != nil || !reflect.DeepEqual(docs, FallbackDoctors()) {
		t.Fatalf("doctors fallback mismatch (err=%v)", err)
	}
	tests, err := NewTests(c).List(context.Background())
	if err != nil || !reflect.DeepEqual(tests, FallbackTests()) {
		t.Fatalf("tests fallback mismatch (err=%v)", err)
	}

	if _, err := NewFeedback(c).List(context.Background()); err == nil {
		t.Fatal("feedback has no fallback and must surface the error")
	}
}

func TestFallbackReturnsCopies(t *testing.T) {
	a := FallbackDepartments()
	a[0].Services[0] = "changed"
	if FallbackDepartments()[0].Services[0] != "ECG" {
		t.Fatal("fallback data must not be shared")
	}
}

func TestSuccessFalseIsAnError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "doctor is locked"})
	})
	_, err := NewDoctors(c).Get(context.Background(), 4)
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if apiErr.Status != http.StatusOK || apiErr.Message != "doctor is locked" {
		t.Fatalf("unexpected error %+v", apiErr)
	}
}

func TestEmptyEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	})
	if _, err := NewFeedback(c).Get(context.Background(), 1); !errors.Is(err, ErrEmptyEnvelope) {
		t.Fatalf("expected ErrEmptyEnvelope, got %v", err)
	}
}

func TestHTTPErrorCarriesMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Department not found"})
	})
	err := NewDepartments(c).Delete(context.Background(), 99)
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if got := MessageOf(err, "fallback"); got != "Department not found" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := MessageOf(errors.New("x"), "fallback"); got != "fallback" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestCreateSendsRawEntity(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		if strings.Contains(string(raw), "success") {
			t.Errorf("request body must be the raw entity, got %s", raw)
		}
		var d model.Department
		_ = json.Unmarshal(raw, &d)
		d.ID = 42
		writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": d})
	})
	created, err := NewDepartments(c).Create(context.Background(), model.Department{ID: 8, Name: "Oncology"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID != 42 || created.Name != "Oncology" {
		t.Fatalf("unexpected department %+v", created)
	}
}

func TestDeleteAcceptsEmptyBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/credentials/5" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	})
	if err := NewCredentials(c).Delete(context.Background(), 5); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
}

func TestCredentialValidationSkipsNetwork(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	})
	_, err := NewCredentials(c).Create(context.Background(), model.CreateCredentialRequest{DoctorID: 1, Username: "dr"})
	if !model.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if calls.Load() != 0 {
		t.Fatal("no request may be sent for an invalid form")
	}
}

func TestCredentialsGetByDoctorPath(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/credentials/doctor/3" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{
			"id": 9, "doctorId": 3, "username": "dr.rodriguez", "hasPassword": true, "password": "leak",
		}})
	})
	cred, err := NewCredentials(c).GetByDoctor(context.Background(), 3)
	if err != nil {
		t.Fatalf("GetByDoctor failed: %v", err)
	}
	if cred.Username != "dr.rodriguez" || !cred.HasPassword {
		t.Fatalf("unexpected credential %+v", cred)
	}
}

func TestLogin(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req model.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "secret" {
			writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "Wrong password"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    model.Admin{ID: 1, FirstName: "Amal", Email: req.Email},
			"token":   "jwt-token",
		})
	})
	admins := NewAdmins(c)
	res, err := admins.Login(context.Background(), model.LoginRequest{Email: "a@clinic.local", Password: "secret"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if res.Token != "jwt-token" || res.Admin.FirstName != "Amal" {
		t.Fatalf("unexpected login result %+v", res)
	}
	_, err = admins.Login(context.Background(), model.LoginRequest{Email: "a@clinic.local", Password: "nope"})
	if got := MessageOf(err, ""); got != "Wrong password" {
		t.Fatalf("expected backend message, got %q (%v)", got, err)
	}
}
