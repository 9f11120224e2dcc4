package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/md-rashed-zaman/clinicadmin/libs/auth"
	"github.com/md-rashed-zaman/clinicadmin/tools/clinic-api-sim/internal/store"
)

const testSecret = "test-secret"

type reply struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Token   string          `json:"token"`
}

type harness struct {
	t   *testing.T
	url string
}

func newHarness(t *testing.T, requireAuth bool) *harness {
	t.Helper()
	st := store.NewMemory()
	seed := `{
		"departments": [{"id": 1, "name": "Cardiologist"}, {"id": 2, "name": "Neurologist"}],
		"doctors": [{"id": 10, "name": "Dr. Rahman", "specialty": "Cardiologist", "departmentId": 1}]
	}`
	if err := store.Seed(context.Background(), st, []byte(seed)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	err := SeedAdmin(context.Background(), st, AdminSeed{FirstName: "Ada", LastName: "Admin", Email: "admin@clinic.test", Password: "admin123"})
	if err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	mux := http.NewServeMux()
	New(Options{
		Store:       st,
		JWTSecret:   testSecret,
		RequireAuth: requireAuth,
	}).Register(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return &harness{t: t, url: srv.URL}
}

func (h *harness) do(method, path, token string, body any) (int, reply) {
	h.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, err := http.NewRequest(method, h.url+path, &buf)
	if err != nil {
		h.t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		h.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	var out reply
	if resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			h.t.Fatalf("%s %s: decode: %v", method, path, err)
		}
	}
	return resp.StatusCode, out
}

func (h *harness) login() string {
	h.t.Helper()
	status, out := h.do(http.MethodPost, "/api/admins/login", "", map[string]string{"email": "admin@clinic.test", "password": "admin123"})
	if status != http.StatusOK || out.Token == "" {
		h.t.Fatalf("login: %d %+v", status, out)
	}
	return out.Token
}

func TestResourceCRUD(t *testing.T) {
	h := newHarness(t, false)

	status, out := h.do(http.MethodGet, "/api/departments", "", nil)
	var deps []map[string]any
	_ = json.Unmarshal(out.Data, &deps)
	if status != http.StatusOK || !out.Success || len(deps) != 2 {
		t.Fatalf("list: %d %+v", status, out)
	}

	status, out = h.do(http.MethodPost, "/api/departments", "", map[string]any{"name": "Dermatologist", "services": []string{"Laser"}})
	var created struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	_ = json.Unmarshal(out.Data, &created)
	if status != http.StatusCreated || created.ID != 3 || created.Name != "Dermatologist" {
		t.Fatalf("create: %d %+v", status, out)
	}

	status, out = h.do(http.MethodPost, "/api/departments", "", map[string]any{"id": 1, "name": "Clash"})
	_ = json.Unmarshal(out.Data, &created)
	if status != http.StatusCreated || created.ID != 4 {
		t.Fatalf("a taken client id must be replaced, got %d %+v", status, out)
	}

	if status, out = h.do(http.MethodPost, "/api/departments", "", map[string]any{"name": "  "}); status != http.StatusBadRequest || out.Success {
		t.Fatalf("blank name: %d %+v", status, out)
	}

	status, out = h.do(http.MethodPut, "/api/departments/99", "", map[string]any{"name": "Ghost"})
	if status != http.StatusNotFound || out.Message != "Department not found" {
		t.Fatalf("update missing: %d %+v", status, out)
	}

	status, out = h.do(http.MethodPut, "/api/departments/3", "", map[string]any{"id": 42, "name": "Dermatology"})
	_ = json.Unmarshal(out.Data, &created)
	if status != http.StatusOK || created.ID != 3 || created.Name != "Dermatology" {
		t.Fatalf("update: %d %+v", status, out)
	}

	if status, _ = h.do(http.MethodDelete, "/api/departments/3", "", nil); status != http.StatusNoContent {
		t.Fatalf("delete: %d", status)
	}
	if status, _ = h.do(http.MethodGet, "/api/departments/3", "", nil); status != http.StatusNotFound {
		t.Fatalf("get after delete: %d", status)
	}
	if status, _ = h.do(http.MethodGet, "/api/departments/abc", "", nil); status != http.StatusBadRequest {
		t.Fatalf("bad id: %d", status)
	}
}

func TestFeedbackIsStamped(t *testing.T) {
	h := newHarness(t, false)
	before := time.Now().Add(-time.Second)
	status, out := h.do(http.MethodPost, "/api/feedback", "", map[string]string{"name": "Rina", "email": "rina@example.com", "message": "Great care"})
	if status != http.StatusCreated {
		t.Fatalf("create feedback: %d %+v", status, out)
	}
	var fb struct {
		CreatedAt time.Time `json:"createdAt"`
		UpdatedAt time.Time `json:"updatedAt"`
	}
	_ = json.Unmarshal(out.Data, &fb)
	if fb.CreatedAt.Before(before) || !fb.UpdatedAt.Equal(fb.CreatedAt) {
		t.Fatalf("unexpected stamps %+v", fb)
	}
	if status, _ = h.do(http.MethodPost, "/api/feedback", "", map[string]string{"name": "Rina"}); status != http.StatusBadRequest {
		t.Fatalf("incomplete feedback: %d", status)
	}
}

func TestCredentialsLifecycle(t *testing.T) {
	h := newHarness(t, false)

	body := map[string]any{"doctorId": 10, "username": "rahman", "password": "pass123"}
	status, out := h.do(http.MethodPost, "/api/credentials", "", body)
	if status != http.StatusCreated {
		t.Fatalf("create: %d %+v", status, out)
	}
	if strings.Contains(string(out.Data), "passwordHash") || strings.Contains(string(out.Data), "pass123") {
		t.Fatalf("password material leaked: %s", out.Data)
	}
	var view credentialView
	_ = json.Unmarshal(out.Data, &view)
	if !view.HasPassword || view.DoctorName != "Dr. Rahman" || view.ID != 1 {
		t.Fatalf("unexpected view %+v", view)
	}

	if status, _ = h.do(http.MethodPost, "/api/credentials", "", body); status != http.StatusConflict {
		t.Fatalf("duplicate username: %d", status)
	}
	if status, _ = h.do(http.MethodPost, "/api/credentials", "", map[string]any{"doctorId": 77, "username": "x", "password": "y"}); status != http.StatusNotFound {
		t.Fatalf("unknown doctor: %d", status)
	}

	status, out = h.do(http.MethodGet, "/api/credentials/doctor/10", "", nil)
	if status != http.StatusOK {
		t.Fatalf("by doctor: %d %+v", status, out)
	}
	if status, _ = h.do(http.MethodGet, "/api/credentials/doctor/11", "", nil); status != http.StatusNotFound {
		t.Fatalf("by doctor without credentials: %d", status)
	}

	if status, out = h.do(http.MethodPut, "/api/credentials/1", "", map[string]any{"password": "newpass1"}); status != http.StatusOK {
		t.Fatalf("reset: %d %+v", status, out)
	}
	if status, _ = h.do(http.MethodPost, "/api/credentials/verify-login", "", map[string]string{"username": "rahman", "password": "pass123"}); status != http.StatusUnauthorized {
		t.Fatalf("old password must fail: %d", status)
	}
	status, out = h.do(http.MethodPost, "/api/credentials/verify-login", "", map[string]string{"username": "RAHMAN", "password": "newpass1"})
	if status != http.StatusOK || !out.Success {
		t.Fatalf("verify-login: %d %+v", status, out)
	}

	if status, _ = h.do(http.MethodDelete, "/api/credentials/1", "", nil); status != http.StatusNoContent {
		t.Fatalf("delete: %d", status)
	}
	status, out = h.do(http.MethodGet, "/api/credentials", "", nil)
	if status != http.StatusOK || string(out.Data) != "[]" {
		t.Fatalf("list after delete: %d %s", status, out.Data)
	}
}

func TestAdminLogin(t *testing.T) {
	h := newHarness(t, false)
	token := h.login()
	claims, err := auth.ParseAndVerifyHS256(token, testSecret)
	if err != nil {
		t.Fatalf("token must verify with the shared secret: %v", err)
	}
	if claims.Role != roleAdmin || claims.Email != "admin@clinic.test" || claims.Subject != "1" {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if claims.ExpiresAt == nil || claims.Expired(time.Now()) {
		t.Fatalf("token must carry a future expiry, got %v", claims.ExpiresAt)
	}

	status, out := h.do(http.MethodPost, "/api/admins/login", "", map[string]string{"email": "admin@clinic.test", "password": "nope"})
	if status != http.StatusUnauthorized || out.Success || out.Message != "Invalid email or password" {
		t.Fatalf("bad password: %d %+v", status, out)
	}
}

func TestRequireAuthGuardsWrites(t *testing.T) {
	h := newHarness(t, true)

	if status, _ := h.do(http.MethodGet, "/api/departments", "", nil); status != http.StatusOK {
		t.Fatalf("reads stay public: %d", status)
	}
	if status, _ := h.do(http.MethodPost, "/api/departments", "", map[string]any{"name": "X"}); status != http.StatusUnauthorized {
		t.Fatalf("write without token: %d", status)
	}
	if status, _ := h.do(http.MethodDelete, "/api/departments/1", "not-a-jwt", nil); status != http.StatusUnauthorized {
		t.Fatalf("write with bad token: %d", status)
	}
	if status, _ := h.do(http.MethodPost, "/api/feedback", "", map[string]string{"name": "A", "email": "a@b.c", "message": "hi"}); status != http.StatusCreated {
		t.Fatalf("feedback submission stays public: %d", status)
	}
	token := h.login()
	if status, out := h.do(http.MethodPost, "/api/departments", token, map[string]any{"name": "X"}); status != http.StatusCreated {
		t.Fatalf("write with admin token: %d %+v", status, out)
	}
}
