package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/md-rashed-zaman/clinicadmin/libs/httpx"
	"github.com/md-rashed-zaman/clinicadmin/tools/clinic-api-sim/internal/store"
	"golang.org/x/crypto/bcrypt"
)

type credentialRecord struct {
	ID           int64     `json:"id"`
	DoctorID     int64     `json:"doctorId"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// credentialView is what clients see; the hash never leaves the server.
type credentialView struct {
	ID          int64     `json:"id"`
	DoctorID    int64     `json:"doctorId"`
	DoctorName  string    `json:"doctorName"`
	Username    string    `json:"username"`
	HasPassword bool      `json:"hasPassword"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type createCredentialRequest struct {
	DoctorID int64  `json:"doctorId"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type updateCredentialRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

type verifyLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

const credentialLabel = "Credentials"

var errUsernameTaken = errors.New("username taken")

func hashPassword(raw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func verifyPassword(hash, raw string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw))
}

func (s *Server) credentials(ctx context.Context) ([]credentialRecord, error) {
	docs, err := s.store.List(ctx, store.KindCredentials)
	if err != nil {
		return nil, err
	}
	return store.Decode[credentialRecord](docs)
}

func (s *Server) credential(ctx context.Context, id int64) (credentialRecord, error) {
	doc, err := s.store.Get(ctx, store.KindCredentials, id)
	if err != nil {
		return credentialRecord{}, err
	}
	var rec credentialRecord
	err = json.Unmarshal(doc.Data, &rec)
	return rec, err
}

func (s *Server) saveCredential(ctx context.Context, rec credentialRecord) error {
	return s.store.Put(ctx, store.KindCredentials, store.Doc{ID: rec.ID, Data: mustJSON(rec)})
}

// checkUsername fails when another credential already uses username.
func (s *Server) checkUsername(ctx context.Context, username string, self int64) error {
	all, err := s.credentials(ctx)
	if err != nil {
		return err
	}
	for _, c := range all {
		if c.ID != self && strings.EqualFold(c.Username, username) {
			return errUsernameTaken
		}
	}
	return nil
}

func (s *Server) doctorName(ctx context.Context, doctorID int64) string {
	doc, err := s.store.Get(ctx, store.KindDoctors, doctorID)
	if err != nil {
		return ""
	}
	var d struct {
		Name string `json:"name"`
	}
	_ = json.Unmarshal(doc.Data, &d)
	return d.Name
}

func (s *Server) view(ctx context.Context, rec credentialRecord) credentialView {
	return credentialView{
		ID:          rec.ID,
		DoctorID:    rec.DoctorID,
		DoctorName:  s.doctorName(ctx, rec.DoctorID),
		Username:    rec.Username,
		HasPassword: rec.PasswordHash != "",
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
}

func (s *Server) listCredentials(w http.ResponseWriter, r *http.Request) {
	all, err := s.credentials(r.Context())
	if err != nil {
		s.storeFailed(w, r, credentialLabel, err)
		return
	}
	out := make([]credentialView, len(all))
	for i, rec := range all {
		out[i] = s.view(r.Context(), rec)
	}
	httpx.WriteData(w, http.StatusOK, out)
}

func (s *Server) getCredential(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	rec, err := s.credential(r.Context(), id)
	if err != nil {
		s.storeFailed(w, r, credentialLabel, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, s.view(r.Context(), rec))
}

func (s *Server) getCredentialByDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathID(w, r, "doctorId")
	if !ok {
		return
	}
	all, err := s.credentials(r.Context())
	if err != nil {
		s.storeFailed(w, r, credentialLabel, err)
		return
	}
	for _, rec := range all {
		if rec.DoctorID == doctorID {
			httpx.WriteData(w, http.StatusOK, s.view(r.Context(), rec))
			return
		}
	}
	httpx.WriteError(w, http.StatusNotFound, "No credentials found for this doctor")
}

func (s *Server) createCredential(w http.ResponseWriter, r *http.Request) {
	var req createCredentialRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.DoctorID <= 0 || req.Username == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "doctorId, username and password are required")
		return
	}
	ctx := r.Context()
	if _, err := s.store.Get(ctx, store.KindDoctors, req.DoctorID); err != nil {
		s.storeFailed(w, r, "Doctor", err)
		return
	}
	if err := s.checkUsername(ctx, req.Username, 0); err != nil {
		s.usernameFailed(w, r, err)
		return
	}
	hash, err := hashPassword(req.Password)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}
	id, err := s.store.NextID(ctx, store.KindCredentials)
	if err != nil {
		s.storeFailed(w, r, credentialLabel, err)
		return
	}
	now := s.now().UTC()
	rec := credentialRecord{ID: id, DoctorID: req.DoctorID, Username: req.Username, PasswordHash: hash, CreatedAt: now, UpdatedAt: now}
	if err := s.saveCredential(ctx, rec); err != nil {
		s.storeFailed(w, r, credentialLabel, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, httpx.Envelope{
		Success: true,
		Message: "Credentials created successfully",
		Data:    s.view(ctx, rec),
	})
}

func (s *Server) updateCredential(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req updateCredentialRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Username == nil && req.Password == nil {
		httpx.WriteError(w, http.StatusBadRequest, "username or password is required")
		return
	}
	ctx := r.Context()
	rec, err := s.credential(ctx, id)
	if err != nil {
		s.storeFailed(w, r, credentialLabel, err)
		return
	}
	if req.Username != nil {
		name := strings.TrimSpace(*req.Username)
		if name == "" {
			httpx.WriteError(w, http.StatusBadRequest, "username must not be empty")
			return
		}
		if err := s.checkUsername(ctx, name, id); err != nil {
			s.usernameFailed(w, r, err)
			return
		}
		rec.Username = name
	}
	if req.Password != nil {
		if *req.Password == "" {
			httpx.WriteError(w, http.StatusBadRequest, "password must not be empty")
			return
		}
		if rec.PasswordHash, err = hashPassword(*req.Password); err != nil {
			httpx.WriteError(w, http.StatusInternalServerError, "failed to hash password")
			return
		}
	}
	rec.UpdatedAt = s.now().UTC()
	if err := s.saveCredential(ctx, rec); err != nil {
		s.storeFailed(w, r, credentialLabel, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.Envelope{
		Success: true,
		Message: "Credentials updated successfully",
		Data:    s.view(ctx, rec),
	})
}

func (s *Server) deleteCredential(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.store.Delete(r.Context(), store.KindCredentials, id); err != nil {
		s.storeFailed(w, r, credentialLabel, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) usernameFailed(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, errUsernameTaken) {
		httpx.WriteError(w, http.StatusConflict, "Username already exists")
		return
	}
	s.storeFailed(w, r, credentialLabel, err)
}

// verifyLogin checks a doctor's username and password.
func (s *Server) verifyLogin(w http.ResponseWriter, r *http.Request) {
	var req verifyLoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	all, err := s.credentials(r.Context())
	if err != nil {
		s.storeFailed(w, r, credentialLabel, err)
		return
	}
	for _, rec := range all {
		if !strings.EqualFold(rec.Username, strings.TrimSpace(req.Username)) {
			continue
		}
		if rec.PasswordHash == "" || verifyPassword(rec.PasswordHash, req.Password) != nil {
			break
		}
		httpx.WriteJSON(w, http.StatusOK, httpx.Envelope{
			Success: true,
			Message: "Login successful",
			Data:    s.view(r.Context(), rec),
		})
		return
	}
	httpx.WriteError(w, http.StatusUnauthorized, "Invalid username or password")
}
