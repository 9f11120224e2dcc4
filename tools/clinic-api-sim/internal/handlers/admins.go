package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/md-rashed-zaman/clinicadmin/libs/auth"
	"github.com/md-rashed-zaman/clinicadmin/libs/httpx"
	"github.com/md-rashed-zaman/clinicadmin/tools/clinic-api-sim/internal/store"
)

const roleAdmin = "admin"

type adminRecord struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	PhoneNumber  string `json:"phoneNumber"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
}

type adminView struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email"`
}

// AdminSeed is an admin account created at startup.
type AdminSeed struct {
	ID          int64
	FirstName   string
	LastName    string
	PhoneNumber string
	Email       string
	Password    string
}

// SeedAdmin stores the account with a bcrypt hash of its password.
func SeedAdmin(ctx context.Context, st store.Store, a AdminSeed) error {
	if a.Email == "" || a.Password == "" {
		return errors.New("admin seed needs an email and a password")
	}
	if a.ID <= 0 {
		a.ID = 1
	}
	hash, err := hashPassword(a.Password)
	if err != nil {
		return err
	}
	rec := adminRecord{
		ID:           a.ID,
		FirstName:    a.FirstName,
		LastName:     a.LastName,
		PhoneNumber:  a.PhoneNumber,
		Email:        strings.TrimSpace(a.Email),
		PasswordHash: hash,
	}
	return st.Put(ctx, store.KindAdmins, store.Doc{ID: rec.ID, Data: mustJSON(rec)})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	docs, err := s.store.List(r.Context(), store.KindAdmins)
	if err != nil {
		s.storeFailed(w, r, "Admin", err)
		return
	}
	var admin *adminRecord
	for _, d := range docs {
		var rec adminRecord
		if json.Unmarshal(d.Data, &rec) == nil && strings.EqualFold(rec.Email, req.Email) {
			admin = &rec
			break
		}
	}
	if admin == nil || verifyPassword(admin.PasswordHash, req.Password) != nil {
		httpx.WriteError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := auth.SignHS256(auth.NewClaims(admin.ID, admin.Email, roleAdmin, s.now(), s.tokenTTL), s.secret)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	s.logger.Info("admin signed in", "admin_id", admin.ID, "request_id", httpx.RequestIDFromContext(r.Context()))
	httpx.WriteJSON(w, http.StatusOK, httpx.Envelope{
		Success: true,
		Message: "Login successful",
		Token:   token,
		Data: adminView{
			ID:          admin.ID,
			FirstName:   admin.FirstName,
			LastName:    admin.LastName,
			PhoneNumber: admin.PhoneNumber,
			Email:       admin.Email,
		},
	})
}
