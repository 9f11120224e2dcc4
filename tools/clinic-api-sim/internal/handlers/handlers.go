// Package handlers serves the clinic REST API on top of a document store,
// using the {success,message,data} envelope for every reply.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/md-rashed-zaman/clinicadmin/libs/auth"
	"github.com/md-rashed-zaman/clinicadmin/libs/httpx"
	"github.com/md-rashed-zaman/clinicadmin/tools/clinic-api-sim/internal/store"
)

type Options struct {
	Store     store.Store
	Logger    *slog.Logger
	JWTSecret string
	TokenTTL  time.Duration
	// RequireAuth puts every write except login, verify-login and feedback
	// submission behind a valid admin token.
	RequireAuth bool
	Now         func() time.Time
}

type Server struct {
	store       store.Store
	logger      *slog.Logger
	secret      string
	tokenTTL    time.Duration
	requireAuth bool
	now         func() time.Time
}

func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 12 * time.Hour
	}
	return &Server{
		store:       opts.Store,
		logger:      opts.Logger,
		secret:      opts.JWTSecret,
		tokenTTL:    opts.TokenTTL,
		requireAuth: opts.RequireAuth,
		now:         opts.Now,
	}
}

// Register mounts every API route on mux.
func (s *Server) Register(mux *http.ServeMux) {
	for _, res := range []resource{
		{kind: store.KindDepartments, label: "Department", required: []string{"name"}},
		{kind: store.KindDoctors, label: "Doctor", required: []string{"name", "specialty"}},
		{kind: store.KindTests, label: "Test", required: []string{"name", "department"}},
		{kind: store.KindFeedback, label: "Feedback", required: []string{"name", "email", "message"}, stamped: true, publicCreate: true},
	} {
		s.mountResource(mux, res)
	}

	mux.HandleFunc("GET /api/credentials", s.listCredentials)
	mux.HandleFunc("GET /api/credentials/{id}", s.getCredential)
	mux.HandleFunc("GET /api/credentials/doctor/{doctorId}", s.getCredentialByDoctor)
	mux.Handle("POST /api/credentials", s.guard(http.HandlerFunc(s.createCredential)))
	mux.Handle("PUT /api/credentials/{id}", s.guard(http.HandlerFunc(s.updateCredential)))
	mux.Handle("DELETE /api/credentials/{id}", s.guard(http.HandlerFunc(s.deleteCredential)))
	mux.HandleFunc("POST /api/credentials/verify-login", s.verifyLogin)

	mux.HandleFunc("POST /api/admins/login", s.login)
}

// guard enforces a valid HS256 admin token when RequireAuth is set.
func (s *Server) guard(next http.Handler) http.Handler {
	if !s.requireAuth {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			httpx.WriteError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		claims, err := auth.ParseAndVerifyHS256(strings.TrimSpace(token), s.secret)
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				msg = "Token expired"
			}
			httpx.WriteError(w, http.StatusUnauthorized, msg)
			return
		}
		if claims.Role != roleAdmin {
			httpx.WriteError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httpx.WriteError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		httpx.WriteError(w, http.StatusBadRequest, "invalid json body")
		return false
	}
	return true
}

// storeFailed maps store errors to replies; not-found becomes 404.
func (s *Server) storeFailed(w http.ResponseWriter, r *http.Request, label string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		httpx.WriteError(w, http.StatusNotFound, label+" not found")
		return
	}
	s.logger.Error("store operation failed",
		"request_id", httpx.RequestIDFromContext(r.Context()),
		"path", r.URL.Path,
		"err", err,
	)
	httpx.WriteError(w, http.StatusInternalServerError, "Internal server error")
}
