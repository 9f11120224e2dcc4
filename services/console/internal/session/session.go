// Package session holds the signed-in admin. The profile and token live in a
// Store under the keys adminData and adminToken so a later process can pick
// the session up again.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/md-rashed-zaman/clinicadmin/libs/auth"
	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/model"
)

const (
	KeyAdminData  = "adminData"
	KeyAdminToken = "adminToken"
)

var ErrNoSession = errors.New("no active session")

// Store is a small string key/value persistence layer.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

type Session struct {
	store Store
	now   func() time.Time

	mu    sync.RWMutex
	admin *model.Admin
	token string
}

func New(store Store, now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	return &Session{store: store, now: now}
}

// Load reads the persisted profile and token. A corrupt profile is cleared.
func (s *Session) Load(ctx context.Context) error {
	raw, ok, err := s.store.Get(ctx, KeyAdminData)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	token, _, err := s.store.Get(ctx, KeyAdminToken)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.admin, s.token = nil, token
	if !ok {
		return nil
	}
	var admin model.Admin
	if err := json.Unmarshal([]byte(raw), &admin); err != nil {
		s.token = ""
		return s.store.Delete(ctx, KeyAdminData, KeyAdminToken)
	}
	s.admin = &admin
	return nil
}

// Login stores the profile and token, replacing any previous session.
func (s *Session) Login(ctx context.Context, admin model.Admin, token string) error {
	raw, err := json.Marshal(admin)
	if err != nil {
		return fmt.Errorf("encode admin: %w", err)
	}
	if err := s.store.Set(ctx, KeyAdminData, string(raw)); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if token != "" {
		if err := s.store.Set(ctx, KeyAdminToken, token); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
	} else if err := s.store.Delete(ctx, KeyAdminToken); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	s.mu.Lock()
	s.admin, s.token = &admin, token
	s.mu.Unlock()
	return nil
}

// Logout clears both keys.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.admin, s.token = nil, ""
	s.mu.Unlock()
	if err := s.store.Delete(ctx, KeyAdminData, KeyAdminToken); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// LoggedIn is true when a profile is held and its token, if it is a JWT with
// an exp claim, has not expired.
func (s *Session) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.admin != nil && !s.expiredLocked()
}

func (s *Session) expiredLocked() bool {
	if s.token == "" {
		return false
	}
	claims, err := auth.ParseJWTNoVerify(s.token)
	if err != nil {
		return false
	}
	return claims.Expired(s.now())
}

// Admin returns the profile of a live session.
func (s *Session) Admin() (model.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.admin == nil || s.expiredLocked() {
		return model.Admin{}, ErrNoSession
	}
	return *s.admin, nil
}

// Token is the bearer token for API calls; empty once expired.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.expiredLocked() {
		return ""
	}
	return s.token
}
