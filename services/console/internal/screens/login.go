package screens

import (
	"context"
	"errors"
	"net/http"

	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/api"
	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/model"
	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/notify"
)

const (
	msgLoginOK       = "Login successful! Redirecting..."
	msgLoginFailed   = "Login failed. Please try again."
	msgLoginRejected = "Invalid email or password. Please try again."
)

type Login struct {
	base
}

func NewLogin(parent context.Context, deps Deps) *Login {
	l := &Login{}
	l.init(parent, "login", deps, notify.DefaultTTL)
	return l
}

// Load sends a signed-in admin straight to the dashboard.
func (l *Login) Load() error {
	if l.life.Closed() {
		return ErrClosed
	}
	if l.deps.Session != nil && l.deps.Session.LoggedIn() {
		l.setRedirect(PathDashboard)
	}
	l.mu.Lock()
	l.state = Loaded
	l.mu.Unlock()
	return nil
}

// Submit validates the form, calls the login endpoint and stores the session.
func (l *Login) Submit(req model.LoginRequest) error {
	if err := req.Validate(); err != nil {
		return l.rejected(err)
	}
	if l.life.Closed() {
		return ErrClosed
	}
	l.notices.Clear()
	l.setBusy(true)
	defer l.setBusy(false)

	ctx := l.life.Context()
	res, err := l.deps.Admins.Login(ctx, req)
	if l.life.Closed() {
		return ErrClosed
	}
	if err != nil {
		l.deps.Logger.Warn("admin login failed", "email", req.Email, "err", err)
		l.notices.Error(loginFailureMessage(err))
		return err
	}
	if err := l.deps.Session.Login(ctx, res.Admin, res.Token); err != nil {
		l.notices.Error(msgLoginFailed)
		return err
	}
	l.notices.Success(msgLoginOK)
	l.setRedirect(PathDashboard)
	return nil
}

// A 2xx reply that refused the login carries its own message; anything else
// is reported as bad credentials unless the body says otherwise.
func loginFailureMessage(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Status >= http.StatusOK && apiErr.Status < http.StatusMultipleChoices {
		return api.MessageOf(err, msgLoginFailed)
	}
	return api.MessageOf(err, msgLoginRejected)
}
