// Package screens holds one controller per console page. A controller loads
// its data through the resource services, keeps a filtered list and a modal
// form, and runs mutations followed by a full reload.
package screens

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/activity"
	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/api"
	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/media"
	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/model"
	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/notify"
	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/session"
)

const (
	PathLogin       = "/admin/login"
	PathDashboard   = "/admin/dashboard"
	PathDepartment  = "/admin/departments"
	PathDoctors     = "/admin/doctors"
	PathDoctorEdit  = "/admin/doctors/edit/:id"
	PathTests       = "/admin/tests"
	PathCredentials = "/admin/credentials"
)

// ErrClosed is returned when a screen is used after Close; late results are
// dropped with it.
var ErrClosed = errors.New("screen closed")

type State int

const (
	Idle State = iota
	Loading
	Loaded
	Errored
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Errored:
		return "errored"
	default:
		return "idle"
	}
}

// Lifecycle scopes every request a screen makes. Close cancels them.
type Lifecycle struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func NewLifecycle(parent context.Context) *Lifecycle {
	ctx, cancel := context.WithCancel(parent)
	return &Lifecycle{ctx: ctx, cancel: cancel}
}

func (l *Lifecycle) Context() context.Context { return l.ctx }

func (l *Lifecycle) Close() { l.cancel() }

func (l *Lifecycle) Closed() bool { return l.ctx.Err() != nil }

// Screen is what the shell mounts for a route.
type Screen interface {
	Load() error
	Close()
	// Redirect is the route the screen wants to move to, or "".
	Redirect() string
	State() State
}

type CRUD[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id int64) (T, error)
	Create(ctx context.Context, item T) (T, error)
	Update(ctx context.Context, id int64, item T) (T, error)
	Delete(ctx context.Context, id int64) error
}

type CredentialService interface {
	List(ctx context.Context) ([]model.DoctorCredential, error)
	GetByDoctor(ctx context.Context, doctorID int64) (model.DoctorCredential, error)
	Create(ctx context.Context, req model.CreateCredentialRequest) (model.DoctorCredential, error)
	Update(ctx context.Context, id int64, req model.UpdateCredentialRequest) (model.DoctorCredential, error)
	Delete(ctx context.Context, id int64) error
}

type LoginService interface {
	Login(ctx context.Context, req model.LoginRequest) (api.LoginResult, error)
}

// Deps is everything a screen may call. Unset optional fields get defaults.
type Deps struct {
	Departments CRUD[model.Department]
	Doctors     CRUD[model.Doctor]
	Tests       CRUD[model.HealthTest]
	Feedback    CRUD[model.Feedback]
	Credentials CredentialService
	Admins      LoginService
	Session     *session.Session
	Activity    activity.Publisher
	Media       media.Uploader
	Logger      *slog.Logger
	Now         func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Activity == nil {
		d.Activity = activity.Noop{}
	}
	if d.Media == nil {
		d.Media = media.InlineUploader{}
	}
	if d.Logger == nil {
		d.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

type base struct {
	name    string
	life    *Lifecycle
	deps    Deps
	notices *notify.Center
	reload  func() error

	mu       sync.RWMutex
	state    State
	errMsg   string
	busy     bool
	redirect string
}

func (b *base) init(parent context.Context, name string, deps Deps, ttl time.Duration) {
	b.name = name
	b.deps = deps.withDefaults()
	b.life = NewLifecycle(parent)
	b.notices = notify.NewCenter(ttl, b.deps.Now)
}

func (b *base) Close() { b.life.Close() }

func (b *base) Notices() *notify.Center { return b.notices }

func (b *base) State() State {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

// Err is the load error, shown only in the errored state.
func (b *base) Err() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.state != Errored {
		return ""
	}
	return b.errMsg
}

func (b *base) Busy() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.busy
}

func (b *base) Redirect() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.redirect
}

func (b *base) setRedirect(path string) {
	b.mu.Lock()
	b.redirect = path
	b.mu.Unlock()
}

func (b *base) setBusy(v bool) {
	b.mu.Lock()
	b.busy = v
	b.mu.Unlock()
}

// beginLoad moves to the loading state and returns the screen context.
func (b *base) beginLoad() (context.Context, error) {
	if b.life.Closed() {
		return nil, ErrClosed
	}
	b.mu.Lock()
	b.state = Loading
	b.errMsg = ""
	b.mu.Unlock()
	return b.life.Context(), nil
}

// settle applies a load result unless the screen was closed meanwhile.
func (b *base) settle(apply func()) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.life.Closed() {
		return ErrClosed
	}
	apply()
	b.state = Loaded
	return nil
}

func (b *base) loadFailed(msg string, err error) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.life.Closed() {
		return ErrClosed
	}
	b.deps.Logger.Warn("screen load failed", "screen", b.name, "err", err)
	b.state = Errored
	b.errMsg = msg
	return err
}

// rejected reports a form problem without touching the network.
func (b *base) rejected(err error) error {
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		b.notices.Error(ve.Message)
	}
	return err
}

type mutation struct {
	resource string
	action   activity.Action
	success  string
	failure  string
	run      func(ctx context.Context) (int64, error)
}

// mutate runs m, posts the outcome and reloads on success. A reload failure
// leaves the screen errored but does not fail the mutation.
func (b *base) mutate(m mutation) error {
	if b.life.Closed() {
		return ErrClosed
	}
	ctx := b.life.Context()
	b.setBusy(true)
	id, err := m.run(ctx)
	b.setBusy(false)
	if b.life.Closed() {
		return ErrClosed
	}
	if err != nil {
		b.deps.Logger.Warn("mutation failed", "screen", b.name, "resource", m.resource, "action", m.action, "err", err)
		b.notices.Error(m.failure)
		return err
	}
	b.notices.Success(m.success)
	b.publish(ctx, m.resource, id, m.action)
	if b.reload != nil {
		_ = b.reload()
	}
	return nil
}

func (b *base) publish(ctx context.Context, resource string, id int64, action activity.Action) {
	ev := activity.Event{Resource: resource, ResourceID: id, Action: action, At: b.deps.Now().UTC()}
	if b.deps.Session != nil {
		if admin, err := b.deps.Session.Admin(); err == nil {
			ev.Actor = admin.Email
		}
	}
	if err := b.deps.Activity.Publish(ctx, ev); err != nil {
		b.deps.Logger.Warn("activity publish failed", "resource", resource, "err", err)
	}
}
