package shell

import (
	"context"
	"fmt"
	"sync"

	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/screens"
)

const maxRedirects = 5

// App owns the session and the mounted screen. Navigation always closes the
// current screen and mounts a fresh one, even for the same URL.
type App struct {
	ctx  context.Context
	deps screens.Deps

	mu       sync.Mutex
	current  screens.Screen
	path     string
	menuOpen bool
}

func NewApp(ctx context.Context, deps screens.Deps) *App {
	return &App{ctx: ctx, deps: deps}
}

// Navigate resolves path, applies the login guard, mounts the screen and
// follows any redirect the screen asks for. A load error is returned along
// with the mounted screen.
func (a *App) Navigate(path string) (screens.Screen, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for range maxRedirects {
		m, err := Resolve(path)
		if err != nil {
			return nil, err
		}
		if m.Route.RedirectTo != "" {
			path = m.Route.RedirectTo
			continue
		}
		if !m.Route.Public && !a.loggedIn() {
			path = screens.PathLogin
			continue
		}

		scr, err := m.Route.mount(a.ctx, a.deps, m.Params)
		if err != nil {
			return nil, err
		}
		if a.current != nil {
			a.current.Close()
		}
		a.current, a.path, a.menuOpen = scr, m.Path, false

		if err := scr.Load(); err != nil {
			return scr, err
		}
		if next := scr.Redirect(); next != "" {
			path = next
			continue
		}
		return scr, nil
	}
	return nil, fmt.Errorf("too many redirects navigating to %s", path)
}

func (a *App) loggedIn() bool {
	return a.deps.Session != nil && a.deps.Session.LoggedIn()
}

// Open navigates and returns the screen as T.
func Open[T screens.Screen](a *App, path string) (T, error) {
	var zero T
	scr, err := a.Navigate(path)
	if scr == nil {
		return zero, err
	}
	typed, ok := scr.(T)
	if !ok {
		return zero, fmt.Errorf("navigating to %s ended on %s", path, a.Path())
	}
	return typed, err
}

func (a *App) Current() screens.Screen {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

func (a *App) Path() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.path
}

func (a *App) ToggleMenu() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.menuOpen = !a.menuOpen
}

func (a *App) CloseMenu() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.menuOpen = false
}

func (a *App) MenuOpen() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.menuOpen
}

// IsActive is an exact match against the current path.
func (a *App) IsActive(url string) bool {
	return a.Path() == Normalize(url)
}

func (a *App) IsLoginPage() bool {
	p := a.Path()
	return p == screens.PathLogin || p == "/"
}

// Logout clears the session and returns to the login screen.
func (a *App) Logout() error {
	if a.deps.Session != nil {
		if err := a.deps.Session.Logout(a.ctx); err != nil {
			return err
		}
	}
	_, err := a.Navigate(screens.PathLogin)
	a.CloseMenu()
	return err
}

// Close tears down the mounted screen.
func (a *App) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current != nil {
		a.current.Close()
		a.current = nil
	}
}
