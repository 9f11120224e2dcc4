// Package shell maps console URLs to screens, guards them behind the admin
// session and keeps the header state.
package shell

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/screens"
)

var ErrUnknownRoute = errors.New("unknown route")

type Params map[string]string

type mountFunc func(ctx context.Context, deps screens.Deps, p Params) (screens.Screen, error)

type Route struct {
	Pattern string
	// Public routes skip the session guard.
	Public bool
	// RedirectTo makes the route an alias.
	RedirectTo string
	mount      mountFunc
}

type Match struct {
	Route  Route
	Path   string
	Params Params
}

var routes = []Route{
	{Pattern: "/", Public: true, RedirectTo: screens.PathLogin},
	{Pattern: screens.PathLogin, Public: true, mount: func(ctx context.Context, d screens.Deps, _ Params) (screens.Screen, error) {
		return screens.NewLogin(ctx, d), nil
	}},
	{Pattern: screens.PathDashboard, mount: func(ctx context.Context, d screens.Deps, _ Params) (screens.Screen, error) {
		return screens.NewDashboard(ctx, d), nil
	}},
	{Pattern: screens.PathDepartment, mount: func(ctx context.Context, d screens.Deps, _ Params) (screens.Screen, error) {
		return screens.NewDepartments(ctx, d), nil
	}},
	{Pattern: screens.PathDoctors, mount: func(ctx context.Context, d screens.Deps, _ Params) (screens.Screen, error) {
		return screens.NewDoctors(ctx, d), nil
	}},
	{Pattern: screens.PathDoctorEdit, mount: func(ctx context.Context, d screens.Deps, p Params) (screens.Screen, error) {
		id, err := strconv.ParseInt(p["id"], 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("%w: invalid doctor id %q", ErrUnknownRoute, p["id"])
		}
		return screens.NewDoctorEdit(ctx, d, id), nil
	}},
	{Pattern: screens.PathTests, mount: func(ctx context.Context, d screens.Deps, _ Params) (screens.Screen, error) {
		return screens.NewTests(ctx, d), nil
	}},
	{Pattern: screens.PathCredentials, mount: func(ctx context.Context, d screens.Deps, _ Params) (screens.Screen, error) {
		return screens.NewCredentials(ctx, d), nil
	}},
}

// Routes lists the route patterns in table order.
func Routes() []string {
	out := make([]string, len(routes))
	for i, r := range routes {
		out[i] = r.Pattern
	}
	return out
}

// Normalize drops query and fragment, and any trailing slash.
func Normalize(path string) string {
	path = strings.TrimSpace(path)
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = "/" + strings.Trim(path, "/")
	return path
}

// Resolve finds the route for path and extracts :name parameters.
func Resolve(path string) (Match, error) {
	path = Normalize(path)
	segs := split(path)
	for _, r := range routes {
		if params, ok := match(split(r.Pattern), segs); ok {
			return Match{Route: r, Path: path, Params: params}, nil
		}
	}
	return Match{}, fmt.Errorf("%w: %s", ErrUnknownRoute, path)
}

func split(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func match(pattern, segs []string) (Params, bool) {
	if len(pattern) != len(segs) {
		return nil, false
	}
	params := Params{}
	for i, p := range pattern {
		if name, ok := strings.CutPrefix(p, ":"); ok {
			if segs[i] == "" {
				return nil, false
			}
			params[name] = segs[i]
			continue
		}
		if p != segs[i] {
			return nil, false
		}
	}
	return params, true
}

// DoctorEditPath builds the edit URL for a doctor.
func DoctorEditPath(id int64) string {
	return strings.Replace(screens.PathDoctorEdit, ":id", strconv.FormatInt(id, 10), 1)
}
