package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/md-rashed-zaman/clinicadmin/services/console/internal/model"
)

// Resource is one REST collection with the usual five operations. When
// fallback is set, List degrades to it on any failure instead of erroring.
type Resource[T any] struct {
	client   *Client
	name     string
	path     string
	fallback func() []T
}

func newResource[T any](c *Client, name, path string, fallback func() []T) *Resource[T] {
	return &Resource[T]{client: c, name: name, path: path, fallback: fallback}
}

func NewDepartments(c *Client) *Resource[model.Department] {
	return newResource(c, "departments", "/api/departments", FallbackDepartments)
}

func NewDoctors(c *Client) *Resource[model.Doctor] {
	return newResource(c, "doctors", "/api/doctors", FallbackDoctors)
}

func NewTests(c *Client) *Resource[model.HealthTest] {
	return newResource(c, "health-tests", "/api/health-tests", FallbackTests)
}

func NewFeedback(c *Client) *Resource[model.Feedback] {
	return newResource[model.Feedback](c, "feedback", "/api/feedback", nil)
}

func (r *Resource[T]) Name() string { return r.name }

func (r *Resource[T]) itemPath(id int64) string {
	return r.path + "/" + strconv.FormatInt(id, 10)
}

func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	var items []T
	err := r.client.do(ctx, "list "+r.name, http.MethodGet, r.path, nil, &items)
	if err == nil {
		return items, nil
	}
	if r.fallback == nil || ctx.Err() != nil {
		return nil, err
	}
	r.client.logger.Warn("api unreachable, using local fallback", "resource", r.name, "err", err)
	return r.fallback(), nil
}

func (r *Resource[T]) Get(ctx context.Context, id int64) (T, error) {
	var item T
	err := r.client.do(ctx, "get "+r.name, http.MethodGet, r.itemPath(id), nil, &item)
	return item, err
}

func (r *Resource[T]) Create(ctx context.Context, item T) (T, error) {
	var created T
	err := r.client.do(ctx, "create "+r.name, http.MethodPost, r.path, item, &created)
	return created, err
}

func (r *Resource[T]) Update(ctx context.Context, id int64, item T) (T, error) {
	var updated T
	err := r.client.do(ctx, "update "+r.name, http.MethodPut, r.itemPath(id), item, &updated)
	return updated, err
}

func (r *Resource[T]) Delete(ctx context.Context, id int64) error {
	return r.client.do(ctx, "delete "+r.name, http.MethodDelete, r.itemPath(id), nil, nil)
}
