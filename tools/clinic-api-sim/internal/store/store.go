// Package store keeps the simulator's records as JSON documents keyed by
// resource kind and numeric id.
package store

import (
	"context"
	"encoding/json"
	"errors"
)

var ErrNotFound = errors.New("document not found")

const (
	KindDepartments = "departments"
	KindDoctors     = "doctors"
	KindTests       = "health-tests"
	KindFeedback    = "feedback"
	KindCredentials = "credentials"
	KindAdmins      = "admins"
)

// Doc is one stored record. Data is the full JSON object including its id.
type Doc struct {
	ID   int64
	Data json.RawMessage
}

type Store interface {
	// List returns the documents of kind ordered by id.
	List(ctx context.Context, kind string) ([]Doc, error)
	Get(ctx context.Context, kind string, id int64) (Doc, error)
	// Put inserts or replaces a document.
	Put(ctx context.Context, kind string, doc Doc) error
	Delete(ctx context.Context, kind string, id int64) error
	// NextID is one past the largest id of kind, or 1.
	NextID(ctx context.Context, kind string) (int64, error)
	Ping(ctx context.Context) error
}

// Seed loads a {"kind": [objects...]} document into s. Objects need an
// integer "id". Existing documents with the same id are replaced.
func Seed(ctx context.Context, s Store, raw []byte) error {
	var byKind map[string][]json.RawMessage
	if err := json.Unmarshal(raw, &byKind); err != nil {
		return err
	}
	for kind, items := range byKind {
		for _, item := range items {
			var head struct {
				ID int64 `json:"id"`
			}
			if err := json.Unmarshal(item, &head); err != nil || head.ID <= 0 {
				return errors.Join(errors.New("seed "+kind+": object without a positive id"), err)
			}
			if err := s.Put(ctx, kind, Doc{ID: head.ID, Data: item}); err != nil {
				return err
			}
		}
	}
	return nil
}

// Decode unmarshals every document of kind into T.
func Decode[T any](docs []Doc) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		var v T
		if err := json.Unmarshal(d.Data, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
