package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/md-rashed-zaman/clinicadmin/libs/db"
)

func exerciseStore(t *testing.T, s Store, kind string) {
	t.Helper()
	ctx := context.Background()

	next, err := s.NextID(ctx, kind)
	if err != nil || next != 1 {
		t.Fatalf("NextID on empty kind = %d, %v", next, err)
	}
	for _, id := range []int64{7, 3} {
		data, _ := json.Marshal(map[string]any{"id": id, "name": "n"})
		if err := s.Put(ctx, kind, Doc{ID: id, Data: data}); err != nil {
			t.Fatalf("Put %d: %v", id, err)
		}
	}
	docs, err := s.List(ctx, kind)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(docs) != 2 || docs[0].ID != 3 || docs[1].ID != 7 {
		t.Fatalf("List must be ordered by id, got %+v", docs)
	}
	if next, _ := s.NextID(ctx, kind); next != 8 {
		t.Fatalf("NextID = %d, want 8", next)
	}

	if err := s.Put(ctx, kind, Doc{ID: 3, Data: json.RawMessage(`{"id":3,"name":"renamed"}`)}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	got, err := s.Get(ctx, kind, 3)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	var v struct{ Name string }
	_ = json.Unmarshal(got.Data, &v)
	if v.Name != "renamed" {
		t.Fatalf("Put must replace, got %s", got.Data)
	}

	if err := s.Delete(ctx, kind, 3); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, kind, 3); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.Delete(ctx, kind, 3); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete should be ErrNotFound, got %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemory(), KindDepartments)
}

func TestMemoryReturnsCopies(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	_ = m.Put(ctx, KindDoctors, Doc{ID: 1, Data: json.RawMessage(`{"id":1}`)})
	d, _ := m.Get(ctx, KindDoctors, 1)
	d.Data[0] = 'X'
	again, _ := m.Get(ctx, KindDoctors, 1)
	if string(again.Data) != `{"id":1}` {
		t.Fatalf("stored document was mutated: %s", again.Data)
	}
}

func TestSeed(t *testing.T) {
	m := NewMemory()
	raw := []byte(`{"departments":[{"id":1,"name":"Cardiology"},{"id":2,"name":"Neurology"}],"doctors":[{"id":5}]}`)
	if err := Seed(context.Background(), m, raw); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	deps, _ := m.List(context.Background(), KindDepartments)
	type dept struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	decoded, err := Decode[dept](deps)
	if err != nil || len(decoded) != 2 || decoded[1].Name != "Neurology" {
		t.Fatalf("unexpected seeded departments %+v (%v)", decoded, err)
	}

	if err := Seed(context.Background(), m, []byte(`{"doctors":[{"name":"no id"}]}`)); err == nil {
		t.Fatal("seed objects without an id must be rejected")
	}
}

func TestPostgresStore(t *testing.T) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := db.Open(ctx, url, db.Options{MaxConns: 2})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer pool.Close()
	s, err := NewPostgres(ctx, pool)
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	kind := "test-" + t.Name()
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM sim_documents WHERE kind = $1`, kind)
	})
	exerciseStore(t, s, kind)
}
