package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/md-rashed-zaman/clinicadmin/libs/httpx"
	"github.com/md-rashed-zaman/clinicadmin/tools/clinic-api-sim/internal/store"
)

// resource is a plain CRUD collection stored as opaque JSON objects.
type resource struct {
	kind     string
	label    string
	required []string
	// stamped records get createdAt and updatedAt.
	stamped      bool
	publicCreate bool
}

type object map[string]json.RawMessage

func (s *Server) mountResource(mux *http.ServeMux, res resource) {
	base := "/api/" + res.kind
	create := http.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { s.createDoc(w, r, res) }))
	if !res.publicCreate {
		create = s.guard(create)
	}
	mux.HandleFunc("GET "+base, func(w http.ResponseWriter, r *http.Request) { s.listDocs(w, r, res) })
	mux.HandleFunc("GET "+base+"/{id}", func(w http.ResponseWriter, r *http.Request) { s.getDoc(w, r, res) })
	mux.Handle("POST "+base, create)
	mux.Handle("PUT "+base+"/{id}", s.guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { s.updateDoc(w, r, res) })))
	mux.Handle("DELETE "+base+"/{id}", s.guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { s.deleteDoc(w, r, res) })))
}

func (s *Server) listDocs(w http.ResponseWriter, r *http.Request, res resource) {
	docs, err := s.store.List(r.Context(), res.kind)
	if err != nil {
		s.storeFailed(w, r, res.label, err)
		return
	}
	out := make([]json.RawMessage, len(docs))
	for i, d := range docs {
		out[i] = d.Data
	}
	httpx.WriteData(w, http.StatusOK, out)
}

func (s *Server) getDoc(w http.ResponseWriter, r *http.Request, res resource) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	doc, err := s.store.Get(r.Context(), res.kind, id)
	if err != nil {
		s.storeFailed(w, r, res.label, err)
		return
	}
	httpx.WriteData(w, http.StatusOK, doc.Data)
}

// missing returns the first required field that is absent or blank.
func (res resource) missing(obj object) string {
	for _, field := range res.required {
		raw, ok := obj[field]
		if !ok {
			return field
		}
		var str string
		if json.Unmarshal(raw, &str) == nil && strings.TrimSpace(str) == "" {
			return field
		}
		if string(raw) == "null" {
			return field
		}
	}
	return ""
}

func (s *Server) createDoc(w http.ResponseWriter, r *http.Request, res resource) {
	var obj object
	if !decodeBody(w, r, &obj) {
		return
	}
	if field := res.missing(obj); field != "" {
		httpx.WriteError(w, http.StatusBadRequest, field+" is required")
		return
	}
	ctx := r.Context()

	// A positive client id is kept when it is free.
	var id int64
	if raw, ok := obj["id"]; ok {
		_ = json.Unmarshal(raw, &id)
	}
	if id > 0 {
		if _, err := s.store.Get(ctx, res.kind, id); err == nil {
			id = 0
		}
	}
	if id <= 0 {
		next, err := s.store.NextID(ctx, res.kind)
		if err != nil {
			s.storeFailed(w, r, res.label, err)
			return
		}
		id = next
	}
	obj["id"] = mustJSON(id)
	if res.stamped {
		now := mustJSON(s.now().UTC())
		obj["createdAt"] = now
		obj["updatedAt"] = now
	}

	data := mustJSON(obj)
	if err := s.store.Put(ctx, res.kind, store.Doc{ID: id, Data: data}); err != nil {
		s.storeFailed(w, r, res.label, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, httpx.Envelope{
		Success: true,
		Message: res.label + " created successfully",
		Data:    data,
	})
}

func (s *Server) updateDoc(w http.ResponseWriter, r *http.Request, res resource) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var obj object
	if !decodeBody(w, r, &obj) {
		return
	}
	if field := res.missing(obj); field != "" {
		httpx.WriteError(w, http.StatusBadRequest, field+" is required")
		return
	}
	ctx := r.Context()
	current, err := s.store.Get(ctx, res.kind, id)
	if err != nil {
		s.storeFailed(w, r, res.label, err)
		return
	}
	obj["id"] = mustJSON(id)
	if res.stamped {
		var prev object
		_ = json.Unmarshal(current.Data, &prev)
		if created, ok := prev["createdAt"]; ok {
			obj["createdAt"] = created
		}
		obj["updatedAt"] = mustJSON(s.now().UTC())
	}

	data := mustJSON(obj)
	if err := s.store.Put(ctx, res.kind, store.Doc{ID: id, Data: data}); err != nil {
		s.storeFailed(w, r, res.label, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.Envelope{
		Success: true,
		Message: res.label + " updated successfully",
		Data:    data,
	})
}

func (s *Server) deleteDoc(w http.ResponseWriter, r *http.Request, res resource) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.store.Delete(r.Context(), res.kind, id); err != nil {
		s.storeFailed(w, r, res.label, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// mustJSON marshals values that cannot fail to encode.
func mustJSON(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
