package store

import (
	"context"
	"slices"
	"sync"
)

type Memory struct {
	mu   sync.RWMutex
	docs map[string]map[int64][]byte
}

func NewMemory() *Memory {
	return &Memory{docs: map[string]map[int64][]byte{}}
}

func (m *Memory) List(_ context.Context, kind string) ([]Doc, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]int64, 0, len(m.docs[kind]))
	for id := range m.docs[kind] {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]Doc, len(ids))
	for i, id := range ids {
		out[i] = Doc{ID: id, Data: slices.Clone(m.docs[kind][id])}
	}
	return out, nil
}

func (m *Memory) Get(_ context.Context, kind string, id int64) (Doc, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.docs[kind][id]
	if !ok {
		return Doc{}, ErrNotFound
	}
	return Doc{ID: id, Data: slices.Clone(data)}, nil
}

func (m *Memory) Put(_ context.Context, kind string, doc Doc) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.docs[kind] == nil {
		m.docs[kind] = map[int64][]byte{}
	}
	m.docs[kind][doc.ID] = slices.Clone(doc.Data)
	return nil
}

func (m *Memory) Delete(_ context.Context, kind string, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[kind][id]; !ok {
		return ErrNotFound
	}
	delete(m.docs[kind], id)
	return nil
}

func (m *Memory) NextID(_ context.Context, kind string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var top int64
	for id := range m.docs[kind] {
		top = max(top, id)
	}
	return top + 1, nil
}

func (m *Memory) Ping(context.Context) error { return nil }
