package docstore

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type memoryDoc struct {
	seq    int64
	fields Fields
}

// MemoryStore keeps documents in process memory. Used for local runs and tests.
type MemoryStore struct {
	mu          sync.RWMutex
	seq         int64
	collections map[string]map[string]*memoryDoc
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string]*memoryDoc)}
}

func (m *MemoryStore) Get(_ context.Context, collection, id string) (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.collections[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return &Document{ID: id, Fields: copyFields(doc.fields)}, nil
}

func (m *MemoryStore) Query(_ context.Context, collection string, q Query) ([]Document, error) {
	type hit struct {
		id     string
		seq    int64
		fields Fields
	}
	m.mu.RLock()
	hits := make([]hit, 0)
	for id, doc := range m.collections[collection] {
		if matches(doc.fields, q.Filters) {
			hits = append(hits, hit{id: id, seq: doc.seq, fields: copyFields(doc.fields)})
		}
	}
	m.mu.RUnlock()

	sort.SliceStable(hits, func(i, j int) bool {
		if q.OrderBy != "" {
			a, b := hits[i].fields[q.OrderBy], hits[j].fields[q.OrderBy]
			if c := compareValues(a, b); c != 0 {
				if q.Descending {
					return c > 0
				}
				return c < 0
			}
		}
		if q.Descending {
			return hits[i].seq > hits[j].seq
		}
		return hits[i].seq < hits[j].seq
	})

	if q.Limit > 0 && len(hits) > q.Limit {
		hits = hits[:q.Limit]
	}
	result := make([]Document, 0, len(hits))
	for _, h := range hits {
		result = append(result, Document{ID: h.id, Fields: h.fields})
	}
	return result, nil
}

func (m *MemoryStore) Count(_ context.Context, collection string, filters ...Filter) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, doc := range m.collections[collection] {
		if matches(doc.fields, filters) {
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) Add(_ context.Context, collection string, fields Fields) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	coll, ok := m.collections[collection]
	if !ok {
		coll = make(map[string]*memoryDoc)
		m.collections[collection] = coll
	}
	m.seq++
	id := uuid.NewString()
	coll[id] = &memoryDoc{seq: m.seq, fields: copyFields(fields)}
	return id, nil
}

func (m *MemoryStore) Update(_ context.Context, collection, id string, patch Fields) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.collections[collection][id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range patch {
		doc.fields[k] = v
	}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.collections[collection][id]; !ok {
		return ErrNotFound
	}
	delete(m.collections[collection], id)
	return nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) Close(context.Context) error { return nil }

func matches(fields Fields, filters []Filter) bool {
	for _, f := range filters {
		if compareValues(fields[f.Field], f.Value) != 0 {
			return false
		}
	}
	return true
}

// compareValues orders nil < numbers < strings; mixed kinds compare by that rank.
func compareValues(a, b any) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return ra - rb
	}
	switch ra {
	case 1:
		fa, fb := toFloat(a), toFloat(b)
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	case 2:
		sa, sb := a.(string), b.(string)
		switch {
		case sa < sb:
			return -1
		case sa > sb:
			return 1
		}
		return 0
	case 3:
		ba, bb := a.(bool), b.(bool)
		if ba == bb {
			return 0
		}
		if !ba {
			return -1
		}
		return 1
	}
	return 0
}

func rank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case int, int32, int64, float32, float64:
		return 1
	case string:
		return 2
	case bool:
		return 3
	}
	return 4
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case float32:
		return float64(n)
	case float64:
		return n
	}
	return 0
}

func copyFields(in Fields) Fields {
	out := make(Fields, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
