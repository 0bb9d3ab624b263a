package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-process Store used by tests and local
// development.  Documents are held as marshalled JSON so encoding
// behaviour matches the Redis store.  Individual operations are
// guarded by a mutex; read-modify-write sequences built on top of Get
// and Put remain as racy as they are against the real store.
type MemoryStore struct {
	mu   sync.Mutex
	docs map[string]map[string]json.RawMessage // collection -> id -> doc
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: map[string]map[string]json.RawMessage{}}
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string, dest interface{}) error {
	s.mu.Lock()
	raw, ok := s.docs[collection][id]
	s.mu.Unlock()
	if !ok {
		return ErrNoDocument
	}
	return json.Unmarshal(raw, dest)
}

func (s *MemoryStore) GetAll(ctx context.Context, collection string, dest interface{}) error {
	s.mu.Lock()
	ids := make([]string, 0, len(s.docs[collection]))
	for id := range s.docs[collection] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	raws := make([]json.RawMessage, 0, len(ids))
	for _, id := range ids {
		raws = append(raws, s.docs[collection][id])
	}
	s.mu.Unlock()

	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, r := range raws {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(r)
	}
	buf.WriteByte(']')
	return json.Unmarshal(buf.Bytes(), dest)
}

func (s *MemoryStore) GetByRef(ctx context.Context, ref Ref, dest interface{}) error {
	if ref.IsZero() {
		return ErrNoDocument
	}
	return s.Get(ctx, ref.Collection, ref.ID, dest)
}

func (s *MemoryStore) Put(ctx context.Context, collection, id string, doc interface{}) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.docs[collection] == nil {
		s.docs[collection] = map[string]json.RawMessage{}
	}
	s.docs[collection][id] = raw
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	return s.mutate(collection, id, func(doc map[string]interface{}) error {
		for k, v := range fields {
			doc[k] = v
		}
		return nil
	})
}

func (s *MemoryStore) AppendToList(ctx context.Context, collection, id, field string, ref Ref) error {
	return s.mutate(collection, id, func(doc map[string]interface{}) error {
		list, _ := doc[field].([]interface{})
		doc[field] = append(list, map[string]interface{}{
			"collection": ref.Collection,
			"id":         ref.ID,
		})
		return nil
	})
}

func (s *MemoryStore) IncrField(ctx context.Context, collection, id, field string, delta int64) error {
	return s.mutate(collection, id, func(doc map[string]interface{}) error {
		cur, ok := doc[field].(float64)
		if !ok && doc[field] != nil {
			return fmt.Errorf("store: field %q is not numeric", field)
		}
		doc[field] = int64(cur) + delta
		return nil
	})
}

func (s *MemoryStore) ServerTimestamp(ctx context.Context) time.Time { return time.Now().UTC() }

// mutate performs the read, change and write of a single-field
// mutation under one lock acquisition, mirroring the atomicity the
// Redis store gets from its WATCH/MULTI loop.
func (s *MemoryStore) mutate(collection, id string, fn func(doc map[string]interface{}) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.docs[collection][id]
	if !ok {
		return ErrNoDocument
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	s.docs[collection][id] = out
	return nil
}
