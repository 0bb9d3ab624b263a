package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each document as a JSON value under
// "doc:<collection>:<id>" and tracks the ids of every collection in a
// set under "col:<collection>" so GetAll does not need to scan the
// keyspace.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore returns a RedisStore bound to the given client.
func NewRedisStore(client *redis.Client) *RedisStore { return &RedisStore{client: client} }

const txRetries = 16

func docKey(collection, id string) string { return "doc:" + collection + ":" + id }
func colKey(collection string) string     { return "col:" + collection }

func (s *RedisStore) Get(ctx context.Context, collection, id string, dest interface{}) error {
	raw, err := s.client.Get(ctx, docKey(collection, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrNoDocument
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

// GetAll loads every document of a collection into dest, which must be
// a pointer to a slice.  Documents are fetched with a single MGET; ids
// whose document vanished between SMEMBERS and MGET are skipped.
func (s *RedisStore) GetAll(ctx context.Context, collection string, dest interface{}) error {
	ids, err := s.client.SMembers(ctx, colKey(collection)).Result()
	if err != nil {
		return err
	}
	raws := make([][]byte, 0, len(ids))
	if len(ids) > 0 {
		keys := make([]string, len(ids))
		for i, id := range ids {
			keys[i] = docKey(collection, id)
		}
		vals, err := s.client.MGet(ctx, keys...).Result()
		if err != nil {
			return err
		}
		for _, v := range vals {
			if str, ok := v.(string); ok {
				raws = append(raws, []byte(str))
			}
		}
	}
	// Assemble a JSON array from the individual documents so dest can
	// be any slice type.
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

func (s *RedisStore) GetByRef(ctx context.Context, ref Ref, dest interface{}) error {
	if ref.IsZero() {
		return ErrNoDocument
	}
	return s.Get(ctx, ref.Collection, ref.ID, dest)
}

func (s *RedisStore) Put(ctx context.Context, collection, id string, doc interface{}) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, docKey(collection, id), raw, 0)
		pipe.SAdd(ctx, colKey(collection), id)
		return nil
	})
	return err
}

// Update merges the given fields into the stored document.  The merge
// runs inside an optimistic WATCH/MULTI transaction so a concurrent
// full overwrite forces a re-read instead of being clobbered.
func (s *RedisStore) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	return s.mutate(ctx, collection, id, func(doc map[string]interface{}) error {
		for k, v := range fields {
			doc[k] = v
		}
		return nil
	})
}

// AppendToList appends a reference to a list-valued field.  The append
// is atomic with respect to other AppendToList and IncrField calls on
// the same document: a lost concurrent append is a transaction failure
// that triggers a retry, never a silent drop.
func (s *RedisStore) AppendToList(ctx context.Context, collection, id, field string, ref Ref) error {
	return s.mutate(ctx, collection, id, func(doc map[string]interface{}) error {
		list, _ := doc[field].([]interface{})
		doc[field] = append(list, map[string]interface{}{
			"collection": ref.Collection,
			"id":         ref.ID,
		})
		return nil
	})
}

// IncrField atomically adds delta to an integer field of the document.
func (s *RedisStore) IncrField(ctx context.Context, collection, id, field string, delta int64) error {
	return s.mutate(ctx, collection, id, func(doc map[string]interface{}) error {
		cur, ok := doc[field].(float64)
		if !ok && doc[field] != nil {
			return fmt.Errorf("store: field %q is not numeric", field)
		}
		doc[field] = int64(cur) + delta
		return nil
	})
}

// ServerTimestamp returns the Redis server clock so timestamps are
// assigned consistently regardless of which app instance writes.  It
// falls back to the local clock when the server cannot be reached.
func (s *RedisStore) ServerTimestamp(ctx context.Context) time.Time {
	t, err := s.client.Time(ctx).Result()
	if err != nil {
		return time.Now().UTC()
	}
	return t.UTC()
}

// mutate applies fn to the decoded document under an optimistic
// concurrency loop: WATCH the key, read, mutate, and write in a MULTI
// block.  If another writer touches the key first, the transaction
// fails and the loop re-reads.
func (s *RedisStore) mutate(ctx context.Context, collection, id string, fn func(doc map[string]interface{}) error) error {
	key := docKey(collection, id)
	for i := 0; i < txRetries; i++ {
		err := s.client.Watch(ctx, func(tx *redis.Tx) error {
			raw, err := tx.Get(ctx, key).Bytes()
			if errors.Is(err, redis.Nil) {
				return ErrNoDocument
			}
			if err != nil {
				return err
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
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, out, 0)
				return nil
			})
			return err
		}, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue // conflicting write, re-read and retry
		}
		return err
	}
	return fmt.Errorf("store: update of %s/%s kept conflicting after %d attempts", collection, id, txRetries)
}
