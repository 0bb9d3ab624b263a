package repository

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/trashure/trashure-backend/internal/store"
)

// resolveWorkers bounds the fan-out when resolving a list of
// references concurrently.
const resolveWorkers = 8

// ResolveOne fetches the document a reference points to.  A reference
// whose target does not exist (for example because it was deleted)
// resolves to nil rather than an error; callers must nil-check before
// using the result and raise ErrNotFound at the point of use.
func ResolveOne[T any](ctx context.Context, s store.Store, ref store.Ref) (*T, error) {
	var doc T
	err := s.GetByRef(ctx, ref, &doc)
	if errors.Is(err, store.ErrNoDocument) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// ResolveMany resolves a list of references concurrently.  Resolution
// is unordered but the result preserves input order: result[i]
// corresponds to refs[i].  A reference that fails to resolve leaves a
// nil placeholder and does not block or fail the others; store errors
// are logged and likewise yield nil.  In-flight lookups are not
// cancelled on behalf of the caller.
func ResolveMany[T any](ctx context.Context, s store.Store, refs []store.Ref) []*T {
	results := make([]*T, len(refs))
	sem := make(chan struct{}, resolveWorkers)
	var wg sync.WaitGroup
	for i, ref := range refs {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, ref store.Ref) {
			defer wg.Done()
			defer func() { <-sem }()
			doc, err := ResolveOne[T](ctx, s, ref)
			if err != nil {
				log.Printf("resolver: %s/%s: %v", ref.Collection, ref.ID, err)
				return
			}
			results[i] = doc
		}(i, ref)
	}
	wg.Wait()
	return results
}
