// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package projection

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	gerrors "github.com/nitinol/nitinol/errors"
	"github.com/nitinol/nitinol/identity"
	"github.com/nitinol/nitinol/internal/recovery"
	"github.com/nitinol/nitinol/payload"
	"github.com/nitinol/nitinol/resolver"
)

// workerCount bounds the number of identities replayed concurrently by ReplayAll
const workerCount = 20

// Result is the outcome of the replay of one identity
type Result[T any] struct {
	// Entity is the rebuilt entity, the zero value when Err is set
	Entity T
	// Sequence is the sequence reached by the replay
	Sequence int64
	// Err is the replay failure
	Err error
}

// fixture is a record bound to the resolver that applies it
type fixture[T any] struct {
	record   payload.Payload
	resolver resolver.Resolver[T]
}

// Replay builds a fresh entity out of the records of id.
// The first record forms the entity and every following record is applied to it.
// It returns the entity and the number of applied records.
func Replay[T any](ctx context.Context, mapping *resolver.Mapping[T], id identity.Identity, records []payload.Payload) (T, int64, error) {
	var zero T
	return replay(ctx, mapping, id, zero, false, 0, records)
}

// Advance applies records to an existing entity whose journal was replayed up to seq.
// It returns the entity and the sequence reached.
func Advance[T any](ctx context.Context, mapping *resolver.Mapping[T], entity T, seq int64, records []payload.Payload) (T, int64, error) {
	var id identity.Identity
	if len(records) > 0 {
		id = records[0].ID
	}
	return replay(ctx, mapping, id, entity, true, seq, records)
}

// ReplayAll replays a record set spanning several identities, such as every
// record of one event kind. Each identity is replayed on its own.
// The returned error is only set when ctx is done.
func ReplayAll[T any](ctx context.Context, mapping *resolver.Mapping[T], records []payload.Payload) (map[identity.Identity]Result[T], error) {
	groups := make(map[identity.Identity][]payload.Payload)
	for _, record := range records {
		groups[record.ID] = append(groups[record.ID], record)
	}

	var (
		mu      sync.Mutex
		results = make(map[identity.Identity]Result[T], len(groups))
	)

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workerCount)
	for id, group := range groups {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			entity, seq, err := Replay(ctx, mapping, id, group)
			mu.Lock()
			results[id] = Result[T]{Entity: entity, Sequence: seq, Err: err}
			mu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func replay[T any](ctx context.Context, mapping *resolver.Mapping[T], id identity.Identity, entity T, formed bool, seq int64, records []payload.Payload) (T, int64, error) {
	var zero T

	if len(records) == 0 {
		if formed {
			return entity, seq, nil
		}
		return zero, 0, gerrors.NewErrFailedProjection(id.String(), mapping.EventsFor(resolver.Projection))
	}

	fixtures, err := load(mapping, records)
	if err != nil {
		return zero, 0, err
	}

	for _, fixture := range fixtures {
		if err := ctx.Err(); err != nil {
			return zero, 0, err
		}

		if !formed {
			entity, err = form(ctx, fixture)
			if err != nil {
				return zero, 0, gerrors.NewErrFirstFormation(err)
			}
			formed = true
			seq++
			continue
		}

		err := recovery.Try(func() error {
			return fixture.resolver.Resolve(ctx, entity, fixture.record.Bytes)
		})
		if err != nil {
			return zero, 0, gerrors.NewErrApplyEvent(err)
		}
		seq++
	}

	return entity, seq, nil
}

// load binds every record to its projection resolver before anything is applied,
// so that an incompatible journal never yields a partially applied entity.
func load[T any](mapping *resolver.Mapping[T], records []payload.Payload) ([]fixture[T], error) {
	sorted := payload.Sorted(records)
	fixtures := make([]fixture[T], 0, len(sorted))
	for _, record := range sorted {
		found, ok := mapping.Find(resolver.NewResolveKey(record.RegistryKey, resolver.Projection))
		if !ok {
			return nil, gerrors.NewNotCompatibleError(record.RegistryKey)
		}
		fixtures = append(fixtures, fixture[T]{record: record, resolver: found})
	}
	return fixtures, nil
}

func form[T any](ctx context.Context, fixture fixture[T]) (T, error) {
	var entity T
	former, ok := fixture.resolver.(resolver.Former[T])
	if !ok {
		return entity, gerrors.ErrFirstFormationNotImplemented
	}

	err := recovery.Try(func() error {
		var err error
		entity, err = former.Form(ctx, fixture.record.Bytes)
		return err
	})
	return entity, err
}
