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
	"errors"
	"time"

	"github.com/flowchartsman/retry"

	gerrors "github.com/nitinol/nitinol/errors"
	"github.com/nitinol/nitinol/identity"
	"github.com/nitinol/nitinol/payload"
	"github.com/nitinol/nitinol/persistence"
	"github.com/nitinol/nitinol/process"
	"github.com/nitinol/nitinol/resolver"
)

const initialRetryDelay = 100 * time.Millisecond

// Projector rebuilds entities of type T out of the events stored in a journal
type Projector[T any] struct {
	reader  persistence.Reader
	mapping *resolver.Mapping[T]
	config  *Config
}

// NewProjector creates a Projector reading from reader and resolving records with mapping
func NewProjector[T any](reader persistence.Reader, mapping *resolver.Mapping[T], opts ...Option) *Projector[T] {
	return &Projector[T]{
		reader:  reader,
		mapping: mapping,
		config:  NewConfig(opts...),
	}
}

// Rebuild replays the whole journal of id into a fresh entity.
// An empty journal returns ErrFailedProjection.
func (p *Projector[T]) Rebuild(ctx context.Context, id identity.Identity) (T, int64, error) {
	var zero T
	records, err := p.load(ctx, func(ctx context.Context) ([]payload.Payload, error) {
		return p.reader.ReadToLatest(ctx, id, 0)
	})
	if err != nil {
		return zero, 0, err
	}

	entity, seq, err := Replay(ctx, p.mapping, id, records)
	if err != nil {
		p.config.Logger.Errorf("failed to replay %s: %v", id, err)
		return zero, 0, err
	}

	p.config.Logger.Debugf("replay of %s successful reading %d events", id, len(records))
	return entity, seq, nil
}

// CatchUp applies the records written after seq to an entity replayed up to seq
func (p *Projector[T]) CatchUp(ctx context.Context, id identity.Identity, entity T, seq int64) (T, int64, error) {
	records, err := p.load(ctx, func(ctx context.Context) ([]payload.Payload, error) {
		return p.reader.ReadToLatest(ctx, id, seq)
	})
	if err != nil {
		var zero T
		return zero, 0, err
	}

	return Advance(ctx, p.mapping, entity, seq, records)
}

// RebuildByEvent replays, per identity, every record of the given event kind
func (p *Projector[T]) RebuildByEvent(ctx context.Context, kind string) (map[identity.Identity]Result[T], error) {
	records, err := p.load(ctx, func(ctx context.Context) ([]payload.Payload, error) {
		return p.reader.ReadAllByEventKind(ctx, kind)
	})
	if err != nil {
		return nil, err
	}
	return ReplayAll(ctx, p.mapping, records)
}

// Spawn rebuilds the entity of id and spawns it at the sequence reached by the replay
func (p *Projector[T]) Spawn(ctx context.Context, system *process.System, id identity.Identity, opts ...process.SpawnOption) (*process.Ref[T], error) {
	entity, seq, err := p.Rebuild(ctx, id)
	if err != nil {
		return nil, err
	}

	opts = append(opts, process.WithSequence(seq))
	return process.Spawn(ctx, system, id, entity, opts...)
}

// load reads records with a bounded number of attempts.
// A closed store or a done context is not retried.
func (p *Projector[T]) load(ctx context.Context, read func(ctx context.Context) ([]payload.Payload, error)) ([]payload.Payload, error) {
	var records []payload.Payload
	retrier := retry.NewRetrier(p.config.Retries, min(initialRetryDelay, p.config.RetryDelay), p.config.RetryDelay)
	err := retrier.RunContext(ctx, func(ctx context.Context) error {
		var err error
		records, err = read(ctx)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, gerrors.ErrStoreClosed),
			errors.Is(err, context.Canceled),
			errors.Is(err, context.DeadlineExceeded):
			return retry.Stop(err)
		default:
			p.config.Logger.Warnf("failed to read the journal: %v", err)
			return err
		}
	})
	return records, err
}
