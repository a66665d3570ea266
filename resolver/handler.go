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

package resolver

import (
	"context"
	"fmt"

	gerrors "github.com/nitinol/nitinol/errors"
)

// NewProjector creates the projection resolver of event E for entity type T.
//
// apply folds an event into an existing entity. first builds the entity
// out of the first event of its history and may be nil when the entity
// type is never formed by replay.
func NewProjector[T, E any](decode Decoder[E], apply func(ctx context.Context, entity T, event E) error, first func(ctx context.Context, event E) (T, error)) Resolver[T] {
	return &projector[T, E]{decode: decode, apply: apply, first: first}
}

type projector[T, E any] struct {
	decode Decoder[E]
	apply  func(ctx context.Context, entity T, event E) error
	first  func(ctx context.Context, event E) (T, error)
}

var _ Former[int] = (*projector[int, string])(nil)

func (x *projector[T, E]) Resolve(ctx context.Context, entity T, data []byte) error {
	event, err := x.decode(data)
	if err != nil {
		return gerrors.NewErrDeserialize(err)
	}

	if err := x.apply(ctx, entity, event); err != nil {
		return gerrors.NewInProcessError(fmt.Sprintf("%T: %v", event, err))
	}
	return nil
}

func (x *projector[T, E]) Form(ctx context.Context, data []byte) (T, error) {
	var zero T
	if x.first == nil {
		return zero, gerrors.ErrFirstFormationNotImplemented
	}

	event, err := x.decode(data)
	if err != nil {
		return zero, gerrors.NewErrDeserialize(err)
	}

	entity, err := x.first(ctx, event)
	if err != nil {
		return zero, gerrors.NewInProcessError(fmt.Sprintf("%T: %v", event, err))
	}
	return entity, nil
}

// NewSubscriber creates the subscription resolver of event E for entity type T.
// handler is invoked on the entity for every event delivered by a live stream.
func NewSubscriber[T, E any](decode Decoder[E], handler func(ctx context.Context, entity T, event E) error) Resolver[T] {
	return &subscriber[T, E]{decode: decode, handler: handler}
}

type subscriber[T, E any] struct {
	decode  Decoder[E]
	handler func(ctx context.Context, entity T, event E) error
}

func (x *subscriber[T, E]) Resolve(ctx context.Context, entity T, data []byte) error {
	event, err := x.decode(data)
	if err != nil {
		return gerrors.NewErrDeserialize(err)
	}

	if err := x.handler(ctx, entity, event); err != nil {
		return gerrors.NewInProcessError(fmt.Sprintf("%T: %v", event, err))
	}
	return nil
}
