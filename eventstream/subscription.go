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

package eventstream

import (
	"context"
	"errors"

	gerrors "github.com/nitinol/nitinol/errors"
	"github.com/nitinol/nitinol/log"
	"github.com/nitinol/nitinol/payload"
	"github.com/nitinol/nitinol/process"
	"github.com/nitinol/nitinol/resolver"
)

// Subscription feeds the records of a Stream to one process
type Subscription struct {
	subscriber Subscriber
	cancel     context.CancelFunc
	done       chan struct{}
}

// Subscribe delivers to ref every record whose registry key has a
// subscription resolver in mapping. Each record is resolved inside the
// process, in publish order, through its mailbox.
//
// The subscription ends when Stop is called, ctx is done, the stream is
// closed or the process stops.
func Subscribe[T any](ctx context.Context, stream *Stream, ref *process.Ref[T], mapping *resolver.Mapping[T], logger log.Logger) (*Subscription, error) {
	events := mapping.EventsFor(resolver.Subscription)
	if len(events) == 0 {
		return nil, gerrors.NewErrNotFound(string(resolver.Subscription))
	}

	sub := stream.AddSubscriber(events...)
	if !sub.Active() {
		return nil, gerrors.ErrStreamClosed
	}

	ctx, cancel := context.WithCancel(ctx)
	subscription := &Subscription{
		subscriber: sub,
		cancel:     cancel,
		done:       make(chan struct{}),
	}

	go func() {
		select {
		case <-ref.Done():
			cancel()
		case <-ctx.Done():
		}
	}()

	go func() {
		defer close(subscription.done)
		defer stream.RemoveSubscriber(sub)
		defer cancel()

		for {
			record, err := sub.Next(ctx)
			if err != nil {
				var lagged *gerrors.LaggedError
				if errors.As(err, &lagged) {
					logger.Warnf("subscriber lagged, skipped %d messages", lagged.Skipped)
					continue
				}
				return
			}

			if err := deliver(ref, mapping, record, logger); err != nil {
				logger.Warnf("subscription of %s ended: %v", ref.ID(), err)
				return
			}
		}
	}()

	return subscription, nil
}

func deliver[T any](ref *process.Ref[T], mapping *resolver.Mapping[T], record payload.Payload, logger log.Logger) error {
	resolvers := mapping.FindByEvent(record.RegistryKey, resolver.Subscription)
	if len(resolvers) == 0 {
		logger.Debugf("No handler found for event %s", record.RegistryKey)
		return nil
	}

	for _, found := range resolvers {
		task := process.TaskFunc[T](func(entity T, pctx *process.Context) error {
			return found.Resolve(pctx.Context(), entity, record.Bytes)
		})
		if err := process.Submit(ref, task); err != nil {
			return err
		}
	}
	return nil
}

// ID returns the id of the underlying subscriber
func (s *Subscription) ID() string {
	return s.subscriber.ID()
}

// Done is closed once the subscription ended
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Stop ends the subscription and waits for its goroutine
func (s *Subscription) Stop() {
	s.cancel()
	<-s.done
}
