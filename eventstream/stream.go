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

	"go.uber.org/atomic"

	gerrors "github.com/nitinol/nitinol/errors"
	"github.com/nitinol/nitinol/internal/xsync"
	"github.com/nitinol/nitinol/log"
	"github.com/nitinol/nitinol/payload"
)

// DefaultCapacity is the number of records a subscriber buffers before it lags
const DefaultCapacity = 256

// Publisher publishes persisted-event records
type Publisher interface {
	Publish(ctx context.Context, record payload.Payload) error
}

// Stream broadcasts records to its subscribers.
//
// Every subscriber owns a bounded ring. Publishing never blocks: once a ring
// is full its oldest record is overwritten and the subscriber is told how many
// records it skipped on its next read.
type Stream struct {
	subscribers *xsync.Map[string, *subscriber]
	capacity    int
	logger      log.Logger
	closed      *atomic.Bool
}

var _ Publisher = (*Stream)(nil)

// New creates a Stream
func New(opts ...Option) *Stream {
	stream := &Stream{
		subscribers: xsync.NewMap[string, *subscriber](),
		capacity:    DefaultCapacity,
		logger:      log.DiscardLogger,
		closed:      atomic.NewBool(false),
	}
	for _, opt := range opts {
		opt.Apply(stream)
	}
	return stream
}

// Publish hands record to every subscriber whose filters accept its registry key
func (s *Stream) Publish(ctx context.Context, record payload.Payload) error {
	if s.closed.Load() {
		return gerrors.ErrStreamClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, sub := range s.subscribers.Values() {
		sub.signal(record)
	}
	return nil
}

// AddSubscriber adds a subscriber receiving the records of the given
// registry keys, or every record when no filter is given.
// A subscriber added to a closed stream is already closed.
func (s *Stream) AddSubscriber(filters ...string) Subscriber {
	sub := newSubscriber(s.capacity, filters)
	if s.closed.Load() {
		sub.shutdown()
		return sub
	}

	s.subscribers.Set(sub.ID(), sub)
	// Close may have drained the subscribers in between
	if s.closed.Load() {
		s.subscribers.Pop(sub.ID())
		sub.shutdown()
	}
	return sub
}

// RemoveSubscriber removes sub from the stream and closes it
func (s *Stream) RemoveSubscriber(sub Subscriber) {
	if removed, ok := s.subscribers.Pop(sub.ID()); ok {
		removed.shutdown()
	}
}

// SubscribersCount returns the number of subscribers
func (s *Stream) SubscribersCount() int {
	return s.subscribers.Len()
}

// Close closes the stream. Subscribers read what they buffered, then get ErrStreamClosed.
func (s *Stream) Close() {
	if s.closed.Swap(true) {
		return
	}
	for _, sub := range s.subscribers.Drain() {
		sub.shutdown()
	}
	s.logger.Debug("event stream closed")
}
