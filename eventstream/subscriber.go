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
	"sort"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"

	gerrors "github.com/nitinol/nitinol/errors"
	"github.com/nitinol/nitinol/payload"
)

// Subscriber reads the records published on a Stream.
//
// Note: the unexported methods prevent external implementations.
// Subscribers are created by a Stream via AddSubscriber().
type Subscriber interface {
	// ID returns the subscriber id
	ID() string
	// Active reports whether the subscriber still receives records
	Active() bool
	// Filters returns the sorted registry keys accepted by the subscriber
	Filters() []string
	// Pending returns the number of buffered records
	Pending() int
	// Next blocks until a record is available.
	// It returns a LaggedError once after records were overwritten and
	// ErrStreamClosed once the subscriber is closed and drained.
	Next(ctx context.Context) (payload.Payload, error)

	signal(record payload.Payload)
	shutdown()
}

type subscriber struct {
	id      string
	filters mapset.Set[string]

	mu      sync.Mutex
	ring    []payload.Payload
	head    int
	size    int
	skipped uint64
	closed  bool

	wake chan struct{}
}

var _ Subscriber = (*subscriber)(nil)

func newSubscriber(capacity int, filters []string) *subscriber {
	return &subscriber{
		id:      uuid.NewString(),
		filters: mapset.NewThreadUnsafeSet(filters...),
		ring:    make([]payload.Payload, capacity),
		wake:    make(chan struct{}, 1),
	}
}

func (s *subscriber) ID() string {
	return s.id
}

func (s *subscriber) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed
}

func (s *subscriber) Filters() []string {
	filters := s.filters.ToSlice()
	sort.Strings(filters)
	return filters
}

func (s *subscriber) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}

func (s *subscriber) Next(ctx context.Context) (payload.Payload, error) {
	for {
		s.mu.Lock()
		switch {
		case s.skipped > 0:
			skipped := s.skipped
			s.skipped = 0
			s.mu.Unlock()
			return payload.Payload{}, gerrors.NewLaggedError(skipped)
		case s.size > 0:
			record := s.ring[s.head]
			s.ring[s.head] = payload.Payload{}
			s.head = (s.head + 1) % len(s.ring)
			s.size--
			s.mu.Unlock()
			return record, nil
		case s.closed:
			s.mu.Unlock()
			return payload.Payload{}, gerrors.ErrStreamClosed
		}
		s.mu.Unlock()

		select {
		case <-s.wake:
		case <-ctx.Done():
			return payload.Payload{}, ctx.Err()
		}
	}
}

// accepts is read without locking: filters never change after creation
func (s *subscriber) accepts(record payload.Payload) bool {
	return s.filters.Cardinality() == 0 || s.filters.Contains(record.RegistryKey)
}

func (s *subscriber) signal(record payload.Payload) {
	if !s.accepts(record) {
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	if s.size == len(s.ring) {
		// overwrite the oldest record
		s.ring[s.head] = record
		s.head = (s.head + 1) % len(s.ring)
		s.skipped++
	} else {
		s.ring[(s.head+s.size)%len(s.ring)] = record
		s.size++
	}
	s.mu.Unlock()
	s.notify()
}

func (s *subscriber) shutdown() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.notify()
}

func (s *subscriber) notify() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}
