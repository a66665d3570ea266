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

package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/atomic"

	gerrors "github.com/nitinol/nitinol/errors"
	"github.com/nitinol/nitinol/identity"
	"github.com/nitinol/nitinol/payload"
	"github.com/nitinol/nitinol/persistence"
)

type item struct {
	seq  int64
	data []byte
}

// Store keeps journals in memory. Records are stored encoded so that a
// caller mutating a returned record never alters the journal.
type Store struct {
	mu        sync.RWMutex
	journals  map[identity.Identity][]*item
	kinds     map[string][]*item
	connected *atomic.Bool
}

var _ persistence.Store = (*Store)(nil)

// NewStore creates an in-memory Store
func NewStore() *Store {
	return &Store{
		journals:  make(map[identity.Identity][]*item),
		kinds:     make(map[string][]*item),
		connected: atomic.NewBool(false),
	}
}

// Connect marks the store as usable
func (s *Store) Connect(context.Context) error {
	s.connected.Store(true)
	return nil
}

// Disconnect drops every journal
func (s *Store) Disconnect(context.Context) error {
	if !s.connected.Swap(false) {
		return nil
	}
	s.mu.Lock()
	s.journals = make(map[identity.Identity][]*item)
	s.kinds = make(map[string][]*item)
	s.mu.Unlock()
	return nil
}

// Write appends record to the journal of id
func (s *Store) Write(ctx context.Context, id identity.Identity, record payload.Payload) error {
	if err := s.ensureUsable(ctx); err != nil {
		return err
	}
	if !record.ID.Equals(id) {
		return gerrors.NewErrInvalidPayload(fmt.Errorf("record of %s written to %s", record.ID, id))
	}

	data, err := payload.Marshal(record)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.journals[id]
	index := sort.Search(len(items), func(i int) bool { return items[i].seq >= record.SequenceID })
	if index < len(items) && items[index].seq == record.SequenceID {
		return gerrors.NewErrAlreadyExist(fmt.Sprintf("%s/%d", id, record.SequenceID))
	}

	entry := &item{seq: record.SequenceID, data: data}
	items = append(items, nil)
	copy(items[index+1:], items[index:])
	items[index] = entry

	s.journals[id] = items
	s.kinds[record.RegistryKey] = append(s.kinds[record.RegistryKey], entry)
	return nil
}

// Read returns the record of id at seq
func (s *Store) Read(ctx context.Context, id identity.Identity, seq int64) (payload.Payload, error) {
	if err := s.ensureUsable(ctx); err != nil {
		return payload.Payload{}, err
	}

	s.mu.RLock()
	items := s.journals[id]
	index := sort.Search(len(items), func(i int) bool { return items[i].seq >= seq })
	if index == len(items) || items[index].seq != seq {
		s.mu.RUnlock()
		return payload.Payload{}, gerrors.NewErrRecordNotFound(id.String(), seq)
	}
	data := items[index].data
	s.mu.RUnlock()

	return payload.Unmarshal(data)
}

// ReadRange returns the records of id with from <= sequence <= to
func (s *Store) ReadRange(ctx context.Context, id identity.Identity, from, to int64) ([]payload.Payload, error) {
	if err := s.ensureUsable(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	items := s.journals[id]
	start := sort.Search(len(items), func(i int) bool { return items[i].seq >= from })
	subset := make([]*item, 0)
	for _, entry := range items[start:] {
		if entry.seq > to {
			break
		}
		subset = append(subset, entry)
	}
	s.mu.RUnlock()

	return decode(subset)
}

// ReadToLatest returns the records of id from the given sequence onwards
func (s *Store) ReadToLatest(ctx context.Context, id identity.Identity, from int64) ([]payload.Payload, error) {
	return s.ReadRange(ctx, id, from, persistence.LatestSequence)
}

// ReadAllByEventKind returns the records of every identity with the given registry key
func (s *Store) ReadAllByEventKind(ctx context.Context, kind string) ([]payload.Payload, error) {
	if err := s.ensureUsable(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	subset := append([]*item(nil), s.kinds[kind]...)
	s.mu.RUnlock()

	return decode(subset)
}

// Len returns the number of journals
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.journals)
}

func (s *Store) ensureUsable(ctx context.Context) error {
	if !s.connected.Load() {
		return gerrors.ErrStoreClosed
	}
	return ctx.Err()
}

func decode(items []*item) ([]payload.Payload, error) {
	records := make([]payload.Payload, 0, len(items))
	for _, entry := range items {
		record, err := payload.Unmarshal(entry.data)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	payload.Sort(records)
	return records, nil
}
