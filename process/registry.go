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

package process

import (
	"fmt"
	"sort"
	"sync"

	"github.com/zeebo/xxh3"

	gerrors "github.com/nitinol/nitinol/errors"
	"github.com/nitinol/nitinol/identity"
)

const defaultShardCount = 32

// Registry maps identities to type-erased process handles.
//
// The key space is split across shards picked by the xxh3 hash of the
// identity. Each shard has its own read-write lock so lookups never
// block each other and a mutation only blocks readers of one shard.
type Registry struct {
	shards []*registryShard
}

type registryShard struct {
	mu    sync.RWMutex
	items map[identity.Identity]any
}

// NewRegistry creates a Registry with the given number of shards.
// A non-positive count uses the default.
func NewRegistry(shardCount int) *Registry {
	if shardCount <= 0 {
		shardCount = defaultShardCount
	}

	shards := make([]*registryShard, shardCount)
	for i := range shards {
		shards[i] = &registryShard{items: make(map[identity.Identity]any)}
	}
	return &Registry{shards: shards}
}

func (r *Registry) shard(id identity.Identity) *registryShard {
	return r.shards[xxh3.HashString(id.String())%uint64(len(r.shards))]
}

// Register adds the handle under id. It fails with ErrAlreadyExist
// when id is already registered.
func (r *Registry) Register(id identity.Identity, handle any) error {
	shard := r.shard(id)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	if _, ok := shard.items[id]; ok {
		return gerrors.NewErrAlreadyExist(id.String())
	}
	shard.items[id] = handle
	return nil
}

// Deregister removes id. It fails with ErrNotFound when id is not registered.
func (r *Registry) Deregister(id identity.Identity) error {
	shard := r.shard(id)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	if _, ok := shard.items[id]; !ok {
		return gerrors.NewErrNotFound(id.String())
	}
	delete(shard.items, id)
	return nil
}

// Get returns the type-erased handle registered under id
func (r *Registry) Get(id identity.Identity) (any, bool) {
	shard := r.shard(id)
	shard.mu.RLock()
	handle, ok := shard.items[id]
	shard.mu.RUnlock()
	return handle, ok
}

// Contains reports whether id is registered
func (r *Registry) Contains(id identity.Identity) bool {
	_, ok := r.Get(id)
	return ok
}

// Len returns the number of registered handles
func (r *Registry) Len() int {
	total := 0
	for _, shard := range r.shards {
		shard.mu.RLock()
		total += len(shard.items)
		shard.mu.RUnlock()
	}
	return total
}

// IDs returns the registered identities in sorted order
func (r *Registry) IDs() []identity.Identity {
	ids := make([]identity.Identity, 0)
	for _, shard := range r.shards {
		shard.mu.RLock()
		for id := range shard.items {
			ids = append(ids, id)
		}
		shard.mu.RUnlock()
	}

	sort.Slice(ids, func(i, j int) bool {
		return ids[i].Compare(ids[j]) < 0
	})
	return ids
}

// Find returns the handle registered under id as a *Ref[T].
//
// It returns (nil, false, nil) when id is not registered and an
// InvalidCastError when the registered handle has another type.
func Find[T any](registry *Registry, id identity.Identity) (*Ref[T], bool, error) {
	handle, ok := registry.Get(id)
	if !ok {
		return nil, false, nil
	}

	ref, ok := handle.(*Ref[T])
	if !ok {
		return nil, false, gerrors.NewInvalidCastError(fmt.Sprintf("%T", (*Ref[T])(nil)), fmt.Sprintf("%T", handle))
	}
	return ref, true, nil
}
