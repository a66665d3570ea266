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
	"sort"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"

	gerrors "github.com/nitinol/nitinol/errors"
)

// Mapping is the resolver table of one entity type. It is filled once,
// when the entity type is declared, and only read afterwards.
type Mapping[T any] struct {
	mu        sync.RWMutex
	resolvers map[ResolveKey]Resolver[T]
	// events indexes the registered event kinds per handler class
	events map[HandlerKind]mapset.Set[string]
}

// NewMapping creates an empty Mapping
func NewMapping[T any]() *Mapping[T] {
	return &Mapping[T]{
		resolvers: make(map[ResolveKey]Resolver[T]),
		events:    make(map[HandlerKind]mapset.Set[string]),
	}
}

// Register adds resolver under key. A key can only be registered once.
func (m *Mapping[T]) Register(key ResolveKey, resolver Resolver[T]) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.resolvers[key]; ok {
		return gerrors.NewErrAlreadyExist(key.String())
	}

	m.resolvers[key] = resolver
	class := key.Handler.Class()
	events, ok := m.events[class]
	if !ok {
		events = mapset.NewThreadUnsafeSet[string]()
		m.events[class] = events
	}
	events.Add(key.Event)
	return nil
}

// Find returns the resolver registered under the exact key
func (m *Mapping[T]) Find(key ResolveKey) (Resolver[T], bool) {
	m.mu.RLock()
	resolver, ok := m.resolvers[key]
	m.mu.RUnlock()
	return resolver, ok
}

// FindByEvent returns the resolvers of the event kind whose handler kind
// belongs to the class of handler, ordered by handler kind.
func (m *Mapping[T]) FindByEvent(event string, handler HandlerKind) []Resolver[T] {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if events, ok := m.events[handler.Class()]; !ok || !events.Contains(event) {
		return nil
	}

	keys := make([]ResolveKey, 0)
	for key := range m.resolvers {
		if key.Event == event && key.Handler.Is(handler) {
			keys = append(keys, key)
		}
	}
	sortKeys(keys)

	resolvers := make([]Resolver[T], 0, len(keys))
	for _, key := range keys {
		resolvers = append(resolvers, m.resolvers[key])
	}
	return resolvers
}

// EventsFor returns the sorted event kinds registered for the class of handler
func (m *Mapping[T]) EventsFor(handler HandlerKind) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events, ok := m.events[handler.Class()]
	if !ok {
		return nil
	}

	out := events.ToSlice()
	sort.Strings(out)
	return out
}

// Keys returns the registered keys in order
func (m *Mapping[T]) Keys() []ResolveKey {
	m.mu.RLock()
	keys := make([]ResolveKey, 0, len(m.resolvers))
	for key := range m.resolvers {
		keys = append(keys, key)
	}
	m.mu.RUnlock()

	sortKeys(keys)
	return keys
}

// Len returns the number of registered resolvers
func (m *Mapping[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.resolvers)
}

func sortKeys(keys []ResolveKey) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Event != keys[j].Event {
			return keys[i].Event < keys[j].Event
		}
		return keys[i].Handler < keys[j].Handler
	})
}
