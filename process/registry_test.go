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
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/nitinol/nitinol/errors"
	"github.com/nitinol/nitinol/identity"
)

func TestRegistry(t *testing.T) {
	t.Run("With Register and Deregister", func(t *testing.T) {
		registry := NewRegistry(4)
		id := identity.New("counter-1")
		ref := newRef[*counter](id, newMailbox[*counter](0))

		require.NoError(t, registry.Register(id, ref))
		assert.True(t, registry.Contains(id))
		assert.Equal(t, 1, registry.Len())

		err := registry.Register(id, ref)
		require.ErrorIs(t, err, gerrors.ErrAlreadyExist)

		require.NoError(t, registry.Deregister(id))
		assert.False(t, registry.Contains(id))

		err = registry.Deregister(id)
		require.ErrorIs(t, err, gerrors.ErrNotFound)
	})
	t.Run("With a non positive shard count", func(t *testing.T) {
		registry := NewRegistry(0)
		assert.Len(t, registry.shards, defaultShardCount)
	})
	t.Run("With IDs sorted", func(t *testing.T) {
		registry := NewRegistry(8)
		for _, name := range []string{"c", "a", "b"} {
			require.NoError(t, registry.Register(identity.New(name), name))
		}

		ids := registry.IDs()
		require.Len(t, ids, 3)
		assert.Equal(t, "a", ids[0].String())
		assert.Equal(t, "b", ids[1].String())
		assert.Equal(t, "c", ids[2].String())
	})
	t.Run("With concurrent registrations of one identity", func(t *testing.T) {
		registry := NewRegistry(8)
		id := identity.New("counter-1")

		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			succeeded int
			existed   int
		)

		for range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := registry.Register(id, struct{}{})
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					succeeded++
				case errors.Is(err, gerrors.ErrAlreadyExist):
					existed++
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, succeeded)
		assert.Equal(t, 49, existed)
	})
	t.Run("With many identities across shards", func(t *testing.T) {
		registry := NewRegistry(16)
		for i := range 200 {
			require.NoError(t, registry.Register(identity.New(fmt.Sprintf("process-%d", i)), i))
		}
		assert.Equal(t, 200, registry.Len())
		assert.Len(t, registry.IDs(), 200)
	})
}

func TestFind(t *testing.T) {
	id := identity.New("counter-1")

	t.Run("With an absent identity", func(t *testing.T) {
		registry := NewRegistry(4)
		ref, ok, err := Find[*counter](registry, id)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, ref)
	})
	t.Run("With the registered type", func(t *testing.T) {
		registry := NewRegistry(4)
		want := newRef[*counter](id, newMailbox[*counter](0))
		require.NoError(t, registry.Register(id, want))

		ref, ok, err := Find[*counter](registry, id)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Same(t, want, ref)
	})
	t.Run("With another type", func(t *testing.T) {
		registry := NewRegistry(4)
		require.NoError(t, registry.Register(id, newRef[*counter](id, newMailbox[*counter](0))))

		ref, ok, err := Find[string](registry, id)
		require.Error(t, err)
		assert.ErrorIs(t, err, gerrors.ErrInvalidCast)
		assert.False(t, ok)
		assert.Nil(t, ref)

		var castErr *gerrors.InvalidCastError
		require.ErrorAs(t, err, &castErr)
		assert.Contains(t, castErr.To, "Ref[string]")
		assert.Contains(t, castErr.From, "counter")
	})
}
