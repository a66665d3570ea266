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
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	gerrors "github.com/nitinol/nitinol/errors"
	"github.com/nitinol/nitinol/extension"
	"github.com/nitinol/nitinol/identity"
)

func TestSpawn(t *testing.T) {
	t.Run("With sequence advanced once per applied event", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		ctx := t.Context()
		system := newTestSystem(t)
		entity := newCounter()

		ref, err := Spawn(ctx, system, identity.New("counter-1"), entity, WithSequence(10))
		require.NoError(t, err)
		assert.True(t, entity.started.Load())

		for range 5 {
			event, err := Handle[counterCommand, counterEvent](ctx, ref, increase{by: 2})
			require.NoError(t, err)
			assert.Equal(t, increased{by: 2}, event)
		}

		assert.EqualValues(t, 15, counterSequence(t, ref))
		assert.Equal(t, 10, counterValue(t, ref))

		require.NoError(t, system.Stop(ctx))
		waitStopped(t, ref)
		assert.True(t, entity.stopped.Load())
	})
	t.Run("With an empty identity", func(t *testing.T) {
		system := newTestSystem(t)
		ref, err := Spawn(t.Context(), system, identity.Identity{}, newCounter())
		require.ErrorIs(t, err, gerrors.ErrInvalidIdentity)
		assert.Nil(t, ref)
	})
	t.Run("With concurrent spawns of one identity", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		ctx := t.Context()
		system := newTestSystem(t)
		id := identity.New("counter-1")

		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			refs    []*Ref[*counter]
			existed int
		)

		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ref, err := Spawn(ctx, system, id, newCounter())
				mu.Lock()
				defer mu.Unlock()
				if err == nil {
					refs = append(refs, ref)
					return
				}
				if errors.Is(err, gerrors.ErrAlreadyExist) {
					existed++
				}
			}()
		}
		wg.Wait()

		require.Len(t, refs, 1)
		assert.Equal(t, 9, existed)
		assert.Equal(t, 1, system.Registry().Len())

		require.NoError(t, system.Stop(ctx))
		waitStopped(t, refs[0])
	})
	t.Run("With a failing start hook", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		system := newTestSystem(t)
		id := identity.New("counter-1")
		entity := newCounter()
		entity.failOnStart = true

		ref, err := Spawn(t.Context(), system, id, entity)
		require.ErrorIs(t, err, errStartFailure)
		assert.Nil(t, ref)
		assert.False(t, system.Registry().Contains(id))

		// the identity is free again
		ref, err = Spawn(t.Context(), system, id, newCounter())
		require.NoError(t, err)
		require.NoError(t, ref.Poison())
		waitStopped(t, ref)
	})
	t.Run("With poison draining the pending tasks", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		system := newTestSystem(t)
		id := identity.New("counter-1")
		entity := newCounter()

		ref, err := Spawn(t.Context(), system, id, entity)
		require.NoError(t, err)

		for range 3 {
			require.NoError(t, Notify[counterEvent](ref, increased{by: 1}))
		}
		require.NoError(t, ref.Poison())
		waitStopped(t, ref)

		// the worker is gone, reading the entity is race free
		assert.Equal(t, 3, entity.value)
		assert.True(t, entity.stopped.Load())
		assert.False(t, ref.IsAlive())

		found, ok, err := Find[*counter](system.Registry(), id)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, found)

		err = Notify[counterEvent](ref, increased{by: 1})
		require.ErrorIs(t, err, gerrors.ErrChannelDropped)
		_, err = Handle[counterCommand, counterEvent](t.Context(), ref, increase{by: 1})
		require.ErrorIs(t, err, gerrors.ErrChannelDropped)
	})
	t.Run("With poison requested from the context", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		system := newTestSystem(t)
		ref, err := Spawn(t.Context(), system, identity.New("counter-1"), newCounter())
		require.NoError(t, err)

		require.NoError(t, Submit(ref, TaskFunc[*counter](func(_ *counter, pctx *Context) error {
			pctx.Poison()
			return nil
		})))
		waitStopped(t, ref)
		assert.False(t, system.Registry().Contains(ref.ID()))
	})
	t.Run("With poison requested from the start hook", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		system := newTestSystem(t)
		id := identity.New("counter-1")
		entity := newCounter()
		entity.poisonOnStart = true

		ref, err := Spawn(t.Context(), system, id, entity)
		require.NoError(t, err)
		waitStopped(t, ref)

		assert.True(t, entity.started.Load())
		assert.True(t, entity.stopped.Load())
		assert.False(t, ref.IsAlive())
		assert.False(t, system.Registry().Contains(id))
	})
	t.Run("With idle timeout", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		system := newTestSystem(t)
		ref, err := Spawn(t.Context(), system, identity.New("counter-1"), newCounter(), WithIdleTimeout(50*time.Millisecond))
		require.NoError(t, err)

		require.NoError(t, Apply[counterEvent](t.Context(), ref, increased{by: 1}))
		waitStopped(t, ref)
		assert.False(t, system.Registry().Contains(ref.ID()))
	})
	t.Run("With a panic in the command handler", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		system := newTestSystem(t)
		entity := newCounter()
		ref, err := Spawn(t.Context(), system, identity.New("counter-1"), entity)
		require.NoError(t, err)

		_, err = Handle[counterCommand, counterEvent](t.Context(), ref, crash{})
		require.ErrorIs(t, err, gerrors.ErrChannelDropped)

		waitStopped(t, ref)
		assert.False(t, system.Registry().Contains(ref.ID()))
		assert.True(t, entity.stopped.Load())
	})
	t.Run("With a failing raw message receiver", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		system := newTestSystem(t)
		entity := newCounter()
		ref, err := Spawn(t.Context(), system, identity.New("counter-1"), entity)
		require.NoError(t, err)

		require.NoError(t, Receive(ref, "hello"))
		require.NoError(t, Receive(ref, "fail"))
		waitStopped(t, ref)

		assert.Equal(t, []string{"hello"}, entity.received)
	})
	t.Run("With a non fatal task error", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		system := newTestSystem(t)
		ref, err := Spawn(t.Context(), system, identity.New("counter-1"), newCounter())
		require.NoError(t, err)

		require.NoError(t, Submit(ref, TaskFunc[*counter](func(*counter, *Context) error {
			return errors.New("non fatal")
		})))

		require.NoError(t, Apply[counterEvent](t.Context(), ref, increased{by: 1}))
		assert.True(t, ref.IsAlive())

		require.NoError(t, ref.Poison())
		waitStopped(t, ref)
	})
	t.Run("With a fatal task error", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		system := newTestSystem(t)
		ref, err := Spawn(t.Context(), system, identity.New("counter-1"), newCounter())
		require.NoError(t, err)

		require.NoError(t, Submit(ref, TaskFunc[*counter](func(*counter, *Context) error {
			return Fatal(errors.New("fatal"))
		})))
		waitStopped(t, ref)
	})
}

func TestRefOperations(t *testing.T) {
	t.Run("With rejected commands", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		ctx := t.Context()
		system := newTestSystem(t)
		ref, err := Spawn(ctx, system, identity.New("counter-1"), newCounter())
		require.NoError(t, err)

		_, err = Handle[counterCommand, counterEvent](ctx, ref, decrease{by: 1})
		require.Error(t, err)
		assert.ErrorIs(t, err, errNegative)
		assert.True(t, gerrors.IsRejection(err))
		assert.NotErrorIs(t, err, gerrors.ErrChannelDropped)

		err = Employ[counterCommand, counterEvent](ctx, ref, decrease{by: 1})
		require.ErrorIs(t, err, errNegative)

		assert.Zero(t, counterSequence(t, ref))

		require.NoError(t, ref.Poison())
		waitStopped(t, ref)
	})
	t.Run("With Employ", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		ctx := t.Context()
		system := newTestSystem(t)
		ref, err := Spawn(ctx, system, identity.New("counter-1"), newCounter())
		require.NoError(t, err)

		require.NoError(t, Employ[counterCommand, counterEvent](ctx, ref, increase{by: 3}))
		require.NoError(t, Employ[counterCommand, counterEvent](ctx, ref, decrease{by: 1}))

		assert.Equal(t, 2, counterValue(t, ref))
		assert.EqualValues(t, 2, counterSequence(t, ref))

		require.NoError(t, ref.Poison())
		waitStopped(t, ref)
	})
	t.Run("With Entrust", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		ctx := t.Context()
		system := newTestSystem(t)
		ref, err := Spawn(ctx, system, identity.New("counter-1"), newCounter())
		require.NoError(t, err)

		require.NoError(t, Entrust[counterCommand, counterEvent](ref, increase{by: 2}))
		// rejected and logged
		require.NoError(t, Entrust[counterCommand, counterEvent](ref, decrease{by: 5}))
		require.NoError(t, Entrust[counterCommand, counterEvent](ref, decrease{by: 1}))

		// the mailbox is FIFO, Ask observes every entrusted command
		assert.Equal(t, 1, counterValue(t, ref))
		assert.EqualValues(t, 2, counterSequence(t, ref))

		require.NoError(t, ref.Poison())
		waitStopped(t, ref)
	})
	t.Run("With TryApply", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		ctx := t.Context()
		system := newTestSystem(t)
		ref, err := Spawn(ctx, system, identity.New("counter-1"), newCounter())
		require.NoError(t, err)

		require.NoError(t, TryApply[counterEvent](ctx, ref, increased{by: 1}))
		err = TryApply[counterEvent](ctx, ref, decreased{by: 2})
		require.ErrorIs(t, err, errNegative)
		assert.True(t, gerrors.IsRejection(err))

		assert.Equal(t, 1, counterValue(t, ref))
		assert.EqualValues(t, 1, counterSequence(t, ref))

		require.NoError(t, ref.Poison())
		waitStopped(t, ref)
	})
	t.Run("With a caller giving up", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		system := newTestSystem(t)
		ref, err := Spawn(t.Context(), system, identity.New("counter-1"), newCounter())
		require.NoError(t, err)

		release := make(chan struct{})
		require.NoError(t, Submit(ref, TaskFunc[*counter](func(*counter, *Context) error {
			<-release
			return nil
		})))

		ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
		defer cancel()
		_, err = Handle[counterCommand, counterEvent](ctx, ref, increase{by: 1})
		require.ErrorIs(t, err, context.DeadlineExceeded)

		close(release)

		// the abandoned command is still applied
		assert.Equal(t, 1, counterValue(t, ref))
		require.NoError(t, ref.Poison())
		waitStopped(t, ref)
	})
	t.Run("With pending tasks dropped on stop", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		system := newTestSystem(t)
		ref, err := Spawn(t.Context(), system, identity.New("counter-1"), newCounter())
		require.NoError(t, err)

		release := make(chan struct{})
		require.NoError(t, Submit(ref, TaskFunc[*counter](func(_ *counter, pctx *Context) error {
			<-release
			return Fatal(errors.New("stop now"))
		})))

		errc := make(chan error, 1)
		go func() {
			errc <- Apply[counterEvent](context.Background(), ref, increased{by: 1})
		}()

		require.Eventually(t, func() bool { return ref.Pending() == 1 }, time.Second, 5*time.Millisecond)
		close(release)

		require.ErrorIs(t, <-errc, gerrors.ErrChannelDropped)
		waitStopped(t, ref)
	})
}

func TestContext(t *testing.T) {
	t.Run("With extensions", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		installer := extension.NewInstaller()
		require.NoError(t, installer.Install(testExtension{id: "writer"}))

		system := newTestSystem(t, WithExtensions(installer.Build()))
		ref, err := Spawn(t.Context(), system, identity.New("counter-1"), newCounter())
		require.NoError(t, err)

		found, err := Ask(t.Context(), ref, func(_ *counter, pctx *Context) (string, error) {
			ext, err := pctx.Extension("writer")
			if err != nil {
				return "", err
			}
			return ext.ID(), nil
		})
		require.NoError(t, err)
		assert.Equal(t, "writer", found)

		_, err = Ask(t.Context(), ref, func(_ *counter, pctx *Context) (string, error) {
			_, err := pctx.Extension("stream")
			return "", err
		})
		require.ErrorIs(t, err, gerrors.ErrExtensionMissing)
		assert.True(t, ref.IsAlive())

		require.NoError(t, ref.Poison())
		waitStopped(t, ref)
	})
	t.Run("With registry access", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		system := newTestSystem(t)
		ref, err := Spawn(t.Context(), system, identity.New("counter-1"), newCounter())
		require.NoError(t, err)

		self, err := Ask(t.Context(), ref, func(_ *counter, pctx *Context) (*Ref[*counter], error) {
			found, _, err := Find[*counter](pctx.Registry(), pctx.ID())
			return found, err
		})
		require.NoError(t, err)
		assert.Same(t, ref, self)

		require.NoError(t, ref.Poison())
		waitStopped(t, ref)
	})
}
